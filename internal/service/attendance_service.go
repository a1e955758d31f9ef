package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/crewledger-systems/crewledger/common/fieldcrypt"
	"github.com/crewledger-systems/crewledger/common/logging"
	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/ledger"
	"github.com/crewledger-systems/crewledger/internal/metrics"
	"github.com/crewledger-systems/crewledger/internal/models"
	"github.com/crewledger-systems/crewledger/internal/notify"
	"github.com/crewledger-systems/crewledger/internal/repository"
)

// AttendanceService derives one attendance record per (employee, date) from
// the day's slice of the ledger. Derivation is read-only over the chain; the
// only write is the final conditional insert.
type AttendanceService struct {
	events     repository.LedgerStore
	attendance repository.AttendanceStore
	dir        repository.Directory
	leaves     repository.LeaveCalendar
	cipher     *fieldcrypt.Cipher
	pub        *notify.Publisher
	now        func() time.Time
}

func NewAttendanceService(
	events repository.LedgerStore,
	attendance repository.AttendanceStore,
	dir repository.Directory,
	leaves repository.LeaveCalendar,
	cipher *fieldcrypt.Cipher,
	pub *notify.Publisher,
) *AttendanceService {
	return &AttendanceService{
		events:     events,
		attendance: attendance,
		dir:        dir,
		leaves:     leaves,
		cipher:     cipher,
		pub:        pub,
		now:        time.Now,
	}
}

// Create derives and persists the attendance record for one calendar date.
func (s *AttendanceService) Create(ctx context.Context, employeeID string, req *models.CreateAttendanceRequest) (*models.AttendanceRecord, error) {
	record, err := s.derive(ctx, employeeID, req)
	if err != nil {
		metrics.AttendanceCreated.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if err := s.attendance.CreateAttendance(ctx, record); err != nil {
		if errors.Is(err, repository.ErrAttendanceExists) {
			metrics.AttendanceCreated.WithLabelValues("conflict").Inc()
			return nil, apperrors.Conflict(apperrors.CodeDuplicateAttendance,
				fmt.Sprintf("an attendance record already exists for %s", req.Date))
		}
		metrics.AttendanceCreated.WithLabelValues("error").Inc()
		return nil, apperrors.Internal(err)
	}

	metrics.AttendanceCreated.WithLabelValues("created").Inc()
	s.pub.AttendanceCreated(ctx, record)

	slog.InfoContext(ctx, "attendance record created",
		logging.EmployeeID(employeeID),
		logging.Date(record.Date),
	)
	return record, nil
}

func (s *AttendanceService) derive(ctx context.Context, employeeID string, req *models.CreateAttendanceRequest) (*models.AttendanceRecord, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "date must be formatted YYYY-MM-DD")
	}

	if _, err := s.dir.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("employee %s not found", employeeID))
		}
		return nil, apperrors.Internal(err)
	}

	// Direct existence check; the unique (employee, date) index backs it up
	// against races.
	if _, err := s.attendance.AttendanceByDate(ctx, employeeID, req.Date); err == nil {
		return nil, apperrors.Conflict(apperrors.CodeDuplicateAttendance,
			fmt.Sprintf("an attendance record already exists for %s", req.Date))
	} else if !errors.Is(err, repository.ErrAttendanceNotFound) {
		return nil, apperrors.Internal(err)
	}

	onLeave, err := s.leaves.HasApprovedLeave(ctx, employeeID, req.Date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if onLeave {
		return nil, apperrors.Validation(apperrors.CodeLeaveConflict,
			fmt.Sprintf("an approved leave covers %s", req.Date))
	}

	events, err := s.events.EventsInRange(ctx, employeeID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(events) < 2 {
		return nil, apperrors.Validation(apperrors.CodeIncompleteDay,
			fmt.Sprintf("found %d events on %s, at least a clock-in and clock-out are required", len(events), req.Date))
	}

	var clockIn, clockOut *models.TimestampEvent
	clockIns, clockOuts := 0, 0
	for _, e := range events {
		switch e.Type {
		case models.TypeClockIn:
			clockIns++
			clockIn = e
		case models.TypeClockOut:
			clockOuts++
			clockOut = e
		}
	}
	if clockIns != 1 || clockOuts != 1 {
		return nil, apperrors.Validation(apperrors.CodeMissingClockBoundary,
			fmt.Sprintf("expected exactly one %s and one %s on %s, found %d and %d",
				models.TypeClockIn, models.TypeClockOut, req.Date, clockIns, clockOuts))
	}

	span := clockOut.Timestamp.Sub(clockIn.Timestamp)
	if span > ledger.MaxWorkSpan {
		return nil, apperrors.Validation(apperrors.CodeExcessiveWorkDuration,
			fmt.Sprintf("work span of %s exceeds %s", span, ledger.MaxWorkSpan))
	}

	breaks := ledger.PairBreaks(events)
	for _, b := range breaks {
		if b.Duration() > ledger.MaxSingleBreak {
			return nil, apperrors.Validation(apperrors.CodeExcessiveBreakDuration,
				fmt.Sprintf("break of %s exceeds %s", b.Duration(), ledger.MaxSingleBreak))
		}
	}

	net := span - ledger.TotalBreak(breaks)
	totalHours := roundHours(net.Hours())
	regular := math.Min(totalHours, ledger.DailyRegularHours)
	overtime := math.Max(0, totalHours-ledger.DailyRegularHours)

	record := &models.AttendanceRecord{
		EmployeeID:       employeeID,
		Date:             req.Date,
		CheckInTime:      clockIn.Timestamp,
		CheckOutTime:     clockOut.Timestamp,
		TotalHours:       totalHours,
		RegularHours:     roundHours(regular),
		OvertimeHours:    roundHours(overtime),
		BreakCount:       len(breaks),
		WorkCategoryCode: clockIn.WorkCategoryCode,
		Location:         clockIn.Location, // already ciphertext, stored as-is
		WorkMode:         req.WorkMode,
		CreatedAt:        s.now().UTC(),
	}
	if record.WorkMode == "" {
		record.WorkMode = models.WorkModeOffice
	}

	if record.WorkCategoryCode != "" {
		cat, err := s.dir.GetWorkCategory(ctx, record.WorkCategoryCode)
		switch {
		case err == nil:
			record.CostCenter = cat.CostCenter
		case errors.Is(err, repository.ErrCategoryNotFound):
			// Category retired since the clock-in; the record keeps the code
			// with no cost center.
		default:
			return nil, apperrors.Internal(err)
		}
	}

	if req.Notes != "" {
		encrypted, err := s.cipher.Encrypt(req.Notes)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		record.Notes = encrypted
	}

	id, err := newRecordID()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	record.ID = id
	return record, nil
}

// roundHours normalizes derived hour values to two decimal places.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
