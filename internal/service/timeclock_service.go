package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crewledger-systems/crewledger/common/fieldcrypt"
	"github.com/crewledger-systems/crewledger/common/logging"
	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/ledger"
	"github.com/crewledger-systems/crewledger/internal/metrics"
	"github.com/crewledger-systems/crewledger/internal/models"
	"github.com/crewledger-systems/crewledger/internal/notify"
	"github.com/crewledger-systems/crewledger/internal/repository"
)

// TimeclockService owns the append protocol of the hash-chain ledger: it
// validates the request, checks the state machine against the chain head,
// links the new event to its predecessor and performs the single conditional
// write.
type TimeclockService struct {
	store  repository.LedgerStore
	dir    repository.Directory
	cipher *fieldcrypt.Cipher
	pub    *notify.Publisher
	now    func() time.Time
}

func NewTimeclockService(store repository.LedgerStore, dir repository.Directory, cipher *fieldcrypt.Cipher, pub *notify.Publisher) *TimeclockService {
	return &TimeclockService{
		store:  store,
		dir:    dir,
		cipher: cipher,
		pub:    pub,
		now:    time.Now,
	}
}

// AppendEvent runs the full append protocol for one event. The timestamp is
// assigned server-side; on a lost write race the caller receives a conflict
// and is expected to refetch the chain head and retry.
func (s *TimeclockService) AppendEvent(ctx context.Context, employeeID string, req *models.AppendEventRequest, ipAddress string) (*models.AppendEventResponse, error) {
	if err := validateAppendRequest(req); err != nil {
		metrics.AppendsTotal.WithLabelValues(string(req.Type), "rejected").Inc()
		return nil, err
	}

	employee, err := s.dir.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("employee %s not found", employeeID))
		}
		return nil, apperrors.Internal(err)
	}

	last, err := s.store.LatestEvent(ctx, employeeID)
	if err != nil && !errors.Is(err, repository.ErrNoEvents) {
		return nil, apperrors.Internal(err)
	}

	timestamp := s.now().UTC().Truncate(time.Second)

	event := &models.TimestampEvent{
		EmployeeID:   employeeID,
		Timestamp:    timestamp,
		Type:         req.Type,
		ChangeReason: req.ChangeReason,
		DeviceID:     req.DeviceID,
		IPAddress:    ipAddress,
	}

	if last == nil {
		if req.Type != models.TypeClockIn {
			metrics.AppendsTotal.WithLabelValues(string(req.Type), "rejected").Inc()
			return nil, apperrors.Validation(apperrors.CodeFirstEventMustBeClockIn,
				fmt.Sprintf("the first event of a ledger must be %s", models.TypeClockIn))
		}
		event.SequenceNumber = 1
		event.HashChain = models.GenesisHash
	} else {
		if !timestamp.After(last.Timestamp) {
			metrics.AppendsTotal.WithLabelValues(string(req.Type), "rejected").Inc()
			return nil, apperrors.Conflict(apperrors.CodeNonMonotonicTimestamp,
				"event timestamp does not advance past the chain head; refetch the latest sequence and retry")
		}
		if !ledger.CanTransition(last.Type, req.Type) {
			metrics.AppendsTotal.WithLabelValues(string(req.Type), "rejected").Inc()
			return nil, apperrors.Validation(apperrors.CodeInvalidTransition,
				fmt.Sprintf("%s cannot follow %s (legal: %s)", req.Type, last.Type, ledger.LegalNext(last.Type)))
		}
		if gap := timestamp.Sub(last.Timestamp); gap > ledger.MaxEventGap {
			metrics.AppendsTotal.WithLabelValues(string(req.Type), "rejected").Inc()
			return nil, apperrors.Validation(apperrors.CodeExcessiveGap,
				fmt.Sprintf("gap of %s since the previous event exceeds %s", gap, ledger.MaxEventGap))
		}
		event.SequenceNumber = last.SequenceNumber + 1
		prevTS := last.Timestamp
		event.PreviousTimestamp = &prevTS
		event.HashChain = ledger.Digest(last)
	}

	code, err := s.resolveWorkCategory(ctx, employee, last, req)
	if err != nil {
		metrics.AppendsTotal.WithLabelValues(string(req.Type), "rejected").Inc()
		return nil, err
	}
	event.WorkCategoryCode = code

	if req.Location != "" {
		encrypted, err := s.cipher.Encrypt(req.Location)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		event.Location = encrypted
	}

	if err := s.store.AppendEvent(ctx, event); err != nil {
		if errors.Is(err, repository.ErrEventExists) {
			metrics.AppendConflicts.Inc()
			metrics.AppendsTotal.WithLabelValues(string(req.Type), "conflict").Inc()
			return nil, apperrors.Conflict(apperrors.CodeDuplicateEvent,
				"an event already exists at this timestamp; refetch the latest sequence and retry")
		}
		metrics.AppendsTotal.WithLabelValues(string(req.Type), "error").Inc()
		return nil, apperrors.Internal(err)
	}

	metrics.AppendsTotal.WithLabelValues(string(req.Type), "accepted").Inc()
	s.pub.EventAppended(ctx, event)

	slog.InfoContext(ctx, "timestamp event appended",
		logging.EmployeeID(employeeID),
		logging.EventType(string(event.Type)),
		logging.Sequence(event.SequenceNumber),
	)

	return &models.AppendEventResponse{
		EmployeeID:     employeeID,
		Timestamp:      event.Timestamp.Format(time.RFC3339),
		SequenceNumber: event.SequenceNumber,
		HashChain:      event.HashChain,
	}, nil
}

// LatestSequence returns the chain head for conflict recovery.
func (s *TimeclockService) LatestSequence(ctx context.Context, employeeID string) (*models.LatestSequenceResponse, error) {
	last, err := s.store.LatestEvent(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNoEvents) {
			return nil, apperrors.NotFound(fmt.Sprintf("no events recorded for employee %s", employeeID))
		}
		return nil, apperrors.Internal(err)
	}

	return &models.LatestSequenceResponse{
		EmployeeID:     employeeID,
		SequenceNumber: last.SequenceNumber,
		Timestamp:      last.Timestamp.Format(time.RFC3339),
		Type:           last.Type,
		HashChain:      last.HashChain,
	}, nil
}

// validateAppendRequest enforces the pre-append business rules that need no
// storage access.
func validateAppendRequest(req *models.AppendEventRequest) error {
	if !req.Type.Valid() {
		return apperrors.Validation(apperrors.CodeInvalidInput,
			fmt.Sprintf("unknown timestamp type %q", req.Type))
	}
	if req.Type == models.TypeWBSChange && req.ChangeReason == "" {
		return apperrors.Validation(apperrors.CodeMissingField,
			"a change reason is required for WBS_CHANGE events")
	}
	return nil
}

// resolveWorkCategory applies the work-category rules: a supplied code must
// be active and owned by the employee's department; an omitted code on
// CLOCK_IN/BREAK_END resolves to the department's active default; any other
// omission carries the predecessor's code forward.
func (s *TimeclockService) resolveWorkCategory(ctx context.Context, employee *models.Employee, last *models.TimestampEvent, req *models.AppendEventRequest) (string, error) {
	if req.WorkCategoryCode != "" {
		cat, err := s.dir.GetWorkCategory(ctx, req.WorkCategoryCode)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return "", apperrors.Validation(apperrors.CodeUnassignedCategory,
					fmt.Sprintf("work category %s does not exist", req.WorkCategoryCode))
			}
			return "", apperrors.Internal(err)
		}
		if !cat.Active || cat.DepartmentID != employee.DepartmentID {
			return "", apperrors.Validation(apperrors.CodeUnassignedCategory,
				fmt.Sprintf("work category %s is not assigned to the employee's department", req.WorkCategoryCode))
		}
		return cat.Code, nil
	}

	if req.Type == models.TypeClockIn || req.Type == models.TypeBreakEnd {
		cat, err := s.dir.DefaultWorkCategory(ctx, employee.DepartmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNoDefaultCategory) {
				return "", apperrors.Validation(apperrors.CodeNoActiveCategory,
					fmt.Sprintf("department %s has no active default work category", employee.DepartmentID))
			}
			return "", apperrors.Internal(err)
		}
		return cat.Code, nil
	}

	if last != nil {
		return last.WorkCategoryCode, nil
	}
	return "", nil
}

// newRecordID mints a UUIDv7 so derived records sort by creation time.
func newRecordID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate record ID: %w", err)
	}
	return id.String(), nil
}
