package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/ledger"
	"github.com/crewledger-systems/crewledger/internal/metrics"
	"github.com/crewledger-systems/crewledger/internal/models"
	"github.com/crewledger-systems/crewledger/internal/repository"
)

// TimesheetService derives payroll summaries from a date range of the
// ledger. Reports are transient: computed on demand, never persisted.
type TimesheetService struct {
	events repository.LedgerStore
}

func NewTimesheetService(events repository.LedgerStore) *TimesheetService {
	return &TimesheetService{events: events}
}

// Generate computes the daily breakdown and weekly summary for the inclusive
// date range [startDate, endDate].
func (s *TimesheetService) Generate(ctx context.Context, employeeID, startDate, endDate string) (*models.TimesheetReport, error) {
	timer := time.Now()
	defer func() {
		metrics.TimesheetDuration.Observe(time.Since(timer).Seconds())
	}()

	from, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
	if err != nil {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "start date must be formatted YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
	if err != nil {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "end date must be formatted YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "end date precedes start date")
	}

	events, err := s.events.EventsInRange(ctx, employeeID, from, to.Add(24*time.Hour))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(events) == 0 {
		return nil, apperrors.New(apperrors.KindNotFound, apperrors.CodeNoLogsInRange,
			fmt.Sprintf("no timestamp events between %s and %s", startDate, endDate))
	}

	segments := segmentAllocations(events)
	breaksByDate := ledger.BreakTotalsByDate(events)
	days := rollUpDays(segments, breaksByDate)

	report := &models.TimesheetReport{
		EmployeeID: employeeID,
		Days:       days,
		Weekly:     summarizeWeek(startDate, endDate, days),
	}
	return report, nil
}

// segmentAllocations splits the event stream into contiguous work
// allocations. A segment opens at CLOCK_IN, WBS_CHANGE or BREAK_END and
// closes at the next WBS_CHANGE, CLOCK_OUT or BREAK_START; WBS_CHANGE closes
// the running segment and opens a new one under the new code.
func segmentAllocations(events []*models.TimestampEvent) []models.AllocationSegment {
	var segments []models.AllocationSegment
	var open *models.TimestampEvent

	closeSegment := func(at time.Time) {
		if open == nil {
			return
		}
		segments = append(segments, models.AllocationSegment{
			Date:             open.DateKey(),
			WorkCategoryCode: open.WorkCategoryCode,
			Start:            open.Timestamp,
			End:              at,
			Hours:            roundHours(at.Sub(open.Timestamp).Hours()),
		})
		open = nil
	}

	for _, e := range events {
		switch e.Type {
		case models.TypeClockIn, models.TypeBreakEnd:
			open = e
		case models.TypeWBSChange:
			closeSegment(e.Timestamp)
			open = e
		case models.TypeClockOut, models.TypeBreakStart:
			closeSegment(e.Timestamp)
		}
	}
	return segments
}

// rollUpDays groups segments by date and applies the daily regular/overtime
// split after subtracting the day's paired break time.
func rollUpDays(segments []models.AllocationSegment, breaksByDate map[string]time.Duration) []models.DailyTimesheet {
	byDate := make(map[string][]models.AllocationSegment)
	for _, seg := range segments {
		byDate[seg.Date] = append(byDate[seg.Date], seg)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]models.DailyTimesheet, 0, len(dates))
	for _, date := range dates {
		var segmentHours float64
		for _, seg := range byDate[date] {
			segmentHours += seg.Hours
		}
		breakHours := roundHours(breaksByDate[date].Hours())
		total := roundHours(segmentHours - breakHours)

		days = append(days, models.DailyTimesheet{
			Date:          date,
			Segments:      byDate[date],
			BreakHours:    breakHours,
			TotalHours:    total,
			RegularHours:  roundHours(math.Min(total, ledger.DailyRegularHours)),
			OvertimeHours: roundHours(math.Max(0, total-ledger.DailyRegularHours)),
		})
	}
	return days
}

// summarizeWeek applies the weekly threshold: regular hours above 40 move to
// weekly overtime, and total overtime adds the already-computed daily
// overtime on top. The formula mirrors payroll's established arithmetic.
func summarizeWeek(startDate, endDate string, days []models.DailyTimesheet) models.WeeklySummary {
	summary := models.WeeklySummary{
		StartDate: startDate,
		EndDate:   endDate,
	}
	for _, day := range days {
		summary.RegularHours += day.RegularHours
		summary.DailyOvertimeHours += day.OvertimeHours
	}
	summary.RegularHours = roundHours(summary.RegularHours)
	summary.DailyOvertimeHours = roundHours(summary.DailyOvertimeHours)

	if summary.RegularHours > ledger.WeeklyRegularHours {
		summary.WeeklyOvertimeHours = roundHours(summary.RegularHours - ledger.WeeklyRegularHours)
		summary.RegularHours = ledger.WeeklyRegularHours
	}
	summary.OvertimeHours = roundHours(summary.DailyOvertimeHours + summary.WeeklyOvertimeHours)
	return summary
}

// WriteCSV renders the flat tabular export: one row per allocation segment.
func WriteCSV(w io.Writer, report *models.TimesheetReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "work_category_code", "start", "end", "hours"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, day := range report.Days {
		for _, seg := range day.Segments {
			row := []string{
				seg.Date,
				seg.WorkCategoryCode,
				seg.Start.UTC().Format(time.RFC3339),
				seg.End.UTC().Format(time.RFC3339),
				strconv.FormatFloat(seg.Hours, 'f', 2, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
