package ledger

import (
	"time"

	"github.com/crewledger-systems/crewledger/internal/models"
)

// BreakInterval is one paired BREAK_START..BREAK_END span.
type BreakInterval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval.
func (b BreakInterval) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// PairBreaks walks events in order and pairs BREAK_START with the following
// BREAK_END. A trailing unclosed BREAK_START yields no interval; the state
// machine and the auditor surface that condition separately.
func PairBreaks(events []*models.TimestampEvent) []BreakInterval {
	var intervals []BreakInterval
	var open *time.Time
	for _, e := range events {
		switch e.Type {
		case models.TypeBreakStart:
			t := e.Timestamp
			open = &t
		case models.TypeBreakEnd:
			if open != nil {
				intervals = append(intervals, BreakInterval{Start: *open, End: e.Timestamp})
				open = nil
			}
		}
	}
	return intervals
}

// TotalBreak sums the durations of the given intervals.
func TotalBreak(intervals []BreakInterval) time.Duration {
	var total time.Duration
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}

// BreakTotalsByDate groups paired break time by the calendar date (UTC) the
// break started on.
func BreakTotalsByDate(events []*models.TimestampEvent) map[string]time.Duration {
	totals := make(map[string]time.Duration)
	for _, iv := range PairBreaks(events) {
		date := iv.Start.UTC().Format("2006-01-02")
		totals[date] += iv.Duration()
	}
	return totals
}
