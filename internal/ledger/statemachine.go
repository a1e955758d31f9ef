package ledger

import (
	"strings"
	"time"

	"github.com/crewledger-systems/crewledger/internal/models"
)

// Policy limits enforced at append and audit time.
const (
	// MaxEventGap is the longest silence tolerated between consecutive
	// events of one ledger.
	MaxEventGap = 24 * time.Hour

	// MaxWorkSpan caps a single day's clock-in to clock-out span.
	MaxWorkSpan = 12 * time.Hour

	// MaxSingleBreak caps one BREAK_START..BREAK_END interval.
	MaxSingleBreak = 30 * time.Minute

	// MaxDailyBreakTotal caps the summed break time of one calendar date,
	// checked by the auditor.
	MaxDailyBreakTotal = 4 * time.Hour

	// DailyRegularHours is the daily regular/overtime split point.
	DailyRegularHours = 8.0

	// WeeklyRegularHours is the weekly overtime threshold.
	WeeklyRegularHours = 40.0
)

// legalNext is the event-ordering state machine: the set of event types that
// may follow a given last event type. An empty ledger admits only CLOCK_IN.
var legalNext = map[models.TimestampType][]models.TimestampType{
	models.TypeClockIn:    {models.TypeBreakStart, models.TypeWBSChange, models.TypeClockOut},
	models.TypeClockOut:   {models.TypeClockIn},
	models.TypeBreakStart: {models.TypeBreakEnd, models.TypeWBSChange},
	models.TypeBreakEnd:   {models.TypeBreakStart, models.TypeWBSChange, models.TypeClockOut},
	models.TypeWBSChange:  {models.TypeBreakStart, models.TypeWBSChange, models.TypeClockOut},
}

// CanTransition reports whether next may follow last.
func CanTransition(last, next models.TimestampType) bool {
	for _, t := range legalNext[last] {
		if t == next {
			return true
		}
	}
	return false
}

// LegalNext returns the comma-joined legal successors of last, for error
// messages.
func LegalNext(last models.TimestampType) string {
	types := legalNext[last]
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
