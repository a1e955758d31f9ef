package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/crewledger-systems/crewledger/internal/models"
)

// Audit replays an entire ledger, ordered ascending by timestamp, and
// re-derives every chain property independently of what was stored. It never
// fails: violations are reported, not thrown.
func Audit(employeeID string, events []*models.TimestampEvent) *models.IntegrityReport {
	report := &models.IntegrityReport{
		EmployeeID: employeeID,
		EventCount: len(events),
		Errors:     []models.IntegrityError{},
		Summary: map[models.IntegrityErrorClass]int{
			models.IntegritySequence:      0,
			models.IntegrityChronological: 0,
			models.IntegrityHash:          0,
			models.IntegrityState:         0,
			models.IntegrityBreakDuration: 0,
		},
		GeneratedAt: time.Now().UTC(),
	}

	add := func(e models.IntegrityError) {
		report.Errors = append(report.Errors, e)
		report.Summary[e.Class]++
	}

	for i, ev := range events {
		ts := ev.Timestamp
		if ev.SequenceNumber != i+1 {
			add(models.IntegrityError{
				SequenceNumber: ev.SequenceNumber,
				Timestamp:      &ts,
				Class:          models.IntegritySequence,
				Message:        fmt.Sprintf("expected sequence number %d, found %d", i+1, ev.SequenceNumber),
			})
		}

		if i == 0 {
			if ev.HashChain != models.GenesisHash {
				add(models.IntegrityError{
					SequenceNumber: ev.SequenceNumber,
					Timestamp:      &ts,
					Class:          models.IntegrityHash,
					Message:        "first event must carry the genesis hash",
				})
			}
			if ev.Type != models.TypeClockIn {
				add(models.IntegrityError{
					SequenceNumber: ev.SequenceNumber,
					Timestamp:      &ts,
					Class:          models.IntegrityState,
					Message:        fmt.Sprintf("ledger must open with %s, found %s", models.TypeClockIn, ev.Type),
				})
			}
			continue
		}

		prev := events[i-1]
		if !ev.Timestamp.After(prev.Timestamp) {
			add(models.IntegrityError{
				SequenceNumber: ev.SequenceNumber,
				Timestamp:      &ts,
				Class:          models.IntegrityChronological,
				Message:        fmt.Sprintf("timestamp %s does not advance past predecessor %s", ev.Timestamp.UTC().Format(time.RFC3339), prev.Timestamp.UTC().Format(time.RFC3339)),
			})
		}
		if expected := Digest(prev); ev.HashChain != expected {
			add(models.IntegrityError{
				SequenceNumber: ev.SequenceNumber,
				Timestamp:      &ts,
				Class:          models.IntegrityHash,
				Message:        "stored hash chain does not match recomputed digest of predecessor",
			})
		}
		if !CanTransition(prev.Type, ev.Type) {
			add(models.IntegrityError{
				SequenceNumber: ev.SequenceNumber,
				Timestamp:      &ts,
				Class:          models.IntegrityState,
				Message:        fmt.Sprintf("%s cannot follow %s (legal: %s)", ev.Type, prev.Type, LegalNext(prev.Type)),
			})
		}
	}

	// Break budget per calendar date across the whole ledger.
	totals := BreakTotalsByDate(events)
	dates := make([]string, 0, len(totals))
	for date := range totals {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		if totals[date] > MaxDailyBreakTotal {
			add(models.IntegrityError{
				Date:    date,
				Class:   models.IntegrityBreakDuration,
				Message: fmt.Sprintf("total break time %s on %s exceeds %s", totals[date], date, MaxDailyBreakTotal),
			})
		}
	}

	// The ledger must not end mid-shift.
	if n := len(events); n > 0 {
		last := events[n-1]
		if last.Type != models.TypeClockOut {
			ts := last.Timestamp
			add(models.IntegrityError{
				SequenceNumber: last.SequenceNumber,
				Timestamp:      &ts,
				Class:          models.IntegrityState,
				Message:        fmt.Sprintf("ledger ends with %s, expected a closing %s", last.Type, models.TypeClockOut),
			})
		}
	}

	report.Status = models.IntegrityValid
	for _, count := range report.Summary {
		if count > 0 {
			report.Status = models.IntegrityInvalid
			break
		}
	}
	return report
}
