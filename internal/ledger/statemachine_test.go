package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crewledger-systems/crewledger/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		last    models.TimestampType
		next    models.TimestampType
		allowed bool
	}{
		{models.TypeClockIn, models.TypeBreakStart, true},
		{models.TypeClockIn, models.TypeWBSChange, true},
		{models.TypeClockIn, models.TypeClockOut, true},
		{models.TypeClockIn, models.TypeClockIn, false},
		{models.TypeClockIn, models.TypeBreakEnd, false},

		{models.TypeClockOut, models.TypeClockIn, true},
		{models.TypeClockOut, models.TypeClockOut, false},
		{models.TypeClockOut, models.TypeBreakStart, false},
		{models.TypeClockOut, models.TypeWBSChange, false},

		{models.TypeBreakStart, models.TypeBreakEnd, true},
		{models.TypeBreakStart, models.TypeWBSChange, true},
		{models.TypeBreakStart, models.TypeClockOut, false},
		{models.TypeBreakStart, models.TypeBreakStart, false},

		{models.TypeBreakEnd, models.TypeBreakStart, true},
		{models.TypeBreakEnd, models.TypeWBSChange, true},
		{models.TypeBreakEnd, models.TypeClockOut, true},
		{models.TypeBreakEnd, models.TypeClockIn, false},
		{models.TypeBreakEnd, models.TypeBreakEnd, false},

		{models.TypeWBSChange, models.TypeBreakStart, true},
		{models.TypeWBSChange, models.TypeWBSChange, true},
		{models.TypeWBSChange, models.TypeClockOut, true},
		{models.TypeWBSChange, models.TypeClockIn, false},
		{models.TypeWBSChange, models.TypeBreakEnd, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.last)+"_to_"+string(tt.next), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.last, tt.next))
		})
	}
}

func TestLegalNext(t *testing.T) {
	assert.Equal(t, "CLOCK_IN", LegalNext(models.TypeClockOut))
	assert.Equal(t, "BREAK_END, WBS_CHANGE", LegalNext(models.TypeBreakStart))
}
