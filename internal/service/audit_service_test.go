package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/models"
)

func TestValidateLedger_EmptyLedgerIsValid(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewAuditService(repo, repo)

	report, err := svc.ValidateLedger(context.Background(), "emp-1")
	require.NoError(t, err)

	assert.Equal(t, models.IntegrityValid, report.Status)
	assert.Zero(t, report.EventCount)
}

func TestValidateLedger_CleanChain(t *testing.T) {
	repo := newTestRepo(t)
	seedDay(t, repo, "2026-03-02",
		dayStep{8 * time.Hour, models.TypeClockIn},
		dayStep{10 * time.Hour, models.TypeBreakStart},
		dayStep{10*time.Hour + 15*time.Minute, models.TypeBreakEnd},
		dayStep{16 * time.Hour, models.TypeClockOut},
	)
	svc := NewAuditService(repo, repo)

	report, err := svc.ValidateLedger(context.Background(), "emp-1")
	require.NoError(t, err)

	assert.Equal(t, models.IntegrityValid, report.Status)
	assert.Equal(t, 4, report.EventCount)
	assert.Empty(t, report.Errors)
}

func TestValidateLedger_DetectsTampering(t *testing.T) {
	repo := newTestRepo(t)
	seedDay(t, repo, "2026-03-02",
		dayStep{8 * time.Hour, models.TypeClockIn},
		dayStep{16 * time.Hour, models.TypeClockOut},
	)
	repo.CorruptEvent("emp-1", 2, "0000000000000000")
	svc := NewAuditService(repo, repo)

	report, err := svc.ValidateLedger(context.Background(), "emp-1")
	require.NoError(t, err, "a corrupted ledger is a finding, not a failure")

	assert.Equal(t, models.IntegrityInvalid, report.Status)
	assert.Equal(t, 1, report.Summary[models.IntegrityHash])
	require.Len(t, report.Errors, 1)
	assert.Equal(t, models.IntegrityHash, report.Errors[0].Class)
	assert.Equal(t, 2, report.Errors[0].SequenceNumber)
}

func TestValidateLedger_UnknownEmployee(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewAuditService(repo, repo)

	_, err := svc.ValidateLedger(context.Background(), "emp-404")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
