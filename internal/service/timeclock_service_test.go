package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewledger-systems/crewledger/common/fieldcrypt"
	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/ledger"
	"github.com/crewledger-systems/crewledger/internal/models"
	"github.com/crewledger-systems/crewledger/internal/repository"
)

// fakeClock hands out a controllable time to the services under test.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time { return c.current }

func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestRepo(t *testing.T) *repository.InMemoryRepository {
	t.Helper()
	ctx := context.Background()

	repo := repository.NewInMemoryRepository()
	require.NoError(t, repo.CreateDepartment(ctx, &models.Department{ID: "dept-eng", Name: "Engineering"}))
	require.NoError(t, repo.CreateDepartment(ctx, &models.Department{ID: "dept-ops", Name: "Operations"}))
	require.NoError(t, repo.CreateWorkCategory(ctx, &models.WorkCategory{
		Code: "ENG-100", DepartmentID: "dept-eng", Name: "Product Development", CostCenter: "CC-ENG", Active: true, Default: true,
	}))
	require.NoError(t, repo.CreateWorkCategory(ctx, &models.WorkCategory{
		Code: "ENG-200", DepartmentID: "dept-eng", Name: "Platform", CostCenter: "CC-ENG", Active: true,
	}))
	require.NoError(t, repo.CreateWorkCategory(ctx, &models.WorkCategory{
		Code: "ENG-300", DepartmentID: "dept-eng", Name: "Retired", Active: false,
	}))
	require.NoError(t, repo.CreateWorkCategory(ctx, &models.WorkCategory{
		Code: "OPS-100", DepartmentID: "dept-ops", Name: "Operations", Active: true, Default: true,
	}))
	require.NoError(t, repo.CreateEmployee(ctx, &models.Employee{
		ID: "emp-1", DepartmentID: "dept-eng", FullName: "Dana Field", Active: true,
	}))
	return repo
}

func newTestCipher(t *testing.T) *fieldcrypt.Cipher {
	t.Helper()
	cipher, err := fieldcrypt.New("service-test-secret")
	require.NoError(t, err)
	return cipher
}

func newTimeclockFixture(t *testing.T) (*TimeclockService, *repository.InMemoryRepository, *fakeClock) {
	t.Helper()
	repo := newTestRepo(t)
	clock := &fakeClock{current: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
	svc := NewTimeclockService(repo, repo, newTestCipher(t), nil)
	svc.now = clock.Now
	return svc, repo, clock
}

func TestAppendEvent_FirstEventMustBeClockIn(t *testing.T) {
	svc, _, _ := newTimeclockFixture(t)

	for _, typ := range []models.TimestampType{
		models.TypeClockOut, models.TypeBreakStart, models.TypeBreakEnd,
	} {
		_, err := svc.AppendEvent(context.Background(), "emp-1", &models.AppendEventRequest{Type: typ}, "")
		require.Error(t, err, string(typ))
		assert.Equal(t, apperrors.CodeFirstEventMustBeClockIn, apperrors.CodeOf(err))
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}

func TestAppendEvent_FirstEventGetsGenesisHash(t *testing.T) {
	svc, _, _ := newTimeclockFixture(t)

	resp, err := svc.AppendEvent(context.Background(), "emp-1", &models.AppendEventRequest{Type: models.TypeClockIn}, "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SequenceNumber)
	assert.Equal(t, models.GenesisHash, resp.HashChain)
}

func TestAppendEvent_ChainsSequenceAndHash(t *testing.T) {
	svc, repo, clock := newTimeclockFixture(t)
	ctx := context.Background()

	_, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockIn}, "")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	resp, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeBreakStart}, "")
	require.NoError(t, err)

	assert.Equal(t, 2, resp.SequenceNumber)

	events, err := repo.AllEvents(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ledger.Digest(events[0]), events[1].HashChain)
	require.NotNil(t, events[1].PreviousTimestamp)
	assert.True(t, events[1].PreviousTimestamp.Equal(events[0].Timestamp))
}

func TestAppendEvent_InvalidTransitions(t *testing.T) {
	svc, _, clock := newTimeclockFixture(t)
	ctx := context.Background()

	_, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockIn}, "")
	require.NoError(t, err)

	tests := []models.TimestampType{models.TypeClockIn, models.TypeBreakEnd}
	for _, typ := range tests {
		clock.Advance(time.Hour)
		_, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: typ}, "")
		require.Error(t, err, string(typ))
		assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
	}
}

func TestAppendEvent_ExcessiveGap(t *testing.T) {
	svc, _, clock := newTimeclockFixture(t)
	ctx := context.Background()

	_, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockIn}, "")
	require.NoError(t, err)

	clock.Advance(24*time.Hour + time.Second)
	_, err = svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockOut}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeExcessiveGap, apperrors.CodeOf(err))
}

func TestAppendEvent_NonMonotonicTimestampIsConflict(t *testing.T) {
	svc, _, _ := newTimeclockFixture(t)
	ctx := context.Background()

	_, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockIn}, "")
	require.NoError(t, err)

	// Clock not advanced: the next server timestamp equals the chain head.
	_, err = svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockOut}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNonMonotonicTimestamp, apperrors.CodeOf(err))
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestAppendEvent_UnknownEmployee(t *testing.T) {
	svc, _, _ := newTimeclockFixture(t)

	_, err := svc.AppendEvent(context.Background(), "emp-404", &models.AppendEventRequest{Type: models.TypeClockIn}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestAppendEvent_WBSChangeRequiresReason(t *testing.T) {
	svc, _, clock := newTimeclockFixture(t)
	ctx := context.Background()

	_, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockIn}, "")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{
		Type: models.TypeWBSChange, WorkCategoryCode: "ENG-200",
	}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(err))

	_, err = svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{
		Type: models.TypeWBSChange, WorkCategoryCode: "ENG-200", ChangeReason: "switched project",
	}, "")
	require.NoError(t, err)
}

func TestAppendEvent_CategoryResolution(t *testing.T) {
	tests := []struct {
		name     string
		req      *models.AppendEventRequest
		wantCode string
		wantErr  string
	}{
		{
			name:     "clock-in defaults to department default",
			req:      &models.AppendEventRequest{Type: models.TypeClockIn},
			wantCode: "ENG-100",
		},
		{
			name:     "explicit active code accepted",
			req:      &models.AppendEventRequest{Type: models.TypeClockIn, WorkCategoryCode: "ENG-200"},
			wantCode: "ENG-200",
		},
		{
			name:    "unknown code rejected",
			req:     &models.AppendEventRequest{Type: models.TypeClockIn, WorkCategoryCode: "NOPE"},
			wantErr: apperrors.CodeUnassignedCategory,
		},
		{
			name:    "inactive code rejected",
			req:     &models.AppendEventRequest{Type: models.TypeClockIn, WorkCategoryCode: "ENG-300"},
			wantErr: apperrors.CodeUnassignedCategory,
		},
		{
			name:    "other department's code rejected",
			req:     &models.AppendEventRequest{Type: models.TypeClockIn, WorkCategoryCode: "OPS-100"},
			wantErr: apperrors.CodeUnassignedCategory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTimeclockFixture(t)
			resp, err := svc.AppendEvent(context.Background(), "emp-1", tt.req, "")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, resp.SequenceNumber)
			events, err := svc.store.AllEvents(context.Background(), "emp-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, events[0].WorkCategoryCode)
		})
	}
}

func TestAppendEvent_CarriesCategoryForward(t *testing.T) {
	svc, repo, clock := newTimeclockFixture(t)
	ctx := context.Background()

	_, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{
		Type: models.TypeClockIn, WorkCategoryCode: "ENG-200",
	}, "")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeBreakStart}, "")
	require.NoError(t, err)

	events, err := repo.AllEvents(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "ENG-200", events[1].WorkCategoryCode)
}

func TestAppendEvent_NoDefaultCategory(t *testing.T) {
	svc, repo, _ := newTimeclockFixture(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateDepartment(ctx, &models.Department{ID: "dept-bare"}))
	require.NoError(t, repo.CreateEmployee(ctx, &models.Employee{
		ID: "emp-2", DepartmentID: "dept-bare", Active: true,
	}))

	_, err := svc.AppendEvent(ctx, "emp-2", &models.AppendEventRequest{Type: models.TypeClockIn}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNoActiveCategory, apperrors.CodeOf(err))
}

func TestAppendEvent_LocationEncryptedAtRest(t *testing.T) {
	svc, repo, _ := newTimeclockFixture(t)
	ctx := context.Background()

	_, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{
		Type: models.TypeClockIn, Location: "Building 4, floor 2",
	}, "")
	require.NoError(t, err)

	events, err := repo.AllEvents(ctx, "emp-1")
	require.NoError(t, err)
	assert.NotEmpty(t, events[0].Location)
	assert.NotEqual(t, "Building 4, floor 2", events[0].Location)

	plain, err := newTestCipher(t).Decrypt(events[0].Location)
	require.NoError(t, err)
	assert.Equal(t, "Building 4, floor 2", plain)
}

// racingStore simulates a writer that loses the append race: the head read
// succeeds, then the conditional insert reports the slot already taken.
type racingStore struct {
	repository.LedgerStore
}

func (s *racingStore) AppendEvent(ctx context.Context, event *models.TimestampEvent) error {
	return repository.ErrEventExists
}

func TestAppendEvent_LostWriteRaceIsConflict(t *testing.T) {
	repo := newTestRepo(t)
	clock := &fakeClock{current: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	require.NoError(t, repo.AppendEvent(ctx, &models.TimestampEvent{
		EmployeeID: "emp-1", Timestamp: clock.Now().Add(-time.Hour),
		Type: models.TypeClockIn, SequenceNumber: 1, HashChain: models.GenesisHash,
	}))

	svc := NewTimeclockService(&racingStore{LedgerStore: repo}, repo, newTestCipher(t), nil)
	svc.now = clock.Now

	_, err := svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockOut}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDuplicateEvent, apperrors.CodeOf(err))
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestLatestSequence(t *testing.T) {
	svc, _, clock := newTimeclockFixture(t)
	ctx := context.Background()

	_, err := svc.LatestSequence(ctx, "emp-1")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockIn}, "")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = svc.AppendEvent(ctx, "emp-1", &models.AppendEventRequest{Type: models.TypeClockOut}, "")
	require.NoError(t, err)

	resp, err := svc.LatestSequence(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SequenceNumber)
	assert.Equal(t, models.TypeClockOut, resp.Type)
}

func TestAppendEvent_UnknownType(t *testing.T) {
	svc, _, _ := newTimeclockFixture(t)

	_, err := svc.AppendEvent(context.Background(), "emp-1", &models.AppendEventRequest{Type: "LUNCH"}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}
