package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/models"
)

func TestCreateWorkCategory(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewOrgService(repo, nil)

	category, err := svc.CreateWorkCategory(context.Background(), &models.CreateWorkCategoryRequest{
		Code: "ENG-400", DepartmentID: "dept-eng", Name: "Tooling", CostCenter: "CC-ENG",
	})
	require.NoError(t, err)

	assert.True(t, category.Active, "new categories start active")
	assert.False(t, category.Default)

	stored, err := repo.GetWorkCategory(context.Background(), "ENG-400")
	require.NoError(t, err)
	assert.Equal(t, "Tooling", stored.Name)
}

func TestCreateWorkCategory_Duplicate(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewOrgService(repo, nil)

	_, err := svc.CreateWorkCategory(context.Background(), &models.CreateWorkCategoryRequest{
		Code: "ENG-100", DepartmentID: "dept-eng",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDuplicateResource, apperrors.CodeOf(err))
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestCreateWorkCategory_MissingFields(t *testing.T) {
	svc := NewOrgService(newTestRepo(t), nil)

	_, err := svc.CreateWorkCategory(context.Background(), &models.CreateWorkCategoryRequest{Code: "ENG-500"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(err))
}

func TestListWorkCategories(t *testing.T) {
	svc := NewOrgService(newTestRepo(t), nil)

	cats, err := svc.ListWorkCategories(context.Background(), "dept-eng")
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "ENG-100", cats[0].Code)

	_, err = svc.ListWorkCategories(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(err))
}

func TestCreateLeaveRequest(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewOrgService(repo, nil)

	leave, err := svc.CreateLeaveRequest(context.Background(), "emp-1", &models.CreateLeaveRequest{
		StartDate: "2026-03-09", EndDate: "2026-03-11", Reason: "vacation",
	})
	require.NoError(t, err)

	assert.Equal(t, models.LeaveApproved, leave.Status)
	assert.NotEmpty(t, leave.ID)

	blocked, err := repo.HasApprovedLeave(context.Background(), "emp-1", "2026-03-10")
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestCreateLeaveRequest_Validation(t *testing.T) {
	svc := NewOrgService(newTestRepo(t), nil)

	tests := []struct {
		name string
		req  *models.CreateLeaveRequest
	}{
		{"bad start", &models.CreateLeaveRequest{StartDate: "soon", EndDate: "2026-03-11"}},
		{"bad end", &models.CreateLeaveRequest{StartDate: "2026-03-09", EndDate: "later"}},
		{"reversed", &models.CreateLeaveRequest{StartDate: "2026-03-11", EndDate: "2026-03-09"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLeaveRequest(context.Background(), "emp-1", tt.req)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
		})
	}
}

func TestCreateLeaveRequest_UnknownEmployee(t *testing.T) {
	svc := NewOrgService(newTestRepo(t), nil)

	_, err := svc.CreateLeaveRequest(context.Background(), "emp-404", &models.CreateLeaveRequest{
		StartDate: "2026-03-09", EndDate: "2026-03-11",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
