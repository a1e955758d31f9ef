package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/cache"
	"github.com/crewledger-systems/crewledger/internal/models"
	"github.com/crewledger-systems/crewledger/internal/repository"
)

// OrgService is the thin administrative surface over the HR entities the
// time-clock core depends on: work categories and leave requests.
type OrgService struct {
	repo  repository.Repository
	cache *cache.CategoryCache
	now   func() time.Time
}

func NewOrgService(repo repository.Repository, categoryCache *cache.CategoryCache) *OrgService {
	return &OrgService{repo: repo, cache: categoryCache, now: time.Now}
}

// CreateWorkCategory registers a WBS code under a department and invalidates
// the category cache so appends see it immediately.
func (s *OrgService) CreateWorkCategory(ctx context.Context, req *models.CreateWorkCategoryRequest) (*models.WorkCategory, error) {
	if req.Code == "" || req.DepartmentID == "" {
		return nil, apperrors.Validation(apperrors.CodeMissingField, "code and department_id are required")
	}

	category := &models.WorkCategory{
		Code:         req.Code,
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		CostCenter:   req.CostCenter,
		Active:       true,
		Default:      req.Default,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.CreateWorkCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			return nil, apperrors.Conflict(apperrors.CodeDuplicateResource,
				fmt.Sprintf("work category %s already exists", req.Code))
		}
		return nil, apperrors.Internal(err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, category.Code, category.DepartmentID); err != nil {
			// Stale cache entries expire on their own; creation already
			// succeeded.
			return category, nil
		}
	}
	return category, nil
}

// ListWorkCategories returns a department's WBS codes.
func (s *OrgService) ListWorkCategories(ctx context.Context, departmentID string) ([]*models.WorkCategory, error) {
	if departmentID == "" {
		return nil, apperrors.Validation(apperrors.CodeMissingField, "department_id is required")
	}
	cats, err := s.repo.ListWorkCategories(ctx, departmentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return cats, nil
}

// CreateLeaveRequest files an approved leave for an inclusive date range.
// Approval workflow lives in the HR suite; records arriving here are
// already approved.
func (s *OrgService) CreateLeaveRequest(ctx context.Context, employeeID string, req *models.CreateLeaveRequest) (*models.LeaveRequest, error) {
	if !validDate(req.StartDate) || !validDate(req.EndDate) {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "dates must be formatted YYYY-MM-DD")
	}
	if req.EndDate < req.StartDate {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "end date precedes start date")
	}

	if _, err := s.repo.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("employee %s not found", employeeID))
		}
		return nil, apperrors.Internal(err)
	}

	id, err := newRecordID()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	leave := &models.LeaveRequest{
		ID:         id,
		EmployeeID: employeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     models.LeaveApproved,
		Reason:     req.Reason,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateLeaveRequest(ctx, leave); err != nil {
		return nil, apperrors.Internal(err)
	}
	return leave, nil
}

func validDate(date string) bool {
	_, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	return err == nil
}
