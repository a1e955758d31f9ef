package handlers

import (
	"net/http"

	"github.com/crewledger-systems/crewledger/common/httputil"
	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/models"
)

// CreateWorkCategory handles POST /api/v1/admin/work-categories. Admin only;
// the router enforces the role.
func (h *Handler) CreateWorkCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWorkCategoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, apperrors.Validation(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}

	category, err := h.org.CreateWorkCategory(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, category)
}

// ListWorkCategories handles GET /api/v1/work-categories?department_id=.
func (h *Handler) ListWorkCategories(w http.ResponseWriter, r *http.Request) {
	departmentID := r.URL.Query().Get("department_id")
	if departmentID == "" {
		writeServiceError(w, r, apperrors.Validation(apperrors.CodeMissingField, "department_id is required"))
		return
	}

	categories, err := h.org.ListWorkCategories(r.Context(), departmentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, categories)
}

// CreateLeave handles POST /api/v1/leaves.
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLeaveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, apperrors.Validation(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}

	employeeID, err := subjectEmployee(r, req.EmployeeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	leave, err := h.org.CreateLeaveRequest(r.Context(), employeeID, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, leave)
}
