package handlers

import (
	"net/http"

	"github.com/crewledger-systems/crewledger/common/httputil"
	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/models"
)

// CreateAttendance handles POST /api/v1/attendance. The record is derived
// from the ledger, never accepted from the client.
func (h *Handler) CreateAttendance(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAttendanceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, apperrors.Validation(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}

	employeeID, err := subjectEmployee(r, req.EmployeeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	record, err := h.attendance.Create(r.Context(), employeeID, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}
