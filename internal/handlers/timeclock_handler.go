package handlers

import (
	"net/http"

	"github.com/crewledger-systems/crewledger/common/httputil"
	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/models"
)

// AppendEvent handles POST /api/v1/timeclock/events. The server assigns the
// timestamp; clients never supply one.
func (h *Handler) AppendEvent(w http.ResponseWriter, r *http.Request) {
	var req models.AppendEventRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, apperrors.Validation(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}

	employeeID, err := subjectEmployee(r, req.EmployeeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := h.timeclock.AppendEvent(r.Context(), employeeID, &req, httputil.GetClientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// LatestSequence handles GET /api/v1/timeclock/latest. Clients call this to
// refetch the chain head after losing an append race.
func (h *Handler) LatestSequence(w http.ResponseWriter, r *http.Request) {
	employeeID, err := subjectEmployee(r, r.URL.Query().Get("employee_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := h.timeclock.LatestSequence(r.Context(), employeeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
