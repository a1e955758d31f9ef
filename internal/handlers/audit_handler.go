package handlers

import (
	"net/http"

	"github.com/crewledger-systems/crewledger/common/httputil"
)

// ValidateLedger handles GET /api/v1/ledger/validate. Integrity violations
// are findings in the report body, not request failures, so a corrupted
// ledger still returns 200.
func (h *Handler) ValidateLedger(w http.ResponseWriter, r *http.Request) {
	employeeID, err := subjectEmployee(r, r.URL.Query().Get("employee_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	report, err := h.audit.ValidateLedger(r.Context(), employeeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
