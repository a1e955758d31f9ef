package handlers

import (
	"fmt"
	"net/http"

	"github.com/crewledger-systems/crewledger/common/httputil"
	"github.com/crewledger-systems/crewledger/internal/service"
)

// GenerateTimesheet handles GET /api/v1/timesheets?start=&end=&format=.
// format defaults to json; format=csv streams an export.
func (h *Handler) GenerateTimesheet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	employeeID, err := subjectEmployee(r, q.Get("employee_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	report, err := h.timesheet.Generate(r.Context(), employeeID, q.Get("start"), q.Get("end"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if q.Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("timesheet_%s_%s.csv", employeeID, report.Weekly.StartDate)))
		if err := service.WriteCSV(w, report); err != nil {
			// headers already sent, nothing more to do than log
			writeServiceError(w, r, err)
		}
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
