// Package handlers decodes HTTP requests, enforces ownership, delegates to
// the services and renders the uniform error envelope.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/crewledger-systems/crewledger/common/httputil"
	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/middleware"
	"github.com/crewledger-systems/crewledger/internal/service"
)

type Handler struct {
	timeclock  *service.TimeclockService
	attendance *service.AttendanceService
	timesheet  *service.TimesheetService
	audit      *service.AuditService
	org        *service.OrgService
}

func New(
	timeclock *service.TimeclockService,
	attendance *service.AttendanceService,
	timesheet *service.TimesheetService,
	audit *service.AuditService,
	org *service.OrgService,
) *Handler {
	return &Handler{
		timeclock:  timeclock,
		attendance: attendance,
		timesheet:  timesheet,
		audit:      audit,
		org:        org,
	}
}

// writeServiceError maps a tagged service error onto the wire. Internal
// causes are logged but never serialized.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal {
		slog.ErrorContext(r.Context(), "request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
	httputil.WriteError(w, apperrors.HTTPStatus(kind), apperrors.CodeOf(err), apperrors.PublicMessage(err))
}

// subjectEmployee resolves which employee's ledger the request targets. An
// explicit employee_id (query or body) is honored for admins only; everyone
// else acts on their own ledger.
func subjectEmployee(r *http.Request, requested string) (string, error) {
	c := middleware.ClaimsFromContext(r.Context())
	if c == nil {
		return "", apperrors.Authorization("missing identity")
	}
	if requested == "" || requested == c.EmployeeID {
		return c.EmployeeID, nil
	}
	if !c.IsAdmin() {
		return "", apperrors.Authorization("employees may only act on their own ledger")
	}
	return requested, nil
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
