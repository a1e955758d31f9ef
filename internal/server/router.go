package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonmw "github.com/crewledger-systems/crewledger/common/middleware"
	"github.com/crewledger-systems/crewledger/internal/handlers"
	"github.com/crewledger-systems/crewledger/internal/middleware"
	"github.com/crewledger-systems/crewledger/pkg/claims"
)

// NewRouter constructs a ServeMux with the time-clock API routes registered.
func NewRouter(h *handlers.Handler, auth *middleware.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics are unauthenticated
	mux.HandleFunc("/healthz", h.HealthCheck)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/v1/timeclock/events", auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.AppendEvent(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/api/v1/timeclock/latest", auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.LatestSequence(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/api/v1/attendance", auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.CreateAttendance(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/api/v1/timesheets", auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.GenerateTimesheet(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/api/v1/ledger/validate", auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.ValidateLedger(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/api/v1/work-categories", auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.ListWorkCategories(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/api/v1/leaves", auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.CreateLeave(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	adminOnly := auth.RequireRole(claims.RoleHRAdmin, claims.RoleManagerAdmin)
	mux.HandleFunc("/api/v1/admin/work-categories", adminOnly(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.CreateWorkCategory(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	cors := commonmw.CORS(commonmw.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	})
	return commonmw.RequestID(cors(mux))
}
