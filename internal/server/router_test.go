package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewledger-systems/crewledger/common/fieldcrypt"
	"github.com/crewledger-systems/crewledger/internal/cache"
	"github.com/crewledger-systems/crewledger/internal/handlers"
	"github.com/crewledger-systems/crewledger/internal/middleware"
	"github.com/crewledger-systems/crewledger/internal/models"
	"github.com/crewledger-systems/crewledger/internal/repository"
	"github.com/crewledger-systems/crewledger/internal/service"
	"github.com/crewledger-systems/crewledger/pkg/claims"
)

const testSecret = "router-test-secret"

func issueToken(t *testing.T, employeeID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims.Claims{
		EmployeeID: employeeID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestRouter(t *testing.T) (http.Handler, *repository.InMemoryRepository) {
	t.Helper()

	repo := repository.NewInMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.CreateDepartment(ctx, &models.Department{ID: "dept-eng", Name: "Engineering"}))
	require.NoError(t, repo.CreateWorkCategory(ctx, &models.WorkCategory{
		Code: "ENG-100", DepartmentID: "dept-eng", Name: "Engineering Default", Active: true, Default: true,
	}))
	require.NoError(t, repo.CreateEmployee(ctx, &models.Employee{ID: "emp-1", DepartmentID: "dept-eng", FullName: "Dana Field", Active: true}))

	cipher, err := fieldcrypt.New("router-test-field-secret")
	require.NoError(t, err)

	dir := cache.NewCategoryCache(repo, nil, 0)
	h := handlers.New(
		service.NewTimeclockService(repo, dir, cipher, nil),
		service.NewAttendanceService(repo, repo, dir, repo, cipher, nil),
		service.NewTimesheetService(repo),
		service.NewAuditService(repo, dir),
		service.NewOrgService(repo, dir),
	)
	auth := middleware.NewAuthMiddleware(claims.NewVerifier(testSecret))
	return NewRouter(h, auth), repo
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/timeclock/events"},
		{http.MethodGet, "/api/v1/timeclock/latest"},
		{http.MethodPost, "/api/v1/attendance"},
		{http.MethodGet, "/api/v1/timesheets"},
		{http.MethodGet, "/api/v1/ledger/validate"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_AppendEvent(t *testing.T) {
	router, _ := newTestRouter(t)
	token := issueToken(t, "emp-1", claims.RoleEmployee)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/timeclock/events",
		strings.NewReader(`{"timestamp_type":"CLOCK_IN"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/timeclock/latest", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sequence_number":1`)
}

func TestRouter_EmployeeCannotTargetOthers(t *testing.T) {
	router, _ := newTestRouter(t)
	token := issueToken(t, "emp-1", claims.RoleEmployee)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/validate?employee_id=emp-2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_AdminRouteRejectsEmployeeRole(t *testing.T) {
	router, _ := newTestRouter(t)
	token := issueToken(t, "emp-1", claims.RoleEmployee)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/work-categories",
		strings.NewReader(`{"code":"ENG-200","department_id":"dept-eng"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_AdminRouteAcceptsHRAdmin(t *testing.T) {
	router, _ := newTestRouter(t)
	token := issueToken(t, "hr-1", claims.RoleHRAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/work-categories",
		strings.NewReader(`{"code":"ENG-200","department_id":"dept-eng","name":"Platform"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)
	token := issueToken(t, "emp-1", claims.RoleEmployee)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/timeclock/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
