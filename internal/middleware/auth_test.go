package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewledger-systems/crewledger/pkg/claims"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, employeeID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims.Claims{
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

func TestRequireAuth_StoresClaims(t *testing.T) {
	mw := NewAuthMiddleware(claims.NewVerifier(testSecret))

	var got *claims.Claims
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		got = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "emp-1", claims.RoleEmployee))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "emp-1", got.EmployeeID)
}

func TestRequireAuth_Rejections(t *testing.T) {
	mw := NewAuthMiddleware(claims.NewVerifier(testSecret))
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"bad token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	mw := NewAuthMiddleware(claims.NewVerifier(testSecret))
	handler := mw.RequireRole(claims.RoleHRAdmin, claims.RoleManagerAdmin)(
		func(w http.ResponseWriter, r *http.Request) {},
	)

	adminReq := httptest.NewRequest(http.MethodGet, "/", nil)
	adminReq.Header.Set("Authorization", "Bearer "+issueToken(t, "emp-2", claims.RoleHRAdmin))
	rec := httptest.NewRecorder()
	handler(rec, adminReq)
	assert.Equal(t, http.StatusOK, rec.Code)

	employeeReq := httptest.NewRequest(http.MethodGet, "/", nil)
	employeeReq.Header.Set("Authorization", "Bearer "+issueToken(t, "emp-3", claims.RoleEmployee))
	rec = httptest.NewRecorder()
	handler(rec, employeeReq)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClaimsFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, ClaimsFromContext(req.Context()))
}
