package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/crewledger-systems/crewledger/pkg/claims"
)

type contextKey string

const claimsKey contextKey = "claims"

// AuthMiddleware gates handlers on a verified identity token.
type AuthMiddleware struct {
	verifier *claims.Verifier
}

func NewAuthMiddleware(verifier *claims.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth verifies the Bearer token and stores the caller's claims in
// the request context.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		c, err := m.verifier.Verify(parts[1])
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRole verifies the token and additionally demands one of the given
// roles.
func (m *AuthMiddleware) RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			c := ClaimsFromContext(r.Context())
			for _, role := range roles {
				if c != nil && c.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
		})
	}
}

// ClaimsFromContext returns the verified claims stored by RequireAuth, or
// nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *claims.Claims {
	if c, ok := ctx.Value(claimsKey).(*claims.Claims); ok {
		return c
	}
	return nil
}
