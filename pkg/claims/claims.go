// Package claims parses and verifies the identity tokens issued by the
// company identity provider. The service only consumes claims; it never
// issues tokens itself.
package claims

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Roles understood by the service.
const (
	RoleEmployee     = "employee"
	RoleHRAdmin      = "hr_admin"
	RoleManagerAdmin = "manager_admin"
)

// Claims is the verified identity of a caller.
type Claims struct {
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the role may act on ledgers other than its own.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleHRAdmin || c.Role == RoleManagerAdmin
}

// Verifier validates HMAC-signed identity tokens.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates an access token and returns its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.EmployeeID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
