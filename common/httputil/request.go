package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// GetClientIP extracts the real client IP, preferring proxy headers:
// X-Forwarded-For (first entry), then X-Real-IP, then RemoteAddr.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// ErrInvalidDate is returned by ParseDateParam for malformed dates.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// ParseDateParam validates a YYYY-MM-DD query parameter and returns its
// midnight-UTC instant.
func ParseDateParam(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
