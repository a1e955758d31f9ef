package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation(CodeInvalidTransition, "bad order"), KindValidation},
		{"conflict", Conflict(CodeDuplicateEvent, "taken"), KindConflict},
		{"not found", NotFound("missing"), KindNotFound},
		{"authorization", Authorization("no"), KindAuthorization},
		{"internal", Internal(errors.New("boom")), KindInternal},
		{"untagged", errors.New("boom"), KindInternal},
		{"wrapped", fmt.Errorf("context: %w", NotFound("missing")), KindNotFound},
		{"nil-ish untagged chain", fmt.Errorf("outer: %w", errors.New("inner")), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeExcessiveGap, CodeOf(Validation(CodeExcessiveGap, "too long")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, CodeLeaveConflict,
		CodeOf(fmt.Errorf("wrapped: %w", Validation(CodeLeaveConflict, "on leave"))))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusConflict, HTTPStatus(KindConflict))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(KindAuthorization))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"))

	assert.NotContains(t, PublicMessage(err), "connection refused")
	assert.Contains(t, err.Error(), "connection refused", "operators still see the cause")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(KindInternal, CodeInternal, "wrapped", cause)

	assert.True(t, errors.Is(err, cause))
}
