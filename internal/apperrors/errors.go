// Package apperrors defines the tagged error taxonomy shared by services and
// handlers. Callers branch on Kind and Code with errors.As, never on message
// content.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping and retry semantics.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthorization
	KindValidation
	KindConflict
	KindNotFound
)

// String returns the lowercase taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Stable error codes surfaced to clients. These are part of the API contract.
const (
	CodeInvalidTransition       = "INVALID_TRANSITION"
	CodeFirstEventMustBeClockIn = "FIRST_EVENT_MUST_BE_CLOCK_IN"
	CodeExcessiveGap            = "EXCESSIVE_GAP"
	CodeNonMonotonicTimestamp   = "NON_MONOTONIC_TIMESTAMP"
	CodeNoActiveCategory        = "NO_ACTIVE_CATEGORY_FOR_DEPARTMENT"
	CodeUnassignedCategory      = "UNASSIGNED_CATEGORY"
	CodeMissingField            = "MISSING_FIELD"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeIncompleteDay           = "INCOMPLETE_DAY"
	CodeMissingClockBoundary    = "MISSING_CLOCK_BOUNDARY"
	CodeExcessiveWorkDuration   = "EXCESSIVE_WORK_DURATION"
	CodeExcessiveBreakDuration  = "EXCESSIVE_BREAK_DURATION"
	CodeLeaveConflict           = "LEAVE_CONFLICT"
	CodeNoLogsInRange           = "NO_LOGS_IN_RANGE"
	CodeDuplicateEvent          = "DUPLICATE_EVENT"
	CodeDuplicateAttendance     = "DUPLICATE_ATTENDANCE"
	CodeDuplicateResource       = "DUPLICATE_RESOURCE"
	CodeForbidden               = "FORBIDDEN"
	CodeNotFound                = "NOT_FOUND"
	CodeInternal                = "INTERNAL"
)

// Error carries a kind, a stable code and a human-readable message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a tagged error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a cause to a tagged error.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Authorization builds a KindAuthorization error with CodeForbidden.
func Authorization(message string) *Error {
	return New(KindAuthorization, CodeForbidden, message)
}

// Validation builds a KindValidation error.
func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

// Conflict builds a KindConflict error.
func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return New(KindNotFound, CodeNotFound, message)
}

// Internal wraps an unexpected failure. The cause is retained for logging but
// never serialized to clients.
func Internal(err error) *Error {
	return Wrap(KindInternal, CodeInternal, "internal error", err)
}

// KindOf extracts the taxonomy kind from any error chain. Untagged errors
// classify as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf extracts the stable code from any error chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HTTPStatus maps a kind to its HTTP response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to serialize. Internal errors are
// collapsed to a generic message so causes never leak.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "an unexpected error occurred"
}
