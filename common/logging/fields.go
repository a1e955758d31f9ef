package logging

import "log/slog"

// Common field names for consistent logging across the service.
const (
	FieldService    = "service"
	FieldEmployeeID = "employee_id"
	FieldRole       = "role"
	FieldIP         = "ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldDate       = "date"
	FieldSequence   = "sequence_number"
	FieldEventType  = "event_type"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// EmployeeID returns a slog attribute for the subject employee.
func EmployeeID(id string) slog.Attr {
	return slog.String(FieldEmployeeID, id)
}

// Role returns a slog attribute for the caller's role.
func Role(role string) slog.Attr {
	return slog.String(FieldRole, role)
}

// Date returns a slog attribute for a YYYY-MM-DD calendar date.
func Date(date string) slog.Attr {
	return slog.String(FieldDate, date)
}

// Sequence returns a slog attribute for a ledger sequence number.
func Sequence(n int) slog.Attr {
	return slog.Int(FieldSequence, n)
}

// EventType returns a slog attribute for a timestamp event type.
func EventType(t string) slog.Attr {
	return slog.String(FieldEventType, t)
}

// Err returns a slog attribute for an error value.
func Err(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
