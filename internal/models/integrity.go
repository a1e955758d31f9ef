package models

import "time"

// IntegrityErrorClass buckets ledger violations for the audit summary.
type IntegrityErrorClass string

const (
	IntegritySequence      IntegrityErrorClass = "sequence"
	IntegrityChronological IntegrityErrorClass = "chronological"
	IntegrityHash          IntegrityErrorClass = "hash"
	IntegrityState         IntegrityErrorClass = "state"
	IntegrityBreakDuration IntegrityErrorClass = "break_duration"
)

// IntegrityStatus is the overall verdict of a ledger audit.
type IntegrityStatus string

const (
	IntegrityValid   IntegrityStatus = "VALID"
	IntegrityInvalid IntegrityStatus = "INVALID"
)

// IntegrityError pins a single violation to the event (or date) it was
// observed at.
type IntegrityError struct {
	SequenceNumber int                 `json:"sequence_number,omitempty"`
	Timestamp      *time.Time          `json:"timestamp,omitempty"`
	Date           string              `json:"date,omitempty"`
	Class          IntegrityErrorClass `json:"class"`
	Message        string              `json:"message"`
}

// IntegrityReport is the result of replaying an employee's entire ledger.
// It is informational: the auditor reports violations, it never fails.
type IntegrityReport struct {
	EmployeeID  string                      `json:"employee_id"`
	Status      IntegrityStatus             `json:"status"`
	EventCount  int                         `json:"event_count"`
	Errors      []IntegrityError            `json:"errors"`
	Summary     map[IntegrityErrorClass]int `json:"summary"`
	GeneratedAt time.Time                   `json:"generated_at"`
}
