package models

import "time"

// TimestampType identifies the kind of time-clock event in an employee's ledger.
type TimestampType string

const (
	TypeClockIn    TimestampType = "CLOCK_IN"
	TypeClockOut   TimestampType = "CLOCK_OUT"
	TypeBreakStart TimestampType = "BREAK_START"
	TypeBreakEnd   TimestampType = "BREAK_END"
	TypeWBSChange  TimestampType = "WBS_CHANGE"
)

// Valid reports whether t is one of the known timestamp types.
func (t TimestampType) Valid() bool {
	switch t {
	case TypeClockIn, TypeClockOut, TypeBreakStart, TypeBreakEnd, TypeWBSChange:
		return true
	}
	return false
}

// GenesisHash is the hash-chain sentinel carried by the first event of a ledger.
const GenesisHash = "GENESIS"

// TimestampEvent is one link in an employee's append-only time-clock ledger.
// Events are immutable once written; every field that participates in the
// hash chain (timestamp, type, sequence number, work-category code) must be
// stable across reads.
type TimestampEvent struct {
	EmployeeID        string        `json:"employee_id"`
	Timestamp         time.Time     `json:"timestamp"`
	Type              TimestampType `json:"timestamp_type"`
	SequenceNumber    int           `json:"sequence_number"`
	PreviousTimestamp *time.Time    `json:"previous_timestamp,omitempty"`
	HashChain         string        `json:"hash_chain"`
	WorkCategoryCode  string        `json:"work_category_code,omitempty"`
	ChangeReason      string        `json:"change_reason,omitempty"`

	// Location is confidential and held as AEAD ciphertext at rest.
	Location  string `json:"location,omitempty"`
	DeviceID  string `json:"device_id,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

// DateKey returns the calendar date of the event in UTC, formatted YYYY-MM-DD.
// It is the grouping key for attendance and break-duration aggregation.
func (e *TimestampEvent) DateKey() string {
	return e.Timestamp.UTC().Format("2006-01-02")
}
