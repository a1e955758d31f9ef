package models

import "time"

// WorkMode records where the day was worked.
type WorkMode string

const (
	WorkModeOffice WorkMode = "OFFICE"
	WorkModeRemote WorkMode = "REMOTE"
	WorkModeHybrid WorkMode = "HYBRID"
)

// AttendanceRecord is the derived once-per-day summary of an employee's
// ledger: one record per (employee, date), created idempotently.
type AttendanceRecord struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employee_id"`
	Date             string    `json:"date"` // YYYY-MM-DD
	CheckInTime      time.Time `json:"check_in_time"`
	CheckOutTime     time.Time `json:"check_out_time"`
	TotalHours       float64   `json:"total_hours"`
	RegularHours     float64   `json:"regular_hours"`
	OvertimeHours    float64   `json:"overtime_hours"`
	BreakCount       int       `json:"break_count"`
	WorkCategoryCode string    `json:"work_category_code,omitempty"`
	CostCenter       string    `json:"cost_center,omitempty"`
	WorkMode         WorkMode  `json:"work_mode"`

	// Location and Notes are confidential; stored as AEAD ciphertext.
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
