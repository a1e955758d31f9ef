package models

import "time"

// Employee is the slice of the HR employee record the time-clock core needs:
// identity plus department linkage for work-category resolution.
type Employee struct {
	ID           string    `json:"id"`
	DepartmentID string    `json:"department_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Department groups employees and owns a set of work categories.
type Department struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CostCenter string    `json:"cost_center"`
	CreatedAt  time.Time `json:"created_at"`
}

// WorkCategory is a WBS cost-allocation code owned by a department.
// At most one category per department is flagged as the default; the default
// is what CLOCK_IN/BREAK_END events resolve to when no code is supplied.
type WorkCategory struct {
	Code         string    `json:"code"`
	DepartmentID string    `json:"department_id"`
	Name         string    `json:"name"`
	CostCenter   string    `json:"cost_center"`
	Active       bool      `json:"active"`
	Default      bool      `json:"default"`
	CreatedAt    time.Time `json:"created_at"`
}

// LeaveStatus is the approval state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// LeaveRequest covers an inclusive date range. Only approved leaves block
// attendance-record creation.
type LeaveRequest struct {
	ID         string      `json:"id"`
	EmployeeID string      `json:"employee_id"`
	StartDate  string      `json:"start_date"` // YYYY-MM-DD
	EndDate    string      `json:"end_date"`   // YYYY-MM-DD, inclusive
	Status     LeaveStatus `json:"status"`
	Reason     string      `json:"reason,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Covers reports whether the leave range includes the given YYYY-MM-DD date.
// Lexicographic comparison is safe for the fixed date format.
func (l *LeaveRequest) Covers(date string) bool {
	return l.StartDate <= date && date <= l.EndDate
}
