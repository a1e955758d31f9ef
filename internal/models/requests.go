package models

// AppendEventRequest is the client payload for appending a time-clock event.
// The timestamp is always assigned server-side.
type AppendEventRequest struct {
	EmployeeID       string        `json:"employee_id,omitempty"` // admins only; defaults to caller
	Type             TimestampType `json:"timestamp_type"`
	WorkCategoryCode string        `json:"work_category_code,omitempty"`
	ChangeReason     string        `json:"change_reason,omitempty"`
	Location         string        `json:"location,omitempty"`
	DeviceID         string        `json:"device_id,omitempty"`
}

// AppendEventResponse acknowledges the accepted event.
type AppendEventResponse struct {
	EmployeeID     string `json:"employee_id"`
	Timestamp      string `json:"timestamp"`
	SequenceNumber int    `json:"sequence_number"`
	HashChain      string `json:"hash_chain"`
}

// CreateAttendanceRequest asks for an attendance record to be derived from
// the ledger for one calendar date.
type CreateAttendanceRequest struct {
	EmployeeID string   `json:"employee_id,omitempty"`
	Date       string   `json:"date"` // YYYY-MM-DD
	WorkMode   WorkMode `json:"work_mode"`
	Notes      string   `json:"notes,omitempty"`
}

// LatestSequenceResponse lets a caller that lost an append race refetch the
// chain head before retrying.
type LatestSequenceResponse struct {
	EmployeeID     string        `json:"employee_id"`
	SequenceNumber int           `json:"sequence_number"`
	Timestamp      string        `json:"timestamp"`
	Type           TimestampType `json:"timestamp_type"`
	HashChain      string        `json:"hash_chain"`
}

// CreateWorkCategoryRequest registers a WBS code under a department.
type CreateWorkCategoryRequest struct {
	Code         string `json:"code"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	CostCenter   string `json:"cost_center"`
	Default      bool   `json:"default"`
}

// CreateLeaveRequest files a leave request for an inclusive date range.
type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason,omitempty"`
}
