package models

import "time"

// AllocationSegment is a contiguous span of worked time attributed to a
// single work-category code. Segments open at CLOCK_IN, WBS_CHANGE or
// BREAK_END and close at the next WBS_CHANGE, CLOCK_OUT or BREAK_START.
type AllocationSegment struct {
	Date             string    `json:"date"` // YYYY-MM-DD of the segment start
	WorkCategoryCode string    `json:"work_category_code"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Hours            float64   `json:"hours"`
}

// DailyTimesheet is the per-day rollup of a timesheet report.
type DailyTimesheet struct {
	Date          string              `json:"date"`
	Segments      []AllocationSegment `json:"segments"`
	BreakHours    float64             `json:"break_hours"`
	TotalHours    float64             `json:"total_hours"`
	RegularHours  float64             `json:"regular_hours"`
	OvertimeHours float64             `json:"overtime_hours"`
}

// WeeklySummary aggregates the daily rollups over the requested range with
// the 40-hour weekly threshold applied to the summed daily regular hours.
type WeeklySummary struct {
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	RegularHours       float64 `json:"regular_hours"`
	DailyOvertimeHours float64 `json:"daily_overtime_hours"`
	WeeklyOvertimeHours float64 `json:"weekly_overtime_hours"`
	OvertimeHours      float64 `json:"overtime_hours"` // daily + weekly
}

// TimesheetReport is computed on demand and never persisted.
type TimesheetReport struct {
	EmployeeID string           `json:"employee_id"`
	Days       []DailyTimesheet `json:"days"`
	Weekly     WeeklySummary    `json:"weekly_summary"`
}
