// Package repository defines the storage ports the time-clock core depends
// on, plus the Postgres and in-memory implementations. Services receive the
// narrow interfaces they need; nothing reaches for ambient globals.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/crewledger-systems/crewledger/internal/models"
)

var (
	ErrNoEvents           = errors.New("no events for employee")
	ErrEventExists        = errors.New("event already exists at this timestamp")
	ErrAttendanceExists   = errors.New("attendance record already exists for this date")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeExists     = errors.New("employee already exists")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentExists   = errors.New("department already exists")
	ErrCategoryNotFound   = errors.New("work category not found")
	ErrCategoryExists     = errors.New("work category already exists")
	ErrNoDefaultCategory  = errors.New("no active default work category for department")
)

// LedgerStore is the append-only event store. AppendEvent is a conditional
// write keyed by (employee, timestamp): a second writer at the same instant
// gets ErrEventExists, never a silent overwrite.
type LedgerStore interface {
	AppendEvent(ctx context.Context, event *models.TimestampEvent) error
	LatestEvent(ctx context.Context, employeeID string) (*models.TimestampEvent, error)
	EventsInRange(ctx context.Context, employeeID string, from, to time.Time) ([]*models.TimestampEvent, error)
	AllEvents(ctx context.Context, employeeID string) ([]*models.TimestampEvent, error)
}

// AttendanceStore persists derived attendance records, one per
// (employee, date), guarded by a uniqueness constraint.
type AttendanceStore interface {
	CreateAttendance(ctx context.Context, record *models.AttendanceRecord) error
	AttendanceByDate(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error)
}

// Directory is the read-only org lookup port used for work-category
// resolution and validation.
type Directory interface {
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	GetWorkCategory(ctx context.Context, code string) (*models.WorkCategory, error)
	DefaultWorkCategory(ctx context.Context, departmentID string) (*models.WorkCategory, error)
}

// LeaveCalendar answers the same-day leave-conflict check.
type LeaveCalendar interface {
	HasApprovedLeave(ctx context.Context, employeeID, date string) (bool, error)
}

// Repository is the full storage surface, including the administrative
// writes that make the system usable end to end.
type Repository interface {
	LedgerStore
	AttendanceStore
	Directory
	LeaveCalendar

	CreateEmployee(ctx context.Context, employee *models.Employee) error
	CreateDepartment(ctx context.Context, department *models.Department) error
	CreateWorkCategory(ctx context.Context, category *models.WorkCategory) error
	ListWorkCategories(ctx context.Context, departmentID string) ([]*models.WorkCategory, error)
	CreateLeaveRequest(ctx context.Context, leave *models.LeaveRequest) error
}
