package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crewledger-systems/crewledger/internal/models"
)

// InMemoryRepository backs development mode and tests. It reproduces the
// conditional-write semantics of the Postgres implementation, including the
// (employee, timestamp) and (employee, date) uniqueness guards.
type InMemoryRepository struct {
	events      map[string][]*models.TimestampEvent // keyed by employee, kept sorted by timestamp
	attendance  map[string]*models.AttendanceRecord // keyed by employee|date
	employees   map[string]*models.Employee
	departments map[string]*models.Department
	categories  map[string]*models.WorkCategory
	leaves      []*models.LeaveRequest
	mu          sync.RWMutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		events:      make(map[string][]*models.TimestampEvent),
		attendance:  make(map[string]*models.AttendanceRecord),
		employees:   make(map[string]*models.Employee),
		departments: make(map[string]*models.Department),
		categories:  make(map[string]*models.WorkCategory),
	}
}

func attendanceKey(employeeID, date string) string {
	return employeeID + "|" + date
}

func (r *InMemoryRepository) AppendEvent(ctx context.Context, event *models.TimestampEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chain := r.events[event.EmployeeID]
	for _, existing := range chain {
		if existing.Timestamp.Equal(event.Timestamp) {
			return ErrEventExists
		}
	}

	copied := *event
	chain = append(chain, &copied)
	sort.Slice(chain, func(i, j int) bool {
		return chain[i].Timestamp.Before(chain[j].Timestamp)
	})
	r.events[event.EmployeeID] = chain
	return nil
}

func (r *InMemoryRepository) LatestEvent(ctx context.Context, employeeID string) (*models.TimestampEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := r.events[employeeID]
	if len(chain) == 0 {
		return nil, ErrNoEvents
	}
	event := *chain[len(chain)-1]
	return &event, nil
}

func (r *InMemoryRepository) EventsInRange(ctx context.Context, employeeID string, from, to time.Time) ([]*models.TimestampEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []*models.TimestampEvent
	for _, e := range r.events[employeeID] {
		if !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			copied := *e
			events = append(events, &copied)
		}
	}
	return events, nil
}

func (r *InMemoryRepository) AllEvents(ctx context.Context, employeeID string) ([]*models.TimestampEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*models.TimestampEvent, 0, len(r.events[employeeID]))
	for _, e := range r.events[employeeID] {
		copied := *e
		events = append(events, &copied)
	}
	return events, nil
}

// CorruptEvent overwrites a stored event's hash chain in place. Test hook
// for exercising the integrity auditor; not part of any store interface.
func (r *InMemoryRepository) CorruptEvent(employeeID string, sequenceNumber int, hashChain string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events[employeeID] {
		if e.SequenceNumber == sequenceNumber {
			e.HashChain = hashChain
			return
		}
	}
}

func (r *InMemoryRepository) CreateAttendance(ctx context.Context, record *models.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey(record.EmployeeID, record.Date)
	if _, exists := r.attendance[key]; exists {
		return ErrAttendanceExists
	}
	copied := *record
	r.attendance[key] = &copied
	return nil
}

func (r *InMemoryRepository) AttendanceByDate(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.attendance[attendanceKey(employeeID, date)]
	if !exists {
		return nil, ErrAttendanceNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *InMemoryRepository) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, exists := r.employees[id]
	if !exists {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *InMemoryRepository) GetWorkCategory(ctx context.Context, code string) (*models.WorkCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cat, exists := r.categories[code]
	if !exists {
		return nil, ErrCategoryNotFound
	}
	return cat, nil
}

func (r *InMemoryRepository) DefaultWorkCategory(ctx context.Context, departmentID string) (*models.WorkCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cat := range r.categories {
		if cat.DepartmentID == departmentID && cat.Default && cat.Active {
			return cat, nil
		}
	}
	return nil, ErrNoDefaultCategory
}

func (r *InMemoryRepository) ListWorkCategories(ctx context.Context, departmentID string) ([]*models.WorkCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cats []*models.WorkCategory
	for _, cat := range r.categories {
		if cat.DepartmentID == departmentID {
			cats = append(cats, cat)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Code < cats[j].Code })
	return cats, nil
}

func (r *InMemoryRepository) HasApprovedLeave(ctx context.Context, employeeID, date string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, leave := range r.leaves {
		if leave.EmployeeID == employeeID && leave.Status == models.LeaveApproved && leave.Covers(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.employees[employee.ID]; exists {
		return ErrEmployeeExists
	}
	r.employees[employee.ID] = employee
	return nil
}

func (r *InMemoryRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.departments[department.ID]; exists {
		return ErrDepartmentExists
	}
	r.departments[department.ID] = department
	return nil
}

func (r *InMemoryRepository) CreateWorkCategory(ctx context.Context, category *models.WorkCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[category.Code]; exists {
		return ErrCategoryExists
	}
	r.categories[category.Code] = category
	return nil
}

func (r *InMemoryRepository) CreateLeaveRequest(ctx context.Context, leave *models.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leaves = append(r.leaves, leave)
	return nil
}
