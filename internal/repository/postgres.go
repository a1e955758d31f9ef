package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewledger-systems/crewledger/internal/models"
)

const queryTimeout = 5 * time.Second

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// =============================================================================
// TIMESTAMP EVENTS
// =============================================================================

const eventColumns = `employee_id, ts, event_type, sequence_number, previous_ts,
       hash_chain, work_category_code, change_reason, location, device_id, ip_address`

func scanEvent(row pgx.Row) (*models.TimestampEvent, error) {
	var e models.TimestampEvent
	err := row.Scan(
		&e.EmployeeID, &e.Timestamp, &e.Type, &e.SequenceNumber, &e.PreviousTimestamp,
		&e.HashChain, &e.WorkCategoryCode, &e.ChangeReason, &e.Location, &e.DeviceID, &e.IPAddress,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// AppendEvent inserts one event. The (employee_id, ts) primary key is the
// optimistic concurrency guard: a losing concurrent writer sees
// ErrEventExists and must refetch the chain head before retrying.
func (r *PostgresRepository) AppendEvent(ctx context.Context, event *models.TimestampEvent) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO timestamp_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		event.EmployeeID, event.Timestamp, event.Type, event.SequenceNumber, event.PreviousTimestamp,
		event.HashChain, event.WorkCategoryCode, event.ChangeReason, event.Location, event.DeviceID, event.IPAddress,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEventExists
		}
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// LatestEvent is the descending limit-1 read the append protocol starts from.
func (r *PostgresRepository) LatestEvent(ctx context.Context, employeeID string) (*models.TimestampEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + eventColumns + `
		FROM timestamp_events
		WHERE employee_id = $1
		ORDER BY ts DESC
		LIMIT 1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEvents
		}
		return nil, fmt.Errorf("failed to get latest event: %w", err)
	}
	return event, nil
}

func (r *PostgresRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*models.TimestampEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.TimestampEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// EventsInRange returns events with from <= ts < to, ascending.
func (r *PostgresRepository) EventsInRange(ctx context.Context, employeeID string, from, to time.Time) ([]*models.TimestampEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM timestamp_events
		WHERE employee_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts ASC
	`
	return r.queryEvents(ctx, query, employeeID, from, to)
}

func (r *PostgresRepository) AllEvents(ctx context.Context, employeeID string) ([]*models.TimestampEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM timestamp_events
		WHERE employee_id = $1
		ORDER BY ts ASC
	`
	return r.queryEvents(ctx, query, employeeID)
}

// =============================================================================
// ATTENDANCE RECORDS
// =============================================================================

// CreateAttendance inserts the derived record. The unique
// (employee_id, date) index is the idempotency barrier.
func (r *PostgresRepository) CreateAttendance(ctx context.Context, record *models.AttendanceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, check_in_time, check_out_time,
			total_hours, regular_hours, overtime_hours, break_count,
			work_category_code, cost_center, work_mode, location, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID, record.EmployeeID, record.Date, record.CheckInTime, record.CheckOutTime,
		record.TotalHours, record.RegularHours, record.OvertimeHours, record.BreakCount,
		record.WorkCategoryCode, record.CostCenter, record.WorkMode, record.Location, record.Notes, record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAttendanceExists
		}
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AttendanceByDate(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, employee_id, date, check_in_time, check_out_time,
		       total_hours, regular_hours, overtime_hours, break_count,
		       work_category_code, cost_center, work_mode, location, notes, created_at
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
	`

	var rec models.AttendanceRecord
	err := r.pool.QueryRow(ctx, query, employeeID, date).Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckInTime, &rec.CheckOutTime,
		&rec.TotalHours, &rec.RegularHours, &rec.OvertimeHours, &rec.BreakCount,
		&rec.WorkCategoryCode, &rec.CostCenter, &rec.WorkMode, &rec.Location, &rec.Notes, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &rec, nil
}

// =============================================================================
// ORG DIRECTORY
// =============================================================================

func (r *PostgresRepository) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, department_id, full_name, email, active, created_at
		FROM employees
		WHERE id = $1
	`

	var emp models.Employee
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.DepartmentID, &emp.FullName, &emp.Email, &emp.Active, &emp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &emp, nil
}

func scanCategory(row pgx.Row) (*models.WorkCategory, error) {
	var cat models.WorkCategory
	err := row.Scan(
		&cat.Code, &cat.DepartmentID, &cat.Name, &cat.CostCenter, &cat.Active, &cat.Default, &cat.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

const categoryColumns = `code, department_id, name, cost_center, active, is_default, created_at`

func (r *PostgresRepository) GetWorkCategory(ctx context.Context, code string) (*models.WorkCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + categoryColumns + ` FROM work_categories WHERE code = $1`

	cat, err := scanCategory(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get work category: %w", err)
	}
	return cat, nil
}

// DefaultWorkCategory returns the department's active default WBS code.
func (r *PostgresRepository) DefaultWorkCategory(ctx context.Context, departmentID string) (*models.WorkCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + categoryColumns + `
		FROM work_categories
		WHERE department_id = $1 AND is_default AND active
		LIMIT 1
	`

	cat, err := scanCategory(r.pool.QueryRow(ctx, query, departmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoDefaultCategory
		}
		return nil, fmt.Errorf("failed to get default work category: %w", err)
	}
	return cat, nil
}

func (r *PostgresRepository) ListWorkCategories(ctx context.Context, departmentID string) ([]*models.WorkCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + categoryColumns + `
		FROM work_categories
		WHERE department_id = $1
		ORDER BY code
	`

	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work categories: %w", err)
	}
	defer rows.Close()

	var cats []*models.WorkCategory
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work category: %w", err)
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

// =============================================================================
// LEAVE CALENDAR
// =============================================================================

func (r *PostgresRepository) HasApprovedLeave(ctx context.Context, employeeID, date string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1 AND status = $2
			  AND start_date <= $3 AND end_date >= $3
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, employeeID, models.LeaveApproved, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return exists, nil
}

// =============================================================================
// ADMINISTRATIVE WRITES
// =============================================================================

func (r *PostgresRepository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO employees (id, department_id, full_name, email, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		employee.ID, employee.DepartmentID, employee.FullName, employee.Email, employee.Active, employee.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmployeeExists
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO departments (id, name, cost_center, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		department.ID, department.Name, department.CostCenter, department.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDepartmentExists
		}
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateWorkCategory(ctx context.Context, category *models.WorkCategory) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO work_categories (code, department_id, name, cost_center, active, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		category.Code, category.DepartmentID, category.Name, category.CostCenter,
		category.Active, category.Default, category.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCategoryExists
		}
		return fmt.Errorf("failed to create work category: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateLeaveRequest(ctx context.Context, leave *models.LeaveRequest) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO leave_requests (id, employee_id, start_date, end_date, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		leave.ID, leave.EmployeeID, leave.StartDate, leave.EndDate, leave.Status, leave.Reason, leave.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}
