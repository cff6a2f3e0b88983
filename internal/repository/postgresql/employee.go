package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	e.id, e.full_name, e.email, e.password_hash, e.job_title, e.role,
	e.manager_id, e.avatar_url, e.is_active, e.hire_date,
	e.created_at, e.updated_at, e.deleted_at,
	m.full_name AS manager_name
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var role string

	err := row.Scan(
		&e.ID,
		&e.FullName,
		&e.Email,
		&e.PasswordHash,
		&e.JobTitle,
		&role,
		&e.ManagerID,
		&e.AvatarURL,
		&e.IsActive,
		&e.HireDate,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.DeletedAt,
		&e.ManagerName,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	e.Role = employee.Role(role)
	return e, nil
}

func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (id, full_name, email, password_hash, job_title, role, manager_id, avatar_url, is_active, hire_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	_, err := q.Exec(ctx, query,
		emp.ID,
		emp.FullName,
		emp.Email,
		emp.PasswordHash,
		emp.JobTitle,
		string(emp.Role),
		emp.ManagerID,
		emp.AvatarURL,
		emp.IsActive,
		emp.HireDate,
		emp.CreatedAt,
		emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN employees m ON e.manager_id = m.id
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`, employeeColumns)

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN employees m ON e.manager_id = m.id
		WHERE LOWER(e.email) = LOWER($1) AND e.deleted_at IS NULL
	`, employeeColumns)

	e, err := scanEmployee(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) List(ctx context.Context, includeInactive bool) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN employees m ON e.manager_id = m.id
		WHERE e.deleted_at IS NULL
	`, employeeColumns)
	if !includeInactive {
		query += " AND e.is_active = true"
	}
	query += " ORDER BY e.full_name"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

func (r *employeeRepository) ListByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN employees m ON e.manager_id = m.id
		WHERE e.manager_id = $1 AND e.is_active = true AND e.deleted_at IS NULL
		ORDER BY e.full_name
	`, employeeColumns)

	rows, err := q.Query(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by manager: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $2, email = $3, job_title = $4, role = $5,
		    manager_id = $6, avatar_url = $7, is_active = $8, hire_date = $9,
		    updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		emp.ID,
		emp.FullName,
		emp.Email,
		emp.JobTitle,
		string(emp.Role),
		emp.ManagerID,
		emp.AvatarURL,
		emp.IsActive,
		emp.HireDate,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// Deactivate soft-deletes the employee and releases their reports.
func (r *employeeRepository) Deactivate(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		now := time.Now()
		tag, err := q.Exec(txCtx, `
			UPDATE employees
			SET is_active = false, deleted_at = $2, updated_at = $2
			WHERE id = $1 AND deleted_at IS NULL
		`, id, now)
		if err != nil {
			return fmt.Errorf("failed to deactivate employee: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return employee.ErrEmployeeNotFound
		}

		_, err = q.Exec(txCtx, `
			UPDATE employees
			SET manager_id = NULL, updated_at = $2
			WHERE manager_id = $1
		`, id, now)
		if err != nil {
			return fmt.Errorf("failed to release reports: %w", err)
		}

		return nil
	})
}
