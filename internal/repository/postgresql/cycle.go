package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/edgehq/edge-backend-go/internal/domain/cycle"
	"github.com/edgehq/edge-backend-go/internal/pkg/database"
)

type cycleRepository struct {
	db *database.DB
}

// NewCycleRepository creates a new review cycle repository
func NewCycleRepository(db *database.DB) cycle.Repository {
	return &cycleRepository{db: db}
}

const cycleColumns = `
	id, name, start_date, end_date, status, assessment_due_date,
	activated_at, closed_at, created_at, updated_at
`

func scanCycle(row pgx.Row) (cycle.ReviewCycle, error) {
	var c cycle.ReviewCycle
	var status string

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.StartDate,
		&c.EndDate,
		&status,
		&c.AssessmentDueDate,
		&c.ActivatedAt,
		&c.ClosedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return cycle.ReviewCycle{}, err
	}

	c.Status = cycle.Status(status)
	return c, nil
}

func (r *cycleRepository) Create(ctx context.Context, c cycle.ReviewCycle) (cycle.ReviewCycle, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO review_cycles (id, name, start_date, end_date, status, assessment_due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		c.ID,
		c.Name,
		c.StartDate,
		c.EndDate,
		string(c.Status),
		c.AssessmentDueDate,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return cycle.ReviewCycle{}, fmt.Errorf("failed to create review cycle: %w", err)
	}

	return c, nil
}

func (r *cycleRepository) GetByID(ctx context.Context, id string) (cycle.ReviewCycle, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM review_cycles WHERE id = $1`, cycleColumns)

	c, err := scanCycle(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cycle.ReviewCycle{}, cycle.ErrCycleNotFound
		}
		return cycle.ReviewCycle{}, fmt.Errorf("failed to get review cycle: %w", err)
	}

	return c, nil
}

func (r *cycleRepository) List(ctx context.Context) ([]cycle.ReviewCycle, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM review_cycles ORDER BY start_date DESC`, cycleColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list review cycles: %w", err)
	}
	defer rows.Close()

	var cycles []cycle.ReviewCycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review cycle: %w", err)
		}
		cycles = append(cycles, c)
	}

	return cycles, rows.Err()
}

func (r *cycleRepository) GetActive(ctx context.Context) ([]cycle.ReviewCycle, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM review_cycles
		WHERE status = 'active'
		ORDER BY start_date DESC
	`, cycleColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active review cycles: %w", err)
	}
	defer rows.Close()

	var cycles []cycle.ReviewCycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review cycle: %w", err)
		}
		cycles = append(cycles, c)
	}

	return cycles, rows.Err()
}

func (r *cycleRepository) Update(ctx context.Context, c cycle.ReviewCycle) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE review_cycles
		SET name = $2, start_date = $3, end_date = $4, assessment_due_date = $5,
		    activated_at = $6, closed_at = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		c.ID,
		c.Name,
		c.StartDate,
		c.EndDate,
		c.AssessmentDueDate,
		c.ActivatedAt,
		c.ClosedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update review cycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cycle.ErrCycleNotFound
	}

	return nil
}

// UpdateStatus moves the cycle from one status to another in a single
// conditional statement. Returns false when the cycle was not in the
// expected status, which callers treat as a concurrent activation or close.
func (r *cycleRepository) UpdateStatus(ctx context.Context, id string, from, to cycle.Status) (bool, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now()
	var stampColumn string
	switch to {
	case cycle.StatusActive:
		stampColumn = "activated_at"
	case cycle.StatusClosed:
		stampColumn = "closed_at"
	}

	query := `
		UPDATE review_cycles
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`
	if stampColumn != "" {
		query = fmt.Sprintf(`
			UPDATE review_cycles
			SET status = $3, %s = $4, updated_at = $4
			WHERE id = $1 AND status = $2
		`, stampColumn)
	}

	tag, err := q.Exec(ctx, query, id, string(from), string(to), now)
	if err != nil {
		return false, fmt.Errorf("failed to update cycle status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
