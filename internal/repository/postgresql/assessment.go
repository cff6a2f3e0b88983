package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/pkg/database"
)

// wrapStoreErr distinguishes connection-class failures from query failures so
// callers can map an unreachable store to a retryable response. SQLSTATE class
// 08 covers connection exceptions, 57P01 is the server shutting down on us.
func wrapStoreErr(op string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		pgconn.SafeToRetry(err),
		errors.As(err, &pgErr) && (strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P01"):
		return fmt.Errorf("%s: %w: %w", op, assessment.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type assessmentRepository struct {
	db *database.DB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *database.DB) assessment.Repository {
	return &assessmentRepository{db: db}
}

// assessmentColumns joins in the employee's current manager so permission
// checks operate on a self-contained record.
const assessmentColumns = `
	a.id, a.cycle_id, a.employee_id, e.manager_id,
	a.state, a.revision_requested,
	a.self_assessment, a.manager_review, a.admin_notes,
	a.due_date, a.submitted_at, a.review_completed_at, a.approved_at,
	a.employee_acknowledged_at, a.last_reminder_at,
	a.version, a.created_at, a.updated_at,
	e.full_name AS employee_name, m.full_name AS manager_name, c.name AS cycle_name
`

const assessmentJoins = `
	FROM assessments a
	JOIN employees e ON a.employee_id = e.id
	LEFT JOIN employees m ON e.manager_id = m.id
	JOIN review_cycles c ON a.cycle_id = c.id
`

func scanAssessment(row pgx.Row) (assessment.Assessment, error) {
	var a assessment.Assessment
	var state string

	err := row.Scan(
		&a.ID,
		&a.CycleID,
		&a.EmployeeID,
		&a.ManagerID,
		&state,
		&a.RevisionRequested,
		&a.SelfAssessment,
		&a.ManagerReview,
		&a.AdminNotes,
		&a.DueDate,
		&a.SubmittedAt,
		&a.ReviewCompletedAt,
		&a.ApprovedAt,
		&a.EmployeeAcknowledgedAt,
		&a.LastReminderAt,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.EmployeeName,
		&a.ManagerName,
		&a.CycleName,
	)
	if err != nil {
		return assessment.Assessment{}, err
	}

	a.State = assessment.State(state)
	return a, nil
}

func (r *assessmentRepository) GetByID(ctx context.Context, id string) (assessment.Assessment, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s %s WHERE a.id = $1`, assessmentColumns, assessmentJoins)

	a, err := scanAssessment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assessment.Assessment{}, assessment.ErrAssessmentNotFound
		}
		return assessment.Assessment{}, wrapStoreErr("failed to get assessment", err)
	}

	return a, nil
}

// Save writes the mutable portion of the assessment in one version-guarded
// statement. A zero-row update against an existing row means someone else
// committed first.
func (r *assessmentRepository) Save(ctx context.Context, a assessment.Assessment, expectedVersion int64) (assessment.Assessment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE assessments
		SET state = $3, revision_requested = $4,
		    self_assessment = $5, manager_review = $6, admin_notes = $7,
		    submitted_at = $8, review_completed_at = $9, approved_at = $10,
		    employee_acknowledged_at = $11,
		    version = version + 1, updated_at = $12
		WHERE id = $1 AND version = $2
	`

	tag, err := q.Exec(ctx, query,
		a.ID,
		expectedVersion,
		string(a.State),
		a.RevisionRequested,
		a.SelfAssessment,
		a.ManagerReview,
		a.AdminNotes,
		a.SubmittedAt,
		a.ReviewCompletedAt,
		a.ApprovedAt,
		a.EmployeeAcknowledgedAt,
		time.Now(),
	)
	if err != nil {
		return assessment.Assessment{}, wrapStoreErr("failed to save assessment", err)
	}

	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, a.ID); getErr != nil {
			return assessment.Assessment{}, getErr
		}
		return assessment.Assessment{}, assessment.ErrVersionConflict
	}

	return r.GetByID(ctx, a.ID)
}

// SubmitManagerReview commits the review payload, the state change and the
// completion timestamp atomically. The row either carries all of them at the
// new version or none.
func (r *assessmentRepository) SubmitManagerReview(ctx context.Context, id string, review assessment.ManagerReviewPayload, completedAt time.Time, expectedVersion int64) (assessment.Assessment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE assessments
		SET state = $3, manager_review = $4, review_completed_at = $5,
		    revision_requested = false,
		    version = version + 1, updated_at = $5
		WHERE id = $1 AND version = $2
	`

	tag, err := q.Exec(ctx, query,
		id,
		expectedVersion,
		string(assessment.StateManagerCompleted),
		review,
		completedAt,
	)
	if err != nil {
		return assessment.Assessment{}, wrapStoreErr("failed to submit manager review", err)
	}

	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return assessment.Assessment{}, getErr
		}
		return assessment.Assessment{}, assessment.ErrVersionConflict
	}

	return r.GetByID(ctx, id)
}

// CreateForCycle inserts a not_started assessment for every active employee
// who does not already have one in the cycle. The unique (cycle_id,
// employee_id) constraint makes re-activation a no-op for existing rows.
func (r *assessmentRepository) CreateForCycle(ctx context.Context, cycleID string, dueDate *time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO assessments (id, cycle_id, employee_id, state, due_date, version, created_at, updated_at)
		SELECT gen_random_uuid(), $1, e.id, $2, $3, 0, $4, $4
		FROM employees e
		WHERE e.is_active = true AND e.deleted_at IS NULL
		ON CONFLICT (cycle_id, employee_id) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, cycleID, string(assessment.StateNotStarted), dueDate, time.Now())
	if err != nil {
		return 0, wrapStoreErr("failed to create assessments for cycle", err)
	}

	return tag.RowsAffected(), nil
}

func (r *assessmentRepository) listWhere(ctx context.Context, where, orderBy string, args ...interface{}) ([]assessment.Assessment, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s`,
		assessmentColumns, assessmentJoins, where, orderBy)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr("failed to list assessments", err)
	}
	defer rows.Close()

	var assessments []assessment.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}

	return assessments, rows.Err()
}

func (r *assessmentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]assessment.Assessment, error) {
	return r.listWhere(ctx, "a.employee_id = $1", "c.start_date DESC", employeeID)
}

func (r *assessmentRepository) ListByManager(ctx context.Context, managerID string) ([]assessment.Assessment, error) {
	return r.listWhere(ctx, "e.manager_id = $1", "c.start_date DESC, e.full_name", managerID)
}

func (r *assessmentRepository) ListByCycle(ctx context.Context, cycleID string) ([]assessment.Assessment, error) {
	return r.listWhere(ctx, "a.cycle_id = $1", "e.full_name", cycleID)
}

// ListOverdue returns unfinished assessments in active cycles past their due
// date, skipping rows reminded within the last day.
func (r *assessmentRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]assessment.Assessment, error) {
	return r.listWhere(ctx, `
		c.status = 'active'
		AND a.due_date IS NOT NULL AND a.due_date < $1
		AND a.state NOT IN ($2, $3, $4)
		AND (a.last_reminder_at IS NULL OR a.last_reminder_at < $1::timestamptz - interval '24 hours')
	`, "a.due_date",
		asOf,
		string(assessment.StateManagerCompleted),
		string(assessment.StateAdminApproved),
		string(assessment.StateEmployeeAcknowledged),
	)
}

func (r *assessmentRepository) MarkReminded(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, at)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		UPDATE assessments
		SET last_reminder_at = $1
		WHERE id IN (%s)
	`, strings.Join(placeholders, ", "))

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return wrapStoreErr("failed to mark assessments reminded", err)
	}

	return nil
}
