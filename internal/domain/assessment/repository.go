package assessment

import (
	"context"
	"time"
)

// Repository - interface for the assessments table. Every write is an atomic
// conditional update: Save and SubmitManagerReview fail with
// ErrVersionConflict when expectedVersion no longer matches the row.
type Repository interface {
	GetByID(ctx context.Context, id string) (Assessment, error)

	// Save persists the full mutable portion of the assessment in one
	// statement, guarded by expectedVersion. Returns the committed row with
	// its new version.
	Save(ctx context.Context, a Assessment, expectedVersion int64) (Assessment, error)

	// SubmitManagerReview commits the review payload, the state change and
	// the completion timestamp as a single statement. Rating, feedback and
	// status never partially apply.
	SubmitManagerReview(ctx context.Context, id string, review ManagerReviewPayload, completedAt time.Time, expectedVersion int64) (Assessment, error)

	// CreateForCycle creates a not_started assessment for every active
	// employee without one in the cycle. Safe to call twice: employees who
	// already have an assessment for the cycle are skipped. Returns the
	// number of rows created.
	CreateForCycle(ctx context.Context, cycleID string, dueDate *time.Time) (int64, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Assessment, error)
	ListByManager(ctx context.Context, managerID string) ([]Assessment, error)
	ListByCycle(ctx context.Context, cycleID string) ([]Assessment, error)

	// ListOverdue returns unfinished assessments past their due date that
	// have not been reminded in the last day.
	ListOverdue(ctx context.Context, asOf time.Time) ([]Assessment, error)
	MarkReminded(ctx context.Context, ids []string, at time.Time) error
}
