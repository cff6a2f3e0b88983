package postgresql

import (
	"context"
	"fmt"

	"github.com/edgehq/edge-backend-go/internal/domain/audit"
	"github.com/edgehq/edge-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit log repository
func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, e audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_log (id, actor_id, assessment_id, action, from_state, to_state, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		e.ID,
		e.ActorID,
		e.AssessmentID,
		e.Action,
		e.FromState,
		e.ToState,
		e.Reason,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}

func (r *auditRepository) ListByAssessment(ctx context.Context, assessmentID string) ([]audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, actor_id, assessment_id, action, from_state, to_state, reason, created_at
		FROM audit_log
		WHERE assessment_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(
			&e.ID,
			&e.ActorID,
			&e.AssessmentID,
			&e.Action,
			&e.FromState,
			&e.ToState,
			&e.Reason,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
