package audit

import (
	"context"
)

// Repository - interface for the audit_log table
type Repository interface {
	Create(ctx context.Context, e Entry) error
	ListByAssessment(ctx context.Context, assessmentID string) ([]Entry, error)
}
