package engagement

import (
	"context"
	"time"
)

// Repository - append-only stores for pulses, feedback and kudos
type Repository interface {
	CreatePulse(ctx context.Context, p PulseResponse) (PulseResponse, error)
	ListPulsesByEmployee(ctx context.Context, employeeID string, since time.Time) ([]PulseResponse, error)
	GetLatestPulse(ctx context.Context, employeeID string) (PulseResponse, error)

	CreateFeedback(ctx context.Context, f Feedback) (Feedback, error)
	ListFeedbackForRecipient(ctx context.Context, recipientID string) ([]Feedback, error)

	CreateKudo(ctx context.Context, k Kudo) (Kudo, error)
	ListKudosForRecipient(ctx context.Context, recipientID string) ([]Kudo, error)
	ListRecentKudos(ctx context.Context, limit int) ([]Kudo, error)
}
