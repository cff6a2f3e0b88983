package dashboard

import (
	"context"
	"time"
)

// Repository - aggregate read queries behind the dashboards. These never
// mutate workflow state.
type Repository interface {
	CountActiveEmployees(ctx context.Context) (int64, error)
	GetCycleStats(ctx context.Context, cycleID string) (CycleStats, error)
	GetPulseTrend(ctx context.Context, since time.Time) ([]PulseTrendPoint, error)
}
