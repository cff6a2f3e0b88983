package cycle

import (
	"context"
)

type Service interface {
	Create(ctx context.Context, adminID string, req CreateCycleRequest) (ReviewCycle, error)
	Get(ctx context.Context, id string) (ReviewCycle, error)
	List(ctx context.Context) ([]CycleResponse, error)

	// Activate bulk-creates a not_started assessment for every active
	// employee without one in this cycle, then marks the cycle active.
	// Idempotent per employee: re-running never creates duplicates.
	Activate(ctx context.Context, adminID string, cycleID string) (ActivateResult, error)

	// Close is the only legitimate terminal transition. It freezes
	// reporting; incomplete assessments are left exactly as they are.
	Close(ctx context.Context, adminID string, cycleID string) (ReviewCycle, error)
}
