package cycle

import (
	"context"
)

// Repository - interface for the review_cycles table
type Repository interface {
	Create(ctx context.Context, c ReviewCycle) (ReviewCycle, error)
	GetByID(ctx context.Context, id string) (ReviewCycle, error)
	List(ctx context.Context) ([]ReviewCycle, error)
	GetActive(ctx context.Context) ([]ReviewCycle, error)
	Update(ctx context.Context, c ReviewCycle) error
	UpdateStatus(ctx context.Context, id string, from, to Status) (bool, error)
}
