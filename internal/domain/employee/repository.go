package employee

import (
	"context"
)

// Repository - interface for the employees table
type Repository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(ctx context.Context, includeInactive bool) ([]Employee, error)
	ListByManager(ctx context.Context, managerID string) ([]Employee, error)
	Update(ctx context.Context, emp Employee) error
	Deactivate(ctx context.Context, id string) error
}
