package note

import (
	"context"
)

// Repository - interface for the manager_notes table. Author scoping is part
// of every query, not an afterthought in the service.
type Repository interface {
	Create(ctx context.Context, n ManagerNote) (ManagerNote, error)
	GetByID(ctx context.Context, id string, authorID string) (ManagerNote, error)
	ListByAuthor(ctx context.Context, authorID string) ([]ManagerNote, error)
	ListByAuthorAndEmployee(ctx context.Context, authorID, employeeID string) ([]ManagerNote, error)
	Update(ctx context.Context, n ManagerNote) error
	Delete(ctx context.Context, id string, authorID string) error
}
