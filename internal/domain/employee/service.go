package employee

import (
	"context"
)

type Service interface {
	Create(ctx context.Context, actorID string, req CreateEmployeeRequest) (Employee, error)
	Update(ctx context.Context, actorID string, req UpdateEmployeeRequest) (Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, includeInactive bool) ([]EmployeeResponse, error)
	ListTeam(ctx context.Context, managerID string) ([]EmployeeResponse, error)
	Deactivate(ctx context.Context, actorID string, id string) error
}
