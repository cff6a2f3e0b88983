package dashboard

import (
	"context"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
)

type Service interface {
	GetEmployeeDashboard(ctx context.Context, actor assessment.Actor) (EmployeeDashboard, error)
	GetManagerDashboard(ctx context.Context, actor assessment.Actor) (ManagerDashboard, error)
	GetAdminDashboard(ctx context.Context, actor assessment.Actor) (AdminDashboard, error)
}
