package http

import (
	"net/http"

	"github.com/edgehq/edge-backend-go/internal/domain/dashboard"
	"github.com/edgehq/edge-backend-go/internal/handler/http/middleware"
	"github.com/edgehq/edge-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Employee(w http.ResponseWriter, r *http.Request)
	Manager(w http.ResponseWriter, r *http.Request)
	Admin(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService dashboard.Service) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

func (h *dashboardHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	view, err := h.dashboardService.GetEmployeeDashboard(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

func (h *dashboardHandlerImpl) Manager(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	view, err := h.dashboardService.GetManagerDashboard(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

func (h *dashboardHandlerImpl) Admin(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	view, err := h.dashboardService.GetAdminDashboard(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}
