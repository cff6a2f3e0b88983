package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edgehq/edge-backend-go/internal/domain/cycle"
	"github.com/edgehq/edge-backend-go/internal/handler/http/middleware"
	"github.com/edgehq/edge-backend-go/internal/handler/http/response"
)

type CycleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Activate(w http.ResponseWriter, r *http.Request)
	Close(w http.ResponseWriter, r *http.Request)
}

type cycleHandlerImpl struct {
	cycleService cycle.Service
}

// NewCycleHandler creates a new review cycle handler
func NewCycleHandler(cycleService cycle.Service) CycleHandler {
	return &cycleHandlerImpl{cycleService: cycleService}
}

func (h *cycleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req cycle.CreateCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create cycle decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.cycleService.Create(r.Context(), actor.EmployeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Review cycle created", "cycle_id", created.ID, "name", created.Name)
	response.Created(w, "Review cycle created", cycle.ToResponse(created, time.Now()))
}

func (h *cycleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.cycleService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cycle.ToResponse(c, time.Now()))
}

func (h *cycleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.cycleService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cycles)
}

func (h *cycleHandlerImpl) Activate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.cycleService.Activate(r.Context(), actor.EmployeeID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Review cycle activated",
		"cycle_id", result.Cycle.ID,
		"assessments_created", result.AssessmentsCreated,
	)
	response.Success(w, result)
}

func (h *cycleHandlerImpl) Close(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	closed, err := h.cycleService.Close(r.Context(), actor.EmployeeID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Review cycle closed", "cycle_id", closed.ID)
	response.Success(w, cycle.ToResponse(closed, time.Now()))
}
