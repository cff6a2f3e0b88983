package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/notification"
	"github.com/edgehq/edge-backend-go/internal/handler/http/middleware"
	"github.com/edgehq/edge-backend-go/internal/handler/http/response"
)

type AssessmentHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListTeam(w http.ResponseWriter, r *http.Request)
	ListByCycle(w http.ResponseWriter, r *http.Request)

	StartSelfAssessment(w http.ResponseWriter, r *http.Request)
	SaveDraft(w http.ResponseWriter, r *http.Request)
	SubmitSelfAssessment(w http.ResponseWriter, r *http.Request)
	StartManagerReview(w http.ResponseWriter, r *http.Request)
	SubmitManagerReview(w http.ResponseWriter, r *http.Request)
	RequestRevision(w http.ResponseWriter, r *http.Request)
	ApproveReview(w http.ResponseWriter, r *http.Request)
	AcknowledgeReview(w http.ResponseWriter, r *http.Request)
	OverrideState(w http.ResponseWriter, r *http.Request)
}

type assessmentHandlerImpl struct {
	workflowService      assessment.Service
	notifService         notification.Service
	requireAdminApproval bool
}

// NewAssessmentHandler creates a new assessment workflow handler
func NewAssessmentHandler(workflowService assessment.Service, notifService notification.Service, requireAdminApproval bool) AssessmentHandler {
	return &assessmentHandlerImpl{
		workflowService:      workflowService,
		notifService:         notifService,
		requireAdminApproval: requireAdminApproval,
	}
}

// respondTransition renders the committed assessment for the actor and hands
// the produced intents to the notification service. Delivery failures never
// affect the response; the transition has already committed.
func (h *assessmentHandlerImpl) respondTransition(w http.ResponseWriter, r *http.Request, actor assessment.Actor, result assessment.TransitionResult) {
	if len(result.Intents) > 0 {
		senderID := actor.EmployeeID
		h.notifService.Dispatch(r.Context(), &senderID, result.Intents)
	}

	response.Success(w, assessment.ToResponse(result.Assessment, actor, h.requireAdminApproval))
}

func (h *assessmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	resp, err := h.workflowService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *assessmentHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	resp, err := h.workflowService.ListMine(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *assessmentHandlerImpl) ListTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	resp, err := h.workflowService.ListTeam(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *assessmentHandlerImpl) ListByCycle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	resp, err := h.workflowService.ListByCycle(r.Context(), actor, chi.URLParam(r, "cycleID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *assessmentHandlerImpl) StartSelfAssessment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.workflowService.StartSelfAssessment(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondTransition(w, r, actor, result)
}

func (h *assessmentHandlerImpl) SaveDraft(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req assessment.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SaveDraft decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssessmentID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.workflowService.SaveSelfAssessmentDraft(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondTransition(w, r, actor, result)
}

func (h *assessmentHandlerImpl) SubmitSelfAssessment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req assessment.SubmitSelfAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitSelfAssessment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssessmentID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.workflowService.SubmitSelfAssessment(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondTransition(w, r, actor, result)
}

func (h *assessmentHandlerImpl) StartManagerReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.workflowService.StartManagerReview(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondTransition(w, r, actor, result)
}

func (h *assessmentHandlerImpl) SubmitManagerReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req assessment.SubmitManagerReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitManagerReview decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssessmentID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.workflowService.SubmitManagerReview(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondTransition(w, r, actor, result)
}

func (h *assessmentHandlerImpl) RequestRevision(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req assessment.RequestRevisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RequestRevision decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssessmentID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.workflowService.RequestRevision(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondTransition(w, r, actor, result)
}

func (h *assessmentHandlerImpl) ApproveReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req assessment.ApproveReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ApproveReview decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssessmentID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.workflowService.ApproveReview(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondTransition(w, r, actor, result)
}

func (h *assessmentHandlerImpl) AcknowledgeReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.workflowService.AcknowledgeReview(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondTransition(w, r, actor, result)
}

func (h *assessmentHandlerImpl) OverrideState(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req assessment.OverrideStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("OverrideState decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssessmentID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.workflowService.OverrideState(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Assessment state overridden",
		"assessment_id", req.AssessmentID,
		"target_state", req.TargetState,
		"actor_id", actor.EmployeeID,
	)

	h.respondTransition(w, r, actor, result)
}
