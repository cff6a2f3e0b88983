package http

import (
	"encoding/json"
	"net/http"
	"time"

	engagementsvc "github.com/edgehq/edge-backend-go/internal/service/engagement"

	"github.com/edgehq/edge-backend-go/internal/handler/http/middleware"
	"github.com/edgehq/edge-backend-go/internal/handler/http/response"
)

type EngagementHandler interface {
	SubmitPulse(w http.ResponseWriter, r *http.Request)
	ListMyPulses(w http.ResponseWriter, r *http.Request)
	SendFeedback(w http.ResponseWriter, r *http.Request)
	ListMyFeedback(w http.ResponseWriter, r *http.Request)
	SendKudo(w http.ResponseWriter, r *http.Request)
	ListRecentKudos(w http.ResponseWriter, r *http.Request)
}

type engagementHandlerImpl struct {
	engagementService *engagementsvc.EngagementService
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagementService *engagementsvc.EngagementService) EngagementHandler {
	return &engagementHandlerImpl{engagementService: engagementService}
}

func (h *engagementHandlerImpl) SubmitPulse(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req struct {
		Score   int     `json:"score"`
		Comment *string `json:"comment,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	pulse, err := h.engagementService.SubmitPulse(r.Context(), actor, req.Score, req.Comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pulse submitted", pulse)
}

func (h *engagementHandlerImpl) ListMyPulses(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	since := time.Now().AddDate(0, -3, 0)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "since must be in YYYY-MM-DD format", nil)
			return
		}
		since = parsed
	}

	pulses, err := h.engagementService.ListMyPulses(r.Context(), actor, since)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, pulses)
}

func (h *engagementHandlerImpl) SendFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req struct {
		RecipientID string                 `json:"recipient_id"`
		Body        string                 `json:"body"`
		GWC         map[string]interface{} `json:"gwc,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	feedback, err := h.engagementService.SendFeedback(r.Context(), actor, req.RecipientID, req.Body, req.GWC)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Feedback sent", feedback)
}

func (h *engagementHandlerImpl) ListMyFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	feedback, err := h.engagementService.ListMyFeedback(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, feedback)
}

func (h *engagementHandlerImpl) SendKudo(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req struct {
		RecipientID string  `json:"recipient_id"`
		Message     string  `json:"message"`
		Emoji       *string `json:"emoji,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	kudo, err := h.engagementService.SendKudo(r.Context(), actor, req.RecipientID, req.Message, req.Emoji)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Kudo sent", kudo)
}

func (h *engagementHandlerImpl) ListRecentKudos(w http.ResponseWriter, r *http.Request) {
	limit := getIntQueryParam(r, "limit", 20)

	kudos, err := h.engagementService.ListRecentKudos(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, kudos)
}
