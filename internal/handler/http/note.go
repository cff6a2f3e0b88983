package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	notesvc "github.com/edgehq/edge-backend-go/internal/service/note"

	"github.com/edgehq/edge-backend-go/internal/handler/http/middleware"
	"github.com/edgehq/edge-backend-go/internal/handler/http/response"
)

type NoteHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type noteHandlerImpl struct {
	noteService *notesvc.NoteService
}

// NewNoteHandler creates a new manager note handler
func NewNoteHandler(noteService *notesvc.NoteService) NoteHandler {
	return &noteHandlerImpl{noteService: noteService}
}

type noteRequest struct {
	EmployeeID string `json:"employee_id"`
	Body       string `json:"body"`
}

func (h *noteHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.noteService.Create(r.Context(), actor, req.EmployeeID, req.Body)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Note created", created)
}

func (h *noteHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	notes, err := h.noteService.List(r.Context(), actor, r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notes)
}

func (h *noteHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.noteService.Update(r.Context(), actor, chi.URLParam(r, "id"), req.Body)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, updated)
}

func (h *noteHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.noteService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Note deleted", nil)
}
