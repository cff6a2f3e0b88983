package note

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/domain/note"
)

// NoteService manages private manager notes. Notes never feed into the
// review workflow; they exist so a manager can accumulate observations
// between cycles.
type NoteService struct {
	noteRepo     note.Repository
	employeeRepo employee.Repository
	now          func() time.Time
}

func NewNoteService(noteRepo note.Repository, employeeRepo employee.Repository, now func() time.Time) *NoteService {
	if now == nil {
		now = time.Now
	}
	return &NoteService{
		noteRepo:     noteRepo,
		employeeRepo: employeeRepo,
		now:          now,
	}
}

func (s *NoteService) Create(ctx context.Context, actor assessment.Actor, employeeID, body string) (note.ManagerNote, error) {
	if actor.Role != employee.RoleManager && actor.Role != employee.RoleAdmin {
		return note.ManagerNote{}, assessment.ErrForbidden
	}

	if strings.TrimSpace(body) == "" {
		return note.ManagerNote{}, note.ErrEmptyBody
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return note.ManagerNote{}, err
	}

	now := s.now()
	return s.noteRepo.Create(ctx, note.ManagerNote{
		ID:         uuid.NewString(),
		AuthorID:   actor.EmployeeID,
		EmployeeID: employeeID,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (s *NoteService) List(ctx context.Context, actor assessment.Actor, employeeID string) ([]note.ManagerNote, error) {
	if actor.Role != employee.RoleManager && actor.Role != employee.RoleAdmin {
		return nil, assessment.ErrForbidden
	}

	if employeeID != "" {
		return s.noteRepo.ListByAuthorAndEmployee(ctx, actor.EmployeeID, employeeID)
	}
	return s.noteRepo.ListByAuthor(ctx, actor.EmployeeID)
}

func (s *NoteService) Update(ctx context.Context, actor assessment.Actor, id, body string) (note.ManagerNote, error) {
	if strings.TrimSpace(body) == "" {
		return note.ManagerNote{}, note.ErrEmptyBody
	}

	n, err := s.noteRepo.GetByID(ctx, id, actor.EmployeeID)
	if err != nil {
		return note.ManagerNote{}, err
	}

	n.Body = body
	n.UpdatedAt = s.now()
	if err := s.noteRepo.Update(ctx, n); err != nil {
		return note.ManagerNote{}, err
	}
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, actor assessment.Actor, id string) error {
	return s.noteRepo.Delete(ctx, id, actor.EmployeeID)
}
