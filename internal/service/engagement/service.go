package engagement

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/engagement"
	"github.com/edgehq/edge-backend-go/internal/domain/notification"
)

// pulseCadence is the minimum gap between two pulse check-ins from the same
// employee.
const pulseCadence = 7 * 24 * time.Hour

type Dispatcher interface {
	Dispatch(ctx context.Context, senderID *string, intents []notification.Intent)
}

// EngagementService owns the lightweight engagement surfaces: pulse
// check-ins, peer feedback and kudos. None of these touch the review
// workflow state machine.
type EngagementService struct {
	engagementRepo engagement.Repository
	notifications  Dispatcher
	now            func() time.Time
}

func NewEngagementService(engagementRepo engagement.Repository, notifications Dispatcher, now func() time.Time) *EngagementService {
	if now == nil {
		now = time.Now
	}
	return &EngagementService{
		engagementRepo: engagementRepo,
		notifications:  notifications,
		now:            now,
	}
}

func (s *EngagementService) SubmitPulse(ctx context.Context, actor assessment.Actor, score int, comment *string) (engagement.PulseResponse, error) {
	if score < 1 || score > 5 {
		return engagement.PulseResponse{}, engagement.ErrInvalidScore
	}

	latest, err := s.engagementRepo.GetLatestPulse(ctx, actor.EmployeeID)
	if err == nil && s.now().Sub(latest.CreatedAt) < pulseCadence {
		return engagement.PulseResponse{}, engagement.ErrAlreadyResponded
	}
	if err != nil && !errors.Is(err, engagement.ErrPulseNotFound) {
		return engagement.PulseResponse{}, err
	}

	return s.engagementRepo.CreatePulse(ctx, engagement.PulseResponse{
		ID:         uuid.NewString(),
		EmployeeID: actor.EmployeeID,
		Score:      score,
		Comment:    comment,
		CreatedAt:  s.now(),
	})
}

func (s *EngagementService) ListMyPulses(ctx context.Context, actor assessment.Actor, since time.Time) ([]engagement.PulseResponse, error) {
	return s.engagementRepo.ListPulsesByEmployee(ctx, actor.EmployeeID, since)
}

func (s *EngagementService) SendFeedback(ctx context.Context, actor assessment.Actor, recipientID, body string, gwc map[string]interface{}) (engagement.Feedback, error) {
	if recipientID == actor.EmployeeID {
		return engagement.Feedback{}, engagement.ErrSelfRecognition
	}
	if strings.TrimSpace(body) == "" {
		return engagement.Feedback{}, errors.New("feedback body must not be empty")
	}

	return s.engagementRepo.CreateFeedback(ctx, engagement.Feedback{
		ID:          uuid.NewString(),
		AuthorID:    actor.EmployeeID,
		RecipientID: recipientID,
		Body:        body,
		GWC:         gwc,
		CreatedAt:   s.now(),
	})
}

func (s *EngagementService) ListMyFeedback(ctx context.Context, actor assessment.Actor) ([]engagement.Feedback, error) {
	return s.engagementRepo.ListFeedbackForRecipient(ctx, actor.EmployeeID)
}

func (s *EngagementService) SendKudo(ctx context.Context, actor assessment.Actor, recipientID, message string, emoji *string) (engagement.Kudo, error) {
	if recipientID == actor.EmployeeID {
		return engagement.Kudo{}, engagement.ErrSelfRecognition
	}
	if strings.TrimSpace(message) == "" {
		return engagement.Kudo{}, errors.New("kudo message must not be empty")
	}

	k, err := s.engagementRepo.CreateKudo(ctx, engagement.Kudo{
		ID:          uuid.NewString(),
		AuthorID:    actor.EmployeeID,
		RecipientID: recipientID,
		Message:     message,
		Emoji:       emoji,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return engagement.Kudo{}, err
	}

	senderID := actor.EmployeeID
	s.notifications.Dispatch(ctx, &senderID, []notification.Intent{{
		RecipientID: recipientID,
		Type:        notification.TypeKudoReceived,
		Title:       "You received a kudo",
		Message:     message,
		Data:        map[string]interface{}{"kudo_id": k.ID},
	}})

	return k, nil
}

func (s *EngagementService) ListRecentKudos(ctx context.Context, limit int) ([]engagement.Kudo, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.engagementRepo.ListRecentKudos(ctx, limit)
}
