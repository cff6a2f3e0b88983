package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/domain/notification"
	"github.com/edgehq/edge-backend-go/internal/pkg/email"
	"github.com/edgehq/edge-backend-go/internal/pkg/sse"
)

// NotificationService turns workflow intents into persisted notifications,
// SSE pushes and (for finalized reviews and revision requests) emails.
// Everything here is best effort: a failed delivery is logged and dropped,
// the workflow transition has already committed.
type NotificationService struct {
	notificationRepo notification.Repository
	employeeRepo     employee.Repository
	emailService     email.EmailService
	hub              *sse.Hub
	frontendURL      string
}

func NewNotificationService(
	notificationRepo notification.Repository,
	employeeRepo employee.Repository,
	emailService email.EmailService,
	hub *sse.Hub,
	frontendURL string,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		employeeRepo:     employeeRepo,
		emailService:     emailService,
		hub:              hub,
		frontendURL:      frontendURL,
	}
}

func (s *NotificationService) Dispatch(ctx context.Context, senderID *string, intents []notification.Intent) {
	if len(intents) == 0 {
		return
	}

	notifications := make([]*notification.Notification, 0, len(intents))
	for _, intent := range intents {
		notifications = append(notifications, &notification.Notification{
			ID:          uuid.NewString(),
			RecipientID: intent.RecipientID,
			SenderID:    senderID,
			Type:        intent.Type,
			Title:       intent.Title,
			Message:     intent.Message,
			Data:        intent.Data,
			CreatedAt:   time.Now(),
		})
	}

	if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		slog.Error("Failed to persist notifications", "count", len(notifications), "error", err)
		return
	}

	for i, n := range notifications {
		s.hub.Publish(n.RecipientID, sse.Event{
			RecipientID: n.RecipientID,
			Event:       string(n.Type),
			Data:        n,
		})
		s.maybeEmail(ctx, intents[i])
	}
}

// maybeEmail sends an email for the intents important enough to leave the
// app: finalized reviews and revision requests.
func (s *NotificationService) maybeEmail(ctx context.Context, intent notification.Intent) {
	if s.emailService == nil {
		return
	}

	recipient, err := s.employeeRepo.GetByID(ctx, intent.RecipientID)
	if err != nil {
		slog.Error("Failed to resolve notification recipient", "recipient_id", intent.RecipientID, "error", err)
		return
	}

	switch intent.Type {
	case notification.TypeReviewFinalized:
		cycleName, _ := intent.Data["cycle_name"].(string)
		if cycleName == "" {
			cycleName = "performance review"
		}
		err = s.emailService.SendReviewFinalized(recipient.Email, recipient.FullName, cycleName, s.frontendURL)
	case notification.TypeRevisionRequested:
		notes, _ := intent.Data["notes"].(string)
		employeeName, _ := intent.Data["employee_name"].(string)
		err = s.emailService.SendRevisionRequested(recipient.Email, recipient.FullName, employeeName, notes)
	default:
		return
	}

	if err != nil {
		slog.Error("Failed to send notification email", "type", intent.Type, "recipient_id", intent.RecipientID, "error", err)
	}
}

func (s *NotificationService) List(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.notificationRepo.GetByRecipientID(ctx, recipientID, page, pageSize, unreadOnly)
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.notificationRepo.GetUnreadCount(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	return s.notificationRepo.MarkAsRead(ctx, ids, recipientID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.notificationRepo.MarkAllAsRead(ctx, recipientID)
}
