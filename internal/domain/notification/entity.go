package notification

import (
	"time"

	"github.com/edgehq/edge-backend-go/internal/domain/employee"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeSelfAssessmentSubmitted NotificationType = "self_assessment_submitted"
	TypeReviewSubmitted         NotificationType = "review_submitted"
	TypeRevisionRequested       NotificationType = "revision_requested"
	TypeReviewFinalized         NotificationType = "review_finalized"
	TypeReviewAcknowledged      NotificationType = "review_acknowledged"
	TypeAssessmentOverdue       NotificationType = "assessment_overdue"
	TypeCycleActivated          NotificationType = "cycle_activated"
	TypeKudoReceived            NotificationType = "kudo_received"
)

// Intent is a notification the workflow engine wants delivered. The engine
// only produces intents; persistence and delivery happen in the notification
// service after the transition has committed.
type Intent struct {
	RecipientID   string
	RecipientRole employee.Role
	Type          NotificationType
	Title         string
	Message       string
	Data          map[string]interface{}
}

// Notification represents a persisted notification entity
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
