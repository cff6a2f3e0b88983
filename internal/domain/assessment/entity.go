package assessment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/edgehq/edge-backend-go/internal/domain/notification"
)

// Assessment is the per-employee-per-cycle review record and workflow unit.
type Assessment struct {
	ID         string
	CycleID    string
	EmployeeID string

	// ManagerID is the employee's manager at read time, joined in by the
	// repository so permission checks stay pure.
	ManagerID *string

	State             State
	RevisionRequested bool

	SelfAssessment SelfAssessmentPayload
	ManagerReview  ManagerReviewPayload
	AdminNotes     *string

	DueDate                *time.Time
	SubmittedAt            *time.Time
	ReviewCompletedAt      *time.Time
	ApprovedAt             *time.Time
	EmployeeAcknowledgedAt *time.Time
	LastReminderAt         *time.Time

	// Version increments on every committed write; all saves are
	// conditional on the version the caller last read.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
	ManagerName  *string
	CycleName    *string
}

// GWCFeedback is the "Gets it, Wants it, Capacity" rubric. The workflow
// treats it as opaque payload data.
type GWCFeedback struct {
	GetsIt   *bool  `json:"gets_it,omitempty"`
	WantsIt  *bool  `json:"wants_it,omitempty"`
	Capacity *bool  `json:"capacity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// SelfAssessmentPayload is the employee-authored portion, stored as JSONB.
type SelfAssessmentPayload struct {
	Summary    string         `json:"summary"`
	Highlights string         `json:"highlights"`
	Challenges string         `json:"challenges,omitempty"`
	Goals      string         `json:"goals,omitempty"`
	Ratings    map[string]int `json:"ratings,omitempty"`
	GWC        *GWCFeedback   `json:"gwc,omitempty"`
}

// IsZero reports whether nothing has been filled in yet.
func (p SelfAssessmentPayload) IsZero() bool {
	return p.Summary == "" && p.Highlights == "" && p.Challenges == "" &&
		p.Goals == "" && len(p.Ratings) == 0 && p.GWC == nil
}

// Value implements driver.Valuer for database storage
func (p SelfAssessmentPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for database retrieval
func (p *SelfAssessmentPayload) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan SelfAssessmentPayload: invalid type")
	}

	return json.Unmarshal(bytes, p)
}

// ManagerReviewPayload is the manager-authored evaluation, stored as JSONB.
type ManagerReviewPayload struct {
	OverallRating int            `json:"overall_rating"`
	Strengths     string         `json:"strengths,omitempty"`
	GrowthAreas   string         `json:"growth_areas,omitempty"`
	Feedback      string         `json:"feedback,omitempty"`
	Ratings       map[string]int `json:"ratings,omitempty"`
	GWC           *GWCFeedback   `json:"gwc,omitempty"`
}

// Value implements driver.Valuer for database storage
func (p ManagerReviewPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for database retrieval
func (p *ManagerReviewPayload) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan ManagerReviewPayload: invalid type")
	}

	return json.Unmarshal(bytes, p)
}

// TransitionResult is what every mutating workflow operation returns: the
// committed assessment plus the notification intents the transition produced.
// Delivery is the notification service's concern, after commit.
type TransitionResult struct {
	Assessment Assessment
	Intents    []notification.Intent
}
