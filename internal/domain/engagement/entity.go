package engagement

import "time"

// PulseResponse is a single anonymous-ish mood check-in. Append-only; read
// back into dashboards, never part of the review workflow.
type PulseResponse struct {
	ID         string
	EmployeeID string
	Score      int // 1-5
	Comment    *string
	CreatedAt  time.Time
}

// Feedback is ad-hoc peer feedback, optionally carrying a GWC rubric blob.
type Feedback struct {
	ID          string
	AuthorID    string
	RecipientID string
	Body        string
	GWC         map[string]interface{}
	CreatedAt   time.Time

	// Relationships (for responses)
	AuthorName    *string
	RecipientName *string
}

// Kudo is a public shout-out.
type Kudo struct {
	ID          string
	AuthorID    string
	RecipientID string
	Message     string
	Emoji       *string
	CreatedAt   time.Time

	AuthorName    *string
	RecipientName *string
}
