package audit

import "time"

// Entry is one admin override record. Overrides bypass the transition table,
// so each one carries who, what and why.
type Entry struct {
	ID           string
	ActorID      string
	AssessmentID string
	Action       string
	FromState    string
	ToState      string
	Reason       string
	CreatedAt    time.Time
}
