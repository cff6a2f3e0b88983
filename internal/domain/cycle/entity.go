package cycle

import "time"

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusClosed   Status = "closed"
)

// ReviewCycle is an admin-defined time-boxed review period. Status is the
// stored lifecycle value; only Activate and Close mutate it. Date-derived
// "running"/"ended" hints are a read-time display concern (DisplayStatus),
// never written back.
type ReviewCycle struct {
	ID                string
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	Status            Status
	AssessmentDueDate *time.Time
	ActivatedAt       *time.Time
	ClosedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayStatus derives the label shown in dashboards. A closed cycle stays
// closed whatever the dates say.
func (c ReviewCycle) DisplayStatus(now time.Time) string {
	if c.Status == StatusClosed {
		return string(StatusClosed)
	}
	if c.Status == StatusActive && now.After(c.EndDate) {
		return "active (past end date)"
	}
	return string(c.Status)
}
