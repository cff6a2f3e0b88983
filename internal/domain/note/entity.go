package note

import "time"

// ManagerNote is a private, manager-authored note about an employee. Notes
// are only ever visible to their author; every read path filters on
// AuthorID in addition to the database policy.
type ManagerNote struct {
	ID         string
	AuthorID   string
	EmployeeID string
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
