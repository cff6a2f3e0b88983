package note

import "errors"

var (
	ErrNoteNotFound = errors.New("manager note not found")
	ErrNotAuthor    = errors.New("only the author can access this note")
	ErrEmptyBody    = errors.New("note body must not be empty")
)
