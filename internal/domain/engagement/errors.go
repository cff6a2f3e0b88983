package engagement

import "errors"

var (
	ErrPulseNotFound    = errors.New("pulse response not found")
	ErrInvalidScore     = errors.New("pulse score must be between 1 and 5")
	ErrSelfRecognition  = errors.New("cannot send feedback or kudos to yourself")
	ErrAlreadyResponded = errors.New("pulse already submitted for this period")
)
