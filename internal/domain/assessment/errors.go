package assessment

import "errors"

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrForbidden          = errors.New("not allowed to perform this action on this assessment")
	ErrInvalidTransition  = errors.New("assessment is not in a valid state for this action")
	ErrTerminal           = errors.New("assessment has been acknowledged and can no longer change")
	ErrVersionConflict    = errors.New("assessment was modified concurrently")
	ErrStoreUnavailable   = errors.New("assessment store temporarily unavailable")
)
