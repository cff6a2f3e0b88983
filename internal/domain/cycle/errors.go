package cycle

import "errors"

var (
	ErrCycleNotFound    = errors.New("review cycle not found")
	ErrCycleNotUpcoming = errors.New("review cycle can only be activated from the upcoming status")
	ErrCycleNotActive   = errors.New("review cycle can only be closed from the active status")
	ErrNameExists       = errors.New("a review cycle with this name already exists")
)
