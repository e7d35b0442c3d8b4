package maintenance

import "errors"

var (
	// ErrNotFound indicates the requested task does not exist.
	ErrNotFound = errors.New("maintenance task not found")

	// ErrInvalidTransition indicates the task status does not permit
	// the requested transition.
	ErrInvalidTransition = errors.New("invalid task status transition")
)
