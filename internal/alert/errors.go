package alert

import "errors"

var (
	// ErrNotFound is returned when the referenced alert does not exist.
	ErrNotFound = errors.New("alert not found")

	// ErrInvalidTransition is returned when a lifecycle operation is not
	// valid for the alert's current status.
	ErrInvalidTransition = errors.New("invalid alert status transition")
)
