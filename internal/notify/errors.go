package notify

import "errors"

var (
	// ErrNotFound indicates the requested notification job does not exist.
	ErrNotFound = errors.New("notification job not found")

	// ErrDeliveryExhausted indicates a job used up its delivery attempts.
	ErrDeliveryExhausted = errors.New("notification delivery attempts exhausted")

	// ErrNotFailed indicates a retry was requested for a job that is not
	// in the FAILED state.
	ErrNotFailed = errors.New("notification job is not in FAILED state")
)
