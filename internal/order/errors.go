package order

import "errors"

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown order id.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidState marks a transition not permitted from the current status.
	ErrInvalidState = errors.New("invalid state")
	// ErrPermission marks an actor role not authorized for the operation.
	ErrPermission = errors.New("permission denied")
	// ErrVersionConflict marks a lost optimistic-concurrency race.
	ErrVersionConflict = errors.New("order was modified concurrently")
)
