package complaint

import "errors"

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown complaint id.
	ErrNotFound = errors.New("complaint not found")
)
