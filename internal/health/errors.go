package health

import "errors"

// ErrValidation marks missing or malformed screening input.
var ErrValidation = errors.New("validation failed")
