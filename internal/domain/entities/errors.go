package entities

import "errors"

// ErrInvalidInput is returned when the caller supplies an entity that
// cannot be scored. It indicates a caller bug and should not be retried.
var ErrInvalidInput = errors.New("invalid input")
