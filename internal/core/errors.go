package core

import "errors"

var (
	// ErrNotFound is returned when an id does not exist in the current snapshot.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input such as a non-positive quantity.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition is returned when a status change is not allowed by the state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInsufficientStock is returned when a source warehouse cannot cover a movement.
	ErrInsufficientStock = errors.New("insufficient stock")
)
