package usecase

import "errors"

// Sentinel errors forming the caller-visible error taxonomy. Handlers
// map these to response codes with errors.Is.
var (
	// ErrNotFound is returned when a referenced item, iteration or
	// approval record does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned on a missing or invalid required field
	// (empty goal, empty quorum, empty rejection reason, ...)
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition is returned when an operation is not legal in
	// the entity's current status
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrConflict is returned on a duplicate admission request, an
	// already-resolved decision or an already-terminal iteration
	ErrConflict = errors.New("conflict")
)
