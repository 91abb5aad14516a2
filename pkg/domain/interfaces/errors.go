package interfaces

import "errors"

// Sentinel errors that every Repository implementation returns so the
// workflow layer can classify store failures with errors.Is.
var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a uniqueness constraint would
	// be violated
	ErrAlreadyExists = errors.New("record already exists")

	// ErrConflict is returned when a compare-and-swap update loses
	// against an already-resolved record
	ErrConflict = errors.New("record already resolved")
)
