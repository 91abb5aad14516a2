package memory

import "github.com/stride-hq/stride/pkg/domain/interfaces"

// Sentinels shared with the repository contract so callers can match
// with errors.Is regardless of the backing store.
var (
	ErrNotFound      = interfaces.ErrNotFound
	ErrAlreadyExists = interfaces.ErrAlreadyExists
	ErrConflict      = interfaces.ErrConflict
)
