package lifecycle

import "errors"

// Domain errors for the lifecycle package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, lifecycle.ErrNotFound) {
//	    // handle missing entity
//	}
var (
	// ErrNotFound is returned when an entity id does not exist in the store.
	ErrNotFound = errors.New("lifecycle: entity not found")

	// ErrNotRunning is returned when an operation requires an active run
	// but the entity has none.
	ErrNotRunning = errors.New("lifecycle: no active run")
)
