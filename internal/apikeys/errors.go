package apikeys

import "errors"

// Domain-specific errors for API key operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNameRequired is returned when generating a key without a name.
	ErrNameRequired = errors.New("apikeys: key name is required")

	// ErrNotFound is returned when the referenced key does not exist.
	ErrNotFound = errors.New("apikeys: key not found")
)
