package convert

import "errors"

var (
	// ErrInvalidFormat is returned for an unknown target format id.
	ErrInvalidFormat = errors.New("convert: unknown target format")

	// ErrInvalidStatus is returned for an unknown status filter value.
	ErrInvalidStatus = errors.New("convert: invalid status")

	// ErrActionRequired is returned when a quick action names no operation.
	ErrActionRequired = errors.New("convert: action name required")

	// ErrNotFound is returned when no conversion task exists with the
	// given id.
	ErrNotFound = errors.New("convert: task not found")
)
