package fleet

import "errors"

// Domain-specific errors for fleet operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNameRequired is returned when adding a device without a name.
	ErrNameRequired = errors.New("fleet: device name is required")

	// ErrOSRequired is returned when adding a device without an operating system.
	ErrOSRequired = errors.New("fleet: device operating system is required")

	// ErrInvalidType is returned for an unrecognised device type.
	ErrInvalidType = errors.New("fleet: device type must be edge, mobile, or server")

	// ErrInvalidStatus is returned for an unrecognised status filter.
	ErrInvalidStatus = errors.New("fleet: status must be online, offline, or syncing")

	// ErrNotFound is returned when the referenced device does not exist.
	ErrNotFound = errors.New("fleet: device not found")
)
