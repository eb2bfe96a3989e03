package deploy

import "errors"

var (
	// ErrNoTarget is returned when a deployment names no target class.
	ErrNoTarget = errors.New("deploy: target required")

	// ErrInvalidTarget is returned for an unknown target class.
	ErrInvalidTarget = errors.New("deploy: invalid target")

	// ErrNoModel is returned when a deployment names no model.
	ErrNoModel = errors.New("deploy: model required")

	// ErrInvalidFormat is returned for a model file with an unsupported
	// extension.
	ErrInvalidFormat = errors.New("deploy: unsupported model format")

	// ErrURLRequired is returned when an import is requested without a URL.
	ErrURLRequired = errors.New("deploy: import url required")

	// ErrNotFound is returned when no deployment exists with the given id.
	ErrNotFound = errors.New("deploy: deployment not found")
)
