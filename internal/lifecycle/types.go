package lifecycle

import "time"

// Status represents an entity's lifecycle state.
type Status string

// Status constants. The first two are live states; the rest are terminal.
const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions may follow this status.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCancelled
}

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusQueued, StatusRunning, StatusSucceeded, StatusFailed, StatusCancelled,
	}
}

// Entity is one tracked item in a collection: a payload plus the lifecycle
// bookkeeping the engine maintains for it.
//
// Payloads must be value types whose fields are copied by assignment
// (strings, numbers, booleans). The Store hands out copies, so reference
// fields inside P would leak shared mutable state.
type Entity[P any] struct {
	ID        int64     `json:"id"`
	Payload   P         `json:"payload"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
}

// Patch is a partial in-place mutation applied to an entity under the
// Store's lock. Patches must not block or call back into the Store.
type Patch[P any] func(*Entity[P])
