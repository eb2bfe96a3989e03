package apikeys

import (
	"strings"
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
)

// Status is the key-facing status vocabulary.
type Status string

const (
	StatusActive     Status = "active"
	StatusDeprecated Status = "deprecated"
	StatusRotating   Status = "rotating"
)

// Key is the payload stored per API key entity. Secret is never serialised;
// the view layer decides between masked and revealed forms.
type Key struct {
	Name     string `json:"name"`
	Secret   string `json:"-"`
	Created  string `json:"created"`
	LastUsed string `json:"last_used"`
}

// View is the externally visible shape of a key. Key holds the masked
// secret unless the caller explicitly revealed it.
type View struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Key      string    `json:"key"`
	Status   Status    `json:"status"`
	Created  string    `json:"created"`
	LastUsed string    `json:"last_used"`
	AddedAt  time.Time `json:"added_at"`
}

// Usage is the current billing period snapshot.
type Usage struct {
	TotalRequests string `json:"total_requests"`
	RequestLimit  string `json:"request_limit"`
	ComputeHours  string `json:"compute_hours"`
	ComputeLimit  string `json:"compute_limit"`
	DataTransfer  string `json:"data_transfer"`
	TransferLimit string `json:"transfer_limit"`
}

const (
	// maskPrefixLen is how many leading secret characters stay visible in
	// masked form.
	maskPrefixLen = 7

	// maskFillerLen is how many bullet characters follow the prefix.
	maskFillerLen = 16
)

// Mask returns the masked form of a secret: its first characters followed
// by a fixed-length filler, so the real length is not leaked either.
func Mask(secret string) string {
	prefix := secret
	if len(prefix) > maskPrefixLen {
		prefix = prefix[:maskPrefixLen]
	}
	return prefix + strings.Repeat("•", maskFillerLen)
}

func statusOf(s lifecycle.Status) Status {
	switch s {
	case lifecycle.StatusRunning, lifecycle.StatusQueued:
		return StatusRotating
	case lifecycle.StatusFailed, lifecycle.StatusCancelled:
		return StatusDeprecated
	default:
		return StatusActive
	}
}

// ViewOf converts an engine entity into the key-facing view with the
// secret masked. Exported for change-observer wiring (WebSocket
// broadcasts), which must never carry the raw secret.
func ViewOf(e lifecycle.Entity[Key]) View {
	return viewOf(e, false)
}

func viewOf(e lifecycle.Entity[Key], revealed bool) View {
	secret := Mask(e.Payload.Secret)
	if revealed {
		secret = e.Payload.Secret
	}
	return View{
		ID:       e.ID,
		Name:     e.Payload.Name,
		Key:      secret,
		Status:   statusOf(e.Status),
		Created:  e.Payload.Created,
		LastUsed: e.Payload.LastUsed,
		AddedAt:  e.CreatedAt,
	}
}
