package notify

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the severity class of a notification. It maps directly onto the
// toast styling the dashboard renders.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Action is an optional call-to-action attached to a notification, such as
// "View Logs" on a failed deployment.
type Action struct {
	Label string `json:"label"`
}

// Notification is one user-facing event.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Action    *Action   `json:"action,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds a notification with a fresh id and timestamp.
func New(kind Kind, title, message string) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// WithAction returns a copy of the notification carrying an action label.
func (n Notification) WithAction(label string) Notification {
	n.Action = &Action{Label: label}
	return n
}

// Notifier is the interface domain managers emit through. Implementations
// must not block and must not surface delivery errors to the caller.
type Notifier interface {
	Notify(n Notification)
}

// Nop is a Notifier that discards everything. Useful in tests and as the
// default when no hub is wired.
type Nop struct{}

func (Nop) Notify(Notification) {}
