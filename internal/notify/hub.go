package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultRetention is how many notifications the hub keeps for late readers.
const DefaultRetention = 100

// Logger defines the logging interface used by the hub.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Sink receives notifications for out-of-process delivery (websocket
// clients, MQTT). Deliver runs on the hub's dispatch goroutine; returned
// errors are logged and dropped, never propagated to the emitter.
type Sink interface {
	Name() string
	Deliver(n Notification) error
}

// Hub collects notifications from the domain managers, retains the most
// recent ones for the REST surface, and fans each one out to the registered
// sinks asynchronously.
//
// Hub implements Notifier. All methods are thread-safe.
type Hub struct {
	mu        sync.RWMutex
	recent    []Notification
	retention int
	sinks     []Sink
	logger    Logger
}

// NewHub creates a hub retaining the given number of notifications.
// Non-positive retention falls back to DefaultRetention. A nil logger is
// silenced.
func NewHub(retention int, logger Logger) *Hub {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Hub{retention: retention, logger: logger}
}

// AddSink registers a delivery sink. Call during startup, before traffic.
func (h *Hub) AddSink(s Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks = append(h.sinks, s)
}

// Notify records the notification and dispatches it to all sinks without
// blocking the caller. Missing id or timestamp fields are filled in.
func (h *Hub) Notify(n Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	h.mu.Lock()
	h.recent = append([]Notification{n}, h.recent...)
	if len(h.recent) > h.retention {
		h.recent = h.recent[:h.retention]
	}
	sinks := make([]Sink, len(h.sinks))
	copy(sinks, h.sinks)
	h.mu.Unlock()

	h.logger.Debug("notification emitted", "id", n.ID, "kind", string(n.Kind), "title", n.Title)

	go func() {
		for _, s := range sinks {
			if err := s.Deliver(n); err != nil {
				h.logger.Warn("notification sink failed",
					"sink", s.Name(),
					"id", n.ID,
					"error", err)
			}
		}
	}()
}

// Recent returns the retained notifications, newest first.
func (h *Hub) Recent() []Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Notification, len(h.recent))
	copy(out, h.recent)
	return out
}

// Dismiss drops the notification with the given id from the retained list.
// Reports whether one was found; sinks that already delivered it are not
// recalled.
func (h *Hub) Dismiss(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.recent {
		if h.recent[i].ID == id {
			h.recent = append(h.recent[:i], h.recent[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops all retained notifications.
func (h *Hub) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recent = nil
}
