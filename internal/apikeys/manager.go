package apikeys

import (
	"fmt"
	"strings"
	"time"

	"github.com/edgefleet/console-core/internal/infrastructure/config"
	"github.com/edgefleet/console-core/internal/lifecycle"
	"github.com/edgefleet/console-core/internal/notify"
)

// createdLayout is the display format for created stamps, matching the
// seeded data ("Dec 1, 2024").
const createdLayout = "Jan 2, 2006"

// Logger defines the logging interface used by the manager.
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

// Options configures a Manager.
type Options struct {
	// Clock drives the rotation timers. Defaults to the wall clock.
	Clock lifecycle.Clock

	// Notifier receives user-facing events. Defaults to a no-op.
	Notifier notify.Notifier

	// Logger receives debug entries. Optional.
	Logger Logger

	// Sim provides the rotation latency. Zero values fall back to the
	// config defaults.
	Sim config.SimulationConfig

	// Seed preloads keys.
	Seed []lifecycle.Entity[Key]

	// OnChange observes every key mutation. Used by the API layer for
	// websocket broadcasts.
	OnChange func(kind lifecycle.ChangeKind, e lifecycle.Entity[Key])

	// Now overrides the timestamp source for deterministic tests.
	Now func() time.Time
}

// Manager owns the API key collection.
//
// All methods are thread-safe.
type Manager struct {
	col      *lifecycle.Collection[Key]
	notifier notify.Notifier
	logger   Logger
	sim      config.SimulationConfig
	now      func() time.Time
}

// NewManager creates an API key manager.
func NewManager(opts Options) *Manager {
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.Sim.KeyRotateSeconds <= 0 {
		opts.Sim = config.Default().Simulation
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := &Manager{
		notifier: opts.Notifier,
		logger:   opts.Logger,
		sim:      opts.Sim,
		now:      opts.Now,
	}
	m.col = lifecycle.NewCollection(lifecycle.Options[Key]{
		Logger:       opts.Logger,
		Clock:        opts.Clock,
		SearchFields: func(k Key) []string { return []string{k.Name} },
		Seed:         opts.Seed,
		OnChange:     opts.OnChange,
	})
	return m
}

// List returns all keys, newest first, with masked secrets.
func (m *Manager) List() []View {
	entities := m.col.List()
	out := make([]View, len(entities))
	for i, e := range entities {
		out[i] = viewOf(e, false)
	}
	return out
}

// Get returns one key by id with a masked secret.
func (m *Manager) Get(id int64) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}
	return viewOf(e, false), nil
}

// Reveal returns one key by id with the full secret. Callers copy the
// secret from here; listings never include it.
func (m *Manager) Reveal(id int64) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}
	return viewOf(e, true), nil
}

// Generate mints a new active key. The returned view carries the full
// secret; this is the one chance to read it unmasked without an explicit
// reveal.
func (m *Manager) Generate(name string) (View, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return View{}, ErrNameRequired
	}

	secret, err := GenerateSecret(SecretPrefix)
	if err != nil {
		return View{}, err
	}

	e := m.col.Create(Key{
		Name:     name,
		Secret:   secret,
		Created:  m.now().Format(createdLayout),
		LastUsed: "Never",
	}, lifecycle.StatusSucceeded, 100)

	m.notifier.Notify(notify.New(notify.KindSuccess,
		"API Key Generated!",
		"Your new API key has been created. Make sure to copy it now!"))
	m.logger.Info("api key generated", "id", e.ID, "name", name)

	return viewOf(e, true), nil
}

// Rotate replaces a key's secret after the configured rotation latency.
// The key shows as rotating until the replacement lands. Rotating a key
// already mid-rotation replaces the pending rotation.
func (m *Manager) Rotate(id int64) (View, error) {
	if _, ok := m.col.Get(id); !ok {
		return View{}, ErrNotFound
	}

	m.col.Update(id, func(ent *lifecycle.Entity[Key]) {
		ent.Status = lifecycle.StatusRunning
		ent.Progress = 0
	})
	m.col.Start(id, lifecycle.RunConfig[Key]{
		Interval: m.sim.KeyRotateDelay(),
		Step:     lifecycle.FixedStep(100),
		OnComplete: func() lifecycle.Patch[Key] {
			secret, err := GenerateSecret(SecretPrefix)
			created := m.now().Format(createdLayout)
			return func(ent *lifecycle.Entity[Key]) {
				if err != nil {
					// Keep the old secret rather than blanking the key.
					return
				}
				ent.Payload.Secret = secret
				ent.Payload.Created = created
			}
		},
		OnDone: func() {
			m.notifier.Notify(notify.New(notify.KindSuccess,
				"Key regenerated!", "Your API key has been updated."))
			m.logger.Info("api key rotated", "id", id)
		},
	})

	m.notifier.Notify(notify.New(notify.KindInfo, "Regenerating key...", ""))

	updated, _ := m.col.Get(id)
	return viewOf(updated, false), nil
}

// Deprecate marks a key as deprecated without deleting it. Deprecated keys
// stay listed so callers can migrate off them before deletion.
func (m *Manager) Deprecate(id int64) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}

	m.col.Cancel(id, nil)
	m.col.Update(id, func(ent *lifecycle.Entity[Key]) {
		ent.Status = lifecycle.StatusFailed
	})

	m.notifier.Notify(notify.New(notify.KindWarning,
		fmt.Sprintf("%s deprecated", e.Payload.Name),
		"Rotate dependent services to a fresh key."))
	m.logger.Info("api key deprecated", "id", id, "name", e.Payload.Name)

	updated, _ := m.col.Get(id)
	return viewOf(updated, false), nil
}

// Delete removes a key permanently. Any pending rotation is discarded.
func (m *Manager) Delete(id int64) error {
	e, ok := m.col.Get(id)
	if !ok {
		return ErrNotFound
	}
	m.col.Remove(id)

	m.notifier.Notify(notify.New(notify.KindSuccess,
		"Key deleted",
		fmt.Sprintf("%s has been removed.", e.Payload.Name)))
	m.logger.Info("api key deleted", "id", id, "name", e.Payload.Name)
	return nil
}

// Usage returns the current billing period snapshot.
func (m *Manager) Usage() Usage {
	return Usage{
		TotalRequests: "1.2M",
		RequestLimit:  "5M",
		ComputeHours:  "847",
		ComputeLimit:  "1,000",
		DataTransfer:  "45 GB",
		TransferLimit: "100 GB",
	}
}

// Shutdown cancels all pending rotations.
func (m *Manager) Shutdown() {
	m.col.Shutdown()
}
