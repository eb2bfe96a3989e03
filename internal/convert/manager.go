package convert

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/edgefleet/console-core/internal/infrastructure/config"
	"github.com/edgefleet/console-core/internal/lifecycle"
	"github.com/edgefleet/console-core/internal/notify"
)

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

// Telemetry receives per-tick progress samples. Satisfied by the InfluxDB
// client; a nil implementation disables sampling.
type Telemetry interface {
	WriteRunProgress(collection string, id int64, status string, progress int)
}

// Query selects conversion tasks for listing.
type Query struct {
	// Search matches case-insensitively against the task name.
	Search string

	// Status keeps only tasks with this status when set.
	Status Status
}

// Options configures a Manager.
type Options struct {
	Clock    lifecycle.Clock
	Notifier notify.Notifier
	Logger   Logger

	// Telemetry samples every task mutation. Optional.
	Telemetry Telemetry

	// Sim provides tick pacing. Zero values fall back to the config
	// defaults.
	Sim config.SimulationConfig

	// Rand paces the randomized progress steps. Defaults to a time-seeded
	// source; tests pass a fixed seed.
	Rand *rand.Rand

	// Seed preloads tasks.
	Seed []lifecycle.Entity[Task]

	// OnChange observes every task mutation, including timer ticks.
	OnChange func(kind lifecycle.ChangeKind, e lifecycle.Entity[Task])
}

// Manager owns the conversion task collection.
//
// All methods are thread-safe.
type Manager struct {
	col      *lifecycle.Collection[Task]
	notifier notify.Notifier
	logger   Logger
	clock    lifecycle.Clock
	sim      config.SimulationConfig
	rng      *rand.Rand

	mu      sync.Mutex
	actions []func()
}

// NewManager creates a conversion manager.
func NewManager(opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = lifecycle.NewClock()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.Sim.ConvertTickMillis <= 0 {
		opts.Sim = config.Default().Simulation
	}

	m := &Manager{
		notifier: opts.Notifier,
		logger:   opts.Logger,
		clock:    opts.Clock,
		sim:      opts.Sim,
		rng:      opts.Rand,
	}

	onChange := opts.OnChange
	telemetry := opts.Telemetry
	m.col = lifecycle.NewCollection(lifecycle.Options[Task]{
		Logger: opts.Logger,
		Clock:  opts.Clock,
		SearchFields: func(t Task) []string {
			return []string{t.Name, t.Format}
		},
		Seed: opts.Seed,
		OnChange: func(kind lifecycle.ChangeKind, e lifecycle.Entity[Task]) {
			if telemetry != nil && kind != lifecycle.ChangeRemoved {
				telemetry.WriteRunProgress("conversions", e.ID, string(statusOf(e.Status)), e.Progress)
			}
			if onChange != nil {
				onChange(kind, e)
			}
		},
	})
	return m
}

// List returns the tasks matching the query, newest first.
func (m *Manager) List(q Query) ([]View, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	entities := m.col.Project(lifecycle.Query{
		Search: q.Search,
		Status: engineStatus(q.Status),
	})
	return viewsOf(entities), nil
}

// Get returns one task by id.
func (m *Manager) Get(id int64) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}
	return ViewOf(e), nil
}

// Start begins a new conversion to the given target format. Progress
// advances by a random amount per tick and the time label tracks a rough
// remaining estimate.
func (m *Manager) Start(formatID string) (View, error) {
	format, ok := formatByID(formatID)
	if !ok {
		return View{}, ErrInvalidFormat
	}
	name := fmt.Sprintf("Model → %s", format.Name)

	e := m.col.CreateAndStart(Task{
		Name:   name,
		Format: format.ID,
		Time:   "Starting...",
	}, lifecycle.StatusRunning, 0, lifecycle.RunConfig[Task]{
		Interval: m.sim.ConvertTick(),
		Step:     lifecycle.RandomStep(m.sim.ConvertMaxStep, m.rng),
		OnTick: func(progress int) lifecycle.Patch[Task] {
			label := remainingLabel(progress)
			return func(e *lifecycle.Entity[Task]) {
				e.Payload.Time = label
			}
		},
		OnComplete: func() lifecycle.Patch[Task] {
			return func(e *lifecycle.Entity[Task]) {
				e.Payload.Time = "Just completed"
			}
		},
		OnDone: func() {
			m.notifier.Notify(notify.New(notify.KindSuccess,
				"Conversion complete!",
				fmt.Sprintf("%s finished successfully", name)))
			m.logger.Info("conversion completed", "name", name)
		},
	})

	m.notifier.Notify(notify.New(notify.KindSuccess,
		"Conversion started!",
		fmt.Sprintf("Converting model to %s format", format.Name)))
	m.logger.Info("conversion started", "id", e.ID, "format", format.ID)

	return ViewOf(e), nil
}

// Cancel stops a task. Works on running and queued tasks alike; progress
// freezes at its last value and the label switches to "Cancelled".
// Cancelling a task that already reached a terminal status is a no-op.
func (m *Manager) Cancel(id int64) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}

	if !e.Status.Terminal() {
		m.col.Cancel(id, nil)
		m.col.Update(id, func(ent *lifecycle.Entity[Task]) {
			ent.Status = lifecycle.StatusCancelled
			ent.Payload.Time = "Cancelled"
		})
		m.notifier.Notify(notify.New(notify.KindInfo, "Task cancelled", ""))
		m.logger.Info("conversion cancelled", "id", id)
	}

	updated, _ := m.col.Get(id)
	return ViewOf(updated), nil
}

// Delete removes a task. Any in-flight run is discarded.
func (m *Manager) Delete(id int64) error {
	if !m.col.Remove(id) {
		return ErrNotFound
	}
	m.logger.Info("conversion deleted", "id", id)
	return nil
}

// RunAction executes a named quick action (quantization, pruning,
// profiling, report export) as a one-shot simulated operation. Returns
// immediately; completion raises a notification.
func (m *Manager) RunAction(action string) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrActionRequired
	}

	m.notifier.Notify(notify.New(notify.KindInfo,
		fmt.Sprintf("Running %s...", action), ""))
	m.logger.Info("quick action started", "action", action)

	cancel := m.clock.Schedule(m.sim.QuickActionDelay(), func() {
		m.notifier.Notify(notify.New(notify.KindSuccess,
			fmt.Sprintf("%s completed!", action),
			"Operation finished successfully"))
		m.logger.Info("quick action completed", "action", action)
	})

	m.mu.Lock()
	m.actions = append(m.actions, cancel)
	m.mu.Unlock()
	return nil
}

// Shutdown stops all in-flight conversions and pending quick actions.
func (m *Manager) Shutdown() {
	m.col.Shutdown()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cancel := range m.actions {
		cancel()
	}
	m.actions = nil
}
