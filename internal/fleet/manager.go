package fleet

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/edgefleet/console-core/internal/infrastructure/config"
	"github.com/edgefleet/console-core/internal/lifecycle"
	"github.com/edgefleet/console-core/internal/notify"
)

// Connected devices land with a performance score in [80,100); a refresh
// bumps online devices by [0,5) capped at 100.
const (
	connectPerfBase   = 80
	connectPerfSpread = 20
	refreshPerfSpread = 5
	maxPerformance    = 100
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

// Telemetry receives fleet samples for time-series storage. Implemented by
// the influxdb client; nil disables telemetry.
type Telemetry interface {
	WriteDevicePerformance(deviceID int64, name, status string, performance float64)
	WriteFleetSnapshot(online, offline, syncing int)
}

// Query filters a fleet listing. The zero value matches every device.
type Query struct {
	// Search is a case-insensitive substring matched against device name
	// and operating system.
	Search string

	// Status narrows to one fleet status; empty means no status filter.
	Status Status
}

// Options configures a Manager.
type Options struct {
	// Clock drives the connect and refresh timers. Defaults to the wall
	// clock.
	Clock lifecycle.Clock

	// Notifier receives user-facing events. Defaults to a no-op.
	Notifier notify.Notifier

	// Logger receives debug entries. Optional.
	Logger Logger

	// Telemetry receives performance samples. Optional.
	Telemetry Telemetry

	// Sim provides the timing constants. Zero values fall back to the
	// config defaults.
	Sim config.SimulationConfig

	// Rand overrides the randomness source for deterministic tests.
	Rand *rand.Rand

	// Seed preloads the demo fleet.
	Seed []lifecycle.Entity[Device]

	// OnChange observes every device mutation, including timer-driven
	// ones. Used by the API layer for websocket broadcasts.
	OnChange func(kind lifecycle.ChangeKind, e lifecycle.Entity[Device])
}

// Manager owns the device fleet.
//
// All methods are thread-safe.
type Manager struct {
	col       *lifecycle.Collection[Device]
	clock     lifecycle.Clock
	notifier  notify.Notifier
	logger    Logger
	telemetry Telemetry
	sim       config.SimulationConfig

	randMu sync.Mutex
	rng    *rand.Rand

	refreshMu     sync.Mutex
	cancelRefresh func()
}

// NewManager creates a fleet manager.
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
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // simulation, not security
	}
	if opts.Sim.DeviceConnectSeconds <= 0 {
		opts.Sim = config.Default().Simulation
	}

	m := &Manager{
		clock:     opts.Clock,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		telemetry: opts.Telemetry,
		sim:       opts.Sim,
		rng:       opts.Rand,
	}
	m.col = lifecycle.NewCollection(lifecycle.Options[Device]{
		Logger:       opts.Logger,
		Clock:        opts.Clock,
		SearchFields: func(d Device) []string { return []string{d.Name, d.OS} },
		Seed:         opts.Seed,
		OnChange:     opts.OnChange,
	})
	return m
}

// List returns the devices matching the query, newest first.
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

// Get returns one device by id.
func (m *Manager) Get(id int64) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}
	return ViewOf(e), nil
}

// Counts returns the aggregate fleet health summary.
func (m *Manager) Counts() Counts {
	var c Counts
	for _, e := range m.col.List() {
		c.Total++
		switch statusOf(e.Status) {
		case StatusOnline:
			c.Online++
		case StatusOffline:
			c.Offline++
		case StatusSyncing:
			c.Syncing++
		}
	}
	return c
}

// Add registers a new device and starts its connection simulation. The
// device appears immediately as syncing and flips online after the connect
// delay with a fresh performance score.
func (m *Manager) Add(name, os string, deviceType DeviceType) (View, error) {
	name = strings.TrimSpace(name)
	os = strings.TrimSpace(os)
	if name == "" {
		return View{}, ErrNameRequired
	}
	if os == "" {
		return View{}, ErrOSRequired
	}
	if deviceType == "" {
		deviceType = TypeEdge
	}
	if !deviceType.Valid() {
		return View{}, ErrInvalidType
	}

	payload := Device{
		Name:     name,
		OS:       os,
		Type:     deviceType,
		LastSeen: "Connecting...",
	}
	e := m.col.CreateAndStart(payload, lifecycle.StatusRunning, 0, m.connectRun(name))

	m.notifier.Notify(notify.New(notify.KindInfo, fmt.Sprintf("Connecting to %s...", name), ""))
	m.logger.Info("device added", "id", e.ID, "name", name, "type", string(deviceType))

	return ViewOf(e), nil
}

// Reconnect restarts the connection simulation for an existing device.
// Reconnecting a device that is already syncing replaces the in-flight
// connect attempt rather than stacking a second one.
func (m *Manager) Reconnect(id int64) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}

	m.col.Update(id, func(ent *lifecycle.Entity[Device]) {
		ent.Status = lifecycle.StatusRunning
		ent.Progress = 0
		ent.Payload.Performance = 0
		ent.Payload.LastSeen = "Connecting..."
	})
	m.col.Start(id, m.connectRun(e.Payload.Name))

	m.notifier.Notify(notify.New(notify.KindInfo, fmt.Sprintf("Connecting to %s...", e.Payload.Name), ""))
	m.logger.Info("device reconnecting", "id", id, "name", e.Payload.Name)

	updated, _ := m.col.Get(id)
	return ViewOf(updated), nil
}

// connectRun builds the single-shot run that flips a device online.
func (m *Manager) connectRun(name string) lifecycle.RunConfig[Device] {
	return lifecycle.RunConfig[Device]{
		Interval: m.sim.DeviceConnectDelay(),
		Step:     lifecycle.FixedStep(100),
		OnComplete: func() lifecycle.Patch[Device] {
			perf := connectPerfBase + m.intn(connectPerfSpread)
			return func(e *lifecycle.Entity[Device]) {
				e.Payload.Performance = perf
				e.Payload.LastSeen = "Just now"
			}
		},
		OnDone: func() {
			m.notifier.Notify(notify.New(notify.KindSuccess, fmt.Sprintf("%s connected!", name), ""))
			m.sampleTelemetry()
		},
	}
}

// RefreshAll sweeps the fleet after the refresh delay: every online device
// gets a fresh last-seen stamp and a small performance bump. Triggering a
// refresh while one is pending replaces the pending sweep.
func (m *Manager) RefreshAll() {
	m.notifier.Notify(notify.New(notify.KindInfo, "Refreshing devices...", ""))

	m.refreshMu.Lock()
	if m.cancelRefresh != nil {
		m.cancelRefresh()
	}
	m.cancelRefresh = m.clock.Schedule(m.sim.DeviceRefreshDelay(), m.completeRefresh)
	m.refreshMu.Unlock()
}

func (m *Manager) completeRefresh() {
	m.refreshMu.Lock()
	m.cancelRefresh = nil
	m.refreshMu.Unlock()

	for _, e := range m.col.List() {
		if statusOf(e.Status) != StatusOnline {
			continue
		}
		bump := m.intn(refreshPerfSpread)
		m.col.Update(e.ID, func(ent *lifecycle.Entity[Device]) {
			ent.Payload.LastSeen = "Just now"
			ent.Payload.Performance = min(maxPerformance, ent.Payload.Performance+bump)
		})
	}

	m.notifier.Notify(notify.New(notify.KindSuccess, "Devices refreshed!", ""))
	m.logger.Debug("fleet refreshed")
	m.sampleTelemetry()
}

// Fail forces a device offline, discarding any in-flight connect attempt.
// Used to simulate a lost device.
func (m *Manager) Fail(id int64, reason string) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}

	m.col.Cancel(id, nil)
	m.col.Update(id, func(ent *lifecycle.Entity[Device]) {
		ent.Status = lifecycle.StatusFailed
		ent.Payload.Performance = 0
	})

	msg := reason
	if msg == "" {
		msg = "Connection lost"
	}
	m.notifier.Notify(notify.New(notify.KindError, fmt.Sprintf("%s went offline", e.Payload.Name), msg))
	m.logger.Warn("device offline", "id", id, "name", e.Payload.Name, "reason", msg)
	m.sampleTelemetry()

	updated, _ := m.col.Get(id)
	return ViewOf(updated), nil
}

// Remove deletes a device. An in-flight connect run is discarded; its timer
// finds the device gone and drops the update.
func (m *Manager) Remove(id int64) error {
	e, ok := m.col.Get(id)
	if !ok {
		return ErrNotFound
	}
	m.col.Remove(id)

	m.notifier.Notify(notify.New(notify.KindInfo, fmt.Sprintf("%s removed", e.Payload.Name), ""))
	m.logger.Info("device removed", "id", id, "name", e.Payload.Name)
	m.sampleTelemetry()
	return nil
}

// Shutdown cancels all in-flight timers.
func (m *Manager) Shutdown() {
	m.refreshMu.Lock()
	if m.cancelRefresh != nil {
		m.cancelRefresh()
		m.cancelRefresh = nil
	}
	m.refreshMu.Unlock()
	m.col.Shutdown()
}

// sampleTelemetry writes per-device and aggregate samples. No-op without a
// telemetry backend.
func (m *Manager) sampleTelemetry() {
	if m.telemetry == nil {
		return
	}
	var c Counts
	for _, e := range m.col.List() {
		status := statusOf(e.Status)
		switch status {
		case StatusOnline:
			c.Online++
		case StatusOffline:
			c.Offline++
		case StatusSyncing:
			c.Syncing++
		}
		m.telemetry.WriteDevicePerformance(e.ID, e.Payload.Name, string(status), float64(e.Payload.Performance))
	}
	m.telemetry.WriteFleetSnapshot(c.Online, c.Offline, c.Syncing)
}

func (m *Manager) intn(n int) int {
	m.randMu.Lock()
	defer m.randMu.Unlock()
	return m.rng.Intn(n)
}
