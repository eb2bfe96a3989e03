package deploy

import (
	"fmt"
	"strings"

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

// Query selects deployments for listing.
type Query struct {
	// Search matches case-insensitively against model name and target.
	Search string

	// Status keeps only deployments with this lifecycle status when set.
	Status lifecycle.Status
}

// Options configures a Manager.
type Options struct {
	Clock    lifecycle.Clock
	Notifier notify.Notifier
	Logger   Logger

	// Telemetry samples every deployment mutation. Optional.
	Telemetry Telemetry

	// Sim provides tick pacing. Zero values fall back to the config
	// defaults.
	Sim config.SimulationConfig

	// Seed preloads deployments.
	Seed []lifecycle.Entity[Job]

	// SeedModels preloads the model catalog, newest first.
	SeedModels []Model

	// OnChange observes every deployment mutation, including timer ticks.
	OnChange func(kind lifecycle.ChangeKind, e lifecycle.Entity[Job])
}

// Manager owns the deployment collection and the model catalog.
//
// All methods are thread-safe.
type Manager struct {
	col      *lifecycle.Collection[Job]
	catalog  *Catalog
	notifier notify.Notifier
	logger   Logger
	sim      config.SimulationConfig
}

// NewManager creates a deployment manager.
func NewManager(opts Options) *Manager {
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.Sim.DeployTickMillis <= 0 {
		opts.Sim = config.Default().Simulation
	}

	m := &Manager{
		notifier: opts.Notifier,
		logger:   opts.Logger,
		sim:      opts.Sim,
	}
	m.catalog = NewCatalog(CatalogOptions{
		Clock:    opts.Clock,
		Notifier: opts.Notifier,
		Logger:   opts.Logger,
		Sim:      opts.Sim,
		Seed:     opts.SeedModels,
	})

	onChange := opts.OnChange
	telemetry := opts.Telemetry
	m.col = lifecycle.NewCollection(lifecycle.Options[Job]{
		Logger: opts.Logger,
		Clock:  opts.Clock,
		SearchFields: func(j Job) []string {
			return []string{j.Model, string(j.Target)}
		},
		Seed: opts.Seed,
		OnChange: func(kind lifecycle.ChangeKind, e lifecycle.Entity[Job]) {
			if telemetry != nil && kind != lifecycle.ChangeRemoved {
				telemetry.WriteRunProgress("deployments", e.ID, string(e.Status), e.Progress)
			}
			if onChange != nil {
				onChange(kind, e)
			}
		},
	})
	return m
}

// Catalog exposes the model catalog for upload and import operations.
func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// List returns the deployments matching the query, newest first.
func (m *Manager) List(q Query) []View {
	return viewsOf(m.col.Project(lifecycle.Query{
		Search: q.Search,
		Status: q.Status,
	}))
}

// Get returns one deployment by id.
func (m *Manager) Get(id int64) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}
	return ViewOf(e), nil
}

// Deploy starts a new deployment of the named model to the target. The job
// advances by a fixed step per tick until it succeeds.
func (m *Manager) Deploy(model string, target Target) (View, error) {
	model = strings.TrimSpace(model)
	switch {
	case target == "":
		m.notifier.Notify(notify.New(notify.KindError,
			"Select a target", "Please select a deployment target first."))
		return View{}, ErrNoTarget
	case !target.Valid():
		return View{}, ErrInvalidTarget
	case model == "":
		m.notifier.Notify(notify.New(notify.KindError,
			"No model selected", "Please upload or select a model first."))
		return View{}, ErrNoModel
	}
	format := formatOf(model)
	if format == "" {
		m.notifier.Notify(notify.New(notify.KindError,
			"Invalid file format",
			"Please upload .onnx, .tflite, .pt, .pb, or .mlmodel files"))
		return View{}, ErrInvalidFormat
	}

	e := m.col.CreateAndStart(Job{
		Model:  model,
		Target: target,
		Format: format,
	}, lifecycle.StatusRunning, 0, lifecycle.RunConfig[Job]{
		Interval: m.sim.DeployTick(),
		Step:     lifecycle.FixedStep(m.sim.DeployStep),
		OnDone: func() {
			m.notifier.Notify(notify.New(notify.KindSuccess,
				"Deployment successful!",
				fmt.Sprintf("%s deployed to %s", model, target.Label())))
			m.logger.Info("deployment completed", "model", model, "target", target)
		},
	})

	m.logger.Info("deployment started", "id", e.ID, "model", model, "target", target)
	return ViewOf(e), nil
}

// Cancel stops an in-flight deployment. Progress freezes at its last value.
// Cancelling a deployment that is not running is a no-op.
func (m *Manager) Cancel(id int64) (View, error) {
	if _, ok := m.col.Get(id); !ok {
		return View{}, ErrNotFound
	}

	if m.col.Cancel(id, func(e *lifecycle.Entity[Job]) {
		e.Status = lifecycle.StatusCancelled
	}) {
		m.notifier.Notify(notify.New(notify.KindInfo, "Deployment cancelled", ""))
		m.logger.Info("deployment cancelled", "id", id)
	}

	e, _ := m.col.Get(id)
	return ViewOf(e), nil
}

// Fail marks a deployment as failed from an external signal. Any in-flight
// run is stopped; progress freezes where it was.
func (m *Manager) Fail(id int64, reason string) (View, error) {
	e, ok := m.col.Get(id)
	if !ok {
		return View{}, ErrNotFound
	}

	m.col.Cancel(id, nil)
	m.col.Update(id, func(ent *lifecycle.Entity[Job]) {
		ent.Status = lifecycle.StatusFailed
	})

	if reason == "" {
		reason = "Deployment failed"
	}
	m.notifier.Notify(notify.New(notify.KindError,
		fmt.Sprintf("%s deployment failed", e.Payload.Model),
		reason).WithAction("View Logs"))
	m.logger.Warn("deployment failed", "id", id, "reason", reason)

	updated, _ := m.col.Get(id)
	return ViewOf(updated), nil
}

// Delete removes a deployment. Any in-flight run is discarded.
func (m *Manager) Delete(id int64) error {
	if !m.col.Remove(id) {
		return ErrNotFound
	}
	m.logger.Info("deployment deleted", "id", id)
	return nil
}

// Shutdown stops all in-flight deployments and pending imports.
func (m *Manager) Shutdown() {
	m.col.Shutdown()
	m.catalog.Shutdown()
}
