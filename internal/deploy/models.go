package deploy

import (
	"fmt"
	"strings"
	"sync"

	"github.com/edgefleet/console-core/internal/infrastructure/config"
	"github.com/edgefleet/console-core/internal/lifecycle"
	"github.com/edgefleet/console-core/internal/notify"
)

// catalogCapacity is how many recent models the catalog retains.
const catalogCapacity = 3

// CatalogOptions configures a Catalog.
type CatalogOptions struct {
	Clock    lifecycle.Clock
	Notifier notify.Notifier
	Logger   Logger

	// Sim provides the import latency. Zero values fall back to the
	// config defaults.
	Sim config.SimulationConfig

	// Seed preloads the catalog, newest first.
	Seed []Model
}

// Catalog keeps the most recently added model artifacts, newest first.
//
// All methods are thread-safe.
type Catalog struct {
	notifier notify.Notifier
	logger   Logger
	clock    lifecycle.Clock
	sim      config.SimulationConfig

	mu      sync.Mutex
	models  []Model
	imports []func()
}

// NewCatalog creates a model catalog.
func NewCatalog(opts CatalogOptions) *Catalog {
	if opts.Clock == nil {
		opts.Clock = lifecycle.NewClock()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.Sim.ModelImportSeconds <= 0 {
		opts.Sim = config.Default().Simulation
	}

	models := make([]Model, 0, catalogCapacity)
	for _, m := range opts.Seed {
		if len(models) == catalogCapacity {
			break
		}
		models = append(models, m)
	}

	return &Catalog{
		notifier: opts.Notifier,
		logger:   opts.Logger,
		clock:    opts.Clock,
		sim:      opts.Sim,
		models:   models,
	}
}

// Models returns the catalog entries, newest first.
func (c *Catalog) Models() []Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

// Upload adds a model artifact to the catalog. The extension must be one
// of the supported model formats.
func (c *Catalog) Upload(name string, sizeBytes int64) (Model, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Model{}, ErrNoModel
	}
	format := formatOf(name)
	if format == "" {
		c.notifier.Notify(notify.New(notify.KindError,
			"Invalid file format",
			"Please upload .onnx, .tflite, .pt, .pb, or .mlmodel files"))
		return Model{}, ErrInvalidFormat
	}

	m := Model{
		Name:     name,
		Size:     formatSize(sizeBytes),
		Format:   format,
		Uploaded: "Just now",
	}
	c.insert(m)

	c.notifier.Notify(notify.New(notify.KindSuccess,
		"Model uploaded!",
		fmt.Sprintf("%s has been uploaded successfully.", name)))
	c.logger.Info("model uploaded", "name", name, "format", format)
	return m, nil
}

// Import fetches a model from a URL after the configured import latency
// and adds it to the catalog. The model name is the last path segment of
// the URL. Returns immediately; completion raises a notification.
func (c *Catalog) Import(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		c.notifier.Notify(notify.New(notify.KindError, "Please enter a URL", ""))
		return ErrURLRequired
	}

	c.notifier.Notify(notify.New(notify.KindInfo, "Importing model...", ""))
	c.logger.Info("model import started", "url", url)

	cancel := c.clock.Schedule(c.sim.ModelImportDelay(), func() {
		name := importedName(url)
		c.insert(Model{
			Name:     name,
			Size:     "Auto-detected",
			Format:   "ONNX",
			Uploaded: "Just now",
		})
		c.notifier.Notify(notify.New(notify.KindSuccess,
			"Model imported!",
			fmt.Sprintf("%s imported from URL", name)))
		c.logger.Info("model import completed", "name", name)
	})

	c.mu.Lock()
	c.imports = append(c.imports, cancel)
	c.mu.Unlock()
	return nil
}

// Shutdown cancels pending imports.
func (c *Catalog) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cancel := range c.imports {
		cancel()
	}
	c.imports = nil
}

// insert places a model first and trims the catalog to capacity.
func (c *Catalog) insert(m Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = append([]Model{m}, c.models...)
	if len(c.models) > catalogCapacity {
		c.models = c.models[:catalogCapacity]
	}
}

// importedName derives the model name from the last URL path segment.
func importedName(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return "imported-model.onnx"
	}
	return trimmed
}
