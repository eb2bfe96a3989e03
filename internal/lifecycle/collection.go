package lifecycle

import "time"

// Options configures a Collection.
type Options[P any] struct {
	// Logger receives engine-level debug entries. Optional.
	Logger Logger

	// Clock schedules run timers. Defaults to the wall clock; tests pass
	// a ManualClock for deterministic advancement.
	Clock Clock

	// SearchFields extracts the searchable strings from a payload for
	// Project. A nil extractor means text search never matches.
	SearchFields SearchFields[P]

	// Seed preloads the collection in order. The id allocator starts
	// above the largest seeded id.
	Seed []Entity[P]

	// OnChange observes every mutation, including timer-driven ones.
	// Called outside all engine locks.
	OnChange func(kind ChangeKind, e Entity[P])
}

// Collection binds an id allocator, an ordered store, and a run simulator
// for one entity type. It is the unit the domain managers (fleet, apikeys,
// deploy, convert) are built on.
//
// All methods are thread-safe.
type Collection[P any] struct {
	ids    *Allocator
	store  *Store[P]
	runner *Runner[P]
	fields SearchFields[P]
	logger Logger
}

// NewCollection creates a collection from the given options.
func NewCollection[P any](opts Options[P]) *Collection[P] {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	store := NewStore[P](opts.Seed...)
	if opts.OnChange != nil {
		store.SetOnChange(opts.OnChange)
	}
	return &Collection[P]{
		ids:    NewAllocator(store.MaxID()),
		store:  store,
		runner: NewRunner[P](store, opts.Clock, logger),
		fields: opts.SearchFields,
		logger: logger,
	}
}

// Create allocates a fresh id, inserts the entity at the front of the
// collection, and returns it.
func (c *Collection[P]) Create(payload P, status Status, progress int) Entity[P] {
	e := Entity[P]{
		ID:        c.ids.Next(),
		Payload:   payload,
		Status:    status,
		Progress:  progress,
		CreatedAt: time.Now().UTC(),
	}
	c.store.InsertFront(e)
	return e
}

// CreateAndStart creates an entity and immediately starts a simulated run
// for it.
func (c *Collection[P]) CreateAndStart(payload P, status Status, progress int, cfg RunConfig[P]) Entity[P] {
	e := c.Create(payload, status, progress)
	c.runner.Start(e.ID, cfg)
	return e
}

// Start begins (or restarts, replacing any in-flight run) a simulated run
// for an existing entity. Reports false without starting anything when the
// id is unknown.
func (c *Collection[P]) Start(id int64, cfg RunConfig[P]) bool {
	if !c.store.Contains(id) {
		return false
	}
	c.runner.Start(id, cfg)
	return true
}

// Get returns a copy of the entity with the given id.
func (c *Collection[P]) Get(id int64) (Entity[P], bool) {
	return c.store.Get(id)
}

// List returns an ordered snapshot of all entities.
func (c *Collection[P]) List() []Entity[P] {
	return c.store.List()
}

// Project returns the entities matching the query, preserving order.
func (c *Collection[P]) Project(q Query) []Entity[P] {
	return Project(c.store.List(), q, c.fields)
}

// Update applies a patch to an entity. Reports false when the id is
// unknown; that case is a silent no-op.
func (c *Collection[P]) Update(id int64, patch Patch[P]) bool {
	return c.store.Update(id, patch)
}

// Cancel stops an in-flight run and applies the cancellation patch.
// Progress stays frozen at its last value unless the patch moves it.
// Returns false, touching nothing, when no run is active for the id.
func (c *Collection[P]) Cancel(id int64, patch Patch[P]) bool {
	return c.runner.Cancel(id, patch)
}

// Remove discards any in-flight run for the id and deletes the entity.
// Removal wins over the run: a timer that already fired sees the entity
// gone and drops its update.
func (c *Collection[P]) Remove(id int64) bool {
	c.runner.Discard(id)
	return c.store.Remove(id)
}

// Running reports whether the entity has an in-flight simulated run.
func (c *Collection[P]) Running(id int64) bool {
	return c.runner.Active(id)
}

// Len returns the number of entities in the collection.
func (c *Collection[P]) Len() int {
	return c.store.Len()
}

// Shutdown cancels all in-flight runs. Entity data is left as-is.
func (c *Collection[P]) Shutdown() {
	c.runner.Shutdown()
}
