package lifecycle

import (
	"math/rand"
	"sync"
	"time"
)

// Logger defines the logging interface used by the engine.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ProgressModel computes the next progress value from the previous one.
// Implementations need not clamp or enforce monotonicity; the Runner does
// both (max(prev, next) then clamp to [0,100]).
type ProgressModel interface {
	Next(prev int) int
}

type fixedStep int

func (f fixedStep) Next(prev int) int { return prev + int(f) }

// FixedStep returns a deterministic model advancing progress by n per tick.
// Used for deployment runs (+10 per tick) and single-shot operations
// (FixedStep(100): one tick straight to completion).
func FixedStep(n int) ProgressModel {
	return fixedStep(n)
}

type randomStep struct {
	max int
	rng *rand.Rand
}

func (r randomStep) Next(prev int) int {
	return prev + int(r.rng.Float64()*float64(r.max))
}

// RandomStep returns a model advancing progress by a uniform random amount
// in [0,max) per tick, so a run spans several ticks with uneven pacing.
// Pass a nil source to use a time-seeded one.
func RandomStep(max int, rng *rand.Rand) ProgressModel {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // simulation pacing, not security
	}
	return randomStep{max: max, rng: rng}
}

// RunConfig describes one simulated run: how often it ticks, how progress
// advances, and which patches each phase applies.
type RunConfig[P any] struct {
	// Interval is the fixed delay between steps. Each use site picks its
	// own (devices 3s single shot, deployments 300ms, conversions 500ms).
	Interval time.Duration

	// Step computes the next progress value. Defaults to FixedStep(100).
	Step ProgressModel

	// OnTick maps an intermediate progress value (always < 100) to the
	// patch applied for that step. Optional; the Runner writes the
	// progress field itself either way.
	OnTick func(progress int) Patch[P]

	// OnComplete returns the terminal patch applied when progress reaches
	// 100. Optional; the Runner snaps progress to 100 and sets
	// StatusSucceeded if no patch is given.
	OnComplete func() Patch[P]

	// OnDone is a one-shot side effect (typically a success notification)
	// fired exactly once after the completion patch is applied. It runs
	// outside the Runner's lock.
	OnDone func()
}

// runHandle is the cancellable reference to one entity's in-flight timer
// sequence. At most one live handle exists per entity id.
type runHandle struct {
	cancelTimer func()
	retired     bool
}

// Runner drives entities through timed status and progress updates,
// simulating long-running backend operations entirely in-process.
//
// The Runner owns only run handles; entity data lives in the Store and is
// read and written through it on every tick. All methods are thread-safe.
type Runner[P any] struct {
	store  *Store[P]
	clock  Clock
	logger Logger

	mu      sync.Mutex
	handles map[int64]*runHandle
}

// NewRunner creates a runner driving entities in the given store.
// A nil clock defaults to the wall clock; a nil logger is silenced.
func NewRunner[P any](store *Store[P], clock Clock, logger Logger) *Runner[P] {
	if clock == nil {
		clock = NewClock()
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Runner[P]{
		store:   store,
		clock:   clock,
		logger:  logger,
		handles: make(map[int64]*runHandle),
	}
}

// Start begins (or restarts) a simulated run for the entity with the given
// id. If a run is already active for that id, it is cancelled first: runs
// replace, they never stack, so two timers can never race on one entity.
func (r *Runner[P]) Start(id int64, cfg RunConfig[P]) {
	if cfg.Step == nil {
		cfg.Step = FixedStep(100)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}

	r.mu.Lock()
	if old, ok := r.handles[id]; ok {
		old.retire()
		r.logger.Debug("run replaced", "id", id)
	}
	h := &runHandle{}
	r.handles[id] = h
	h.cancelTimer = r.clock.Schedule(cfg.Interval, func() { r.tick(id, h, cfg) })
	r.mu.Unlock()

	r.logger.Debug("run started", "id", id, "interval_ms", cfg.Interval.Milliseconds())
}

// tick performs one scheduled step for a run.
func (r *Runner[P]) tick(id int64, h *runHandle, cfg RunConfig[P]) {
	var done func()

	r.mu.Lock()
	switch {
	case h.retired:
		// Cancelled or replaced between the timer firing and the lock.
	case !r.store.Contains(id):
		// Entity deleted mid-run: deletion always wins. Drop the tick and
		// retire the handle without touching the store.
		h.retired = true
		delete(r.handles, id)
		r.logger.Debug("run orphaned, entity deleted", "id", id)
	default:
		prev := 0
		if e, ok := r.store.Get(id); ok {
			prev = e.Progress
		}
		next := cfg.Step.Next(prev)
		if next < prev {
			next = prev
		}
		if next > 100 {
			next = 100
		}

		if next >= 100 {
			r.store.Update(id, func(e *Entity[P]) {
				e.Progress = 100
				e.Status = StatusSucceeded
				if cfg.OnComplete != nil {
					cfg.OnComplete()(e)
					e.Progress = 100
				}
			})
			h.retire()
			delete(r.handles, id)
			done = cfg.OnDone
			r.logger.Debug("run completed", "id", id)
		} else {
			r.store.Update(id, func(e *Entity[P]) {
				e.Progress = next
				if cfg.OnTick != nil {
					cfg.OnTick(next)(e)
				}
			})
			h.cancelTimer = r.clock.Schedule(cfg.Interval, func() { r.tick(id, h, cfg) })
		}
	}
	r.mu.Unlock()

	if done != nil {
		done()
	}
}

// Cancel retires the run for the given id, applies the caller's cancellation
// patch (typically status cancelled; progress is left frozen at its last
// value), and reports whether a run was actually cancelled. Cancelling an id
// with no active run is a no-op returning false, which makes Cancel
// idempotent.
func (r *Runner[P]) Cancel(id int64, patch Patch[P]) bool {
	r.mu.Lock()
	h, ok := r.handles[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	h.retire()
	delete(r.handles, id)
	if patch != nil {
		r.store.Update(id, patch)
	}
	r.mu.Unlock()

	r.logger.Debug("run cancelled", "id", id)
	return true
}

// Discard retires the run for the given id without applying any patch.
// Used when the entity itself is being removed: the store row is going
// away, so there is nothing to mark cancelled.
func (r *Runner[P]) Discard(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	if !ok {
		return false
	}
	h.retire()
	delete(r.handles, id)
	return true
}

// Active reports whether the given id has a live run handle.
func (r *Runner[P]) Active(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[id]
	return ok
}

// ActiveCount returns the number of live run handles.
func (r *Runner[P]) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Shutdown retires every live run handle. In-flight callbacks that already
// fired complete their current step; no subsequent ticks fire.
func (r *Runner[P]) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, h := range r.handles {
		h.retire()
		delete(r.handles, id)
	}
}

// retire marks the handle dead and stops its pending timer. Must be called
// with the runner lock held.
func (h *runHandle) retire() {
	h.retired = true
	if h.cancelTimer != nil {
		h.cancelTimer()
	}
}
