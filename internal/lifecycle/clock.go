package lifecycle

import (
	"sort"
	"sync"
	"time"
)

// Clock is the scheduling primitive the engine consumes: single-shot timers
// with cancellation. Repeating steps are built by rescheduling from inside
// the callback, which keeps exactly one outstanding timer per run handle.
type Clock interface {
	// Schedule runs fn after delay. The returned function cancels the
	// pending callback; cancelling after fn has started is a no-op.
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// realClock schedules on the process wall clock.
type realClock struct{}

// NewClock returns the wall-clock implementation used in production.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

// ManualClock is a deterministic Clock for tests. Scheduled callbacks fire
// only when Advance moves the virtual time past their deadline, on the
// calling goroutine, so tests never sleep and never race.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	nextSeq int
	pending []*manualTimer
}

type manualTimer struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// NewManualClock creates a manual clock at virtual time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Schedule implements Clock.
func (c *ManualClock) Schedule(delay time.Duration, fn func()) func() {
	c.mu.Lock()
	t := &manualTimer{at: c.now + delay, seq: c.nextSeq, fn: fn}
	c.nextSeq++
	c.pending = append(c.pending, t)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		t.cancelled = true
		c.mu.Unlock()
	}
}

// Advance moves virtual time forward and fires every due callback in
// deadline order. Callbacks may schedule further timers; those fire too if
// they fall within the advanced window (so one Advance can drive a whole
// repeating run to completion).
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		t := c.popDueLocked(target)
		if t == nil {
			break
		}
		c.now = t.at
		c.mu.Unlock()
		t.fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// popDueLocked removes and returns the earliest live timer due at or before
// target, or nil if none remain.
func (c *ManualClock) popDueLocked(target time.Duration) *manualTimer {
	live := c.pending[:0]
	for _, t := range c.pending {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	c.pending = live
	if len(c.pending) == 0 {
		return nil
	}

	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})

	if c.pending[0].at > target {
		return nil
	}
	t := c.pending[0]
	c.pending = c.pending[1:]
	return t
}

// PendingCount returns the number of live scheduled callbacks.
func (c *ManualClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}
