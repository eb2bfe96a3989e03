package lifecycle

import "sync/atomic"

// Allocator issues unique, strictly increasing entity ids for one
// collection. Ids are unique for the lifetime of the process; there is no
// reuse even after entities are deleted.
//
// Thread Safety: Next may be called concurrently, including from timer
// callbacks completing a run while a user action allocates a replacement.
type Allocator struct {
	last atomic.Int64
}

// NewAllocator creates an allocator whose first Next() returns seed+1.
// Seed with the largest preloaded entity id (or 0 for an empty collection).
func NewAllocator(seed int64) *Allocator {
	a := &Allocator{}
	a.last.Store(seed)
	return a
}

// Next returns an id strictly greater than every id previously returned by
// this allocator.
func (a *Allocator) Next() int64 {
	return a.last.Add(1)
}

// Bump raises the allocator floor so future ids stay above id.
// No-op if id is not greater than the current floor.
func (a *Allocator) Bump(id int64) {
	for {
		cur := a.last.Load()
		if id <= cur {
			return
		}
		if a.last.CompareAndSwap(cur, id) {
			return
		}
	}
}
