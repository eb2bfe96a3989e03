package lifecycle

import "sync"

// Store is an ordered in-memory collection of entities of one payload type.
// Insertion order is preserved; new entities go to the front (the dashboard
// shows newest first).
//
// The Store is the single source of truth for entity data. All reads return
// value copies, so callers can never mutate the Store through a snapshot.
//
// All methods are thread-safe and non-blocking, safe to call from timer
// callbacks.
type Store[P any] struct {
	mu       sync.RWMutex
	entities []Entity[P]

	// onChange, when set, is invoked after every successful mutation with
	// a copy of the affected entity. It is called outside the store lock,
	// so the callback may freely read back from the store. Set it before
	// the store is shared between goroutines.
	onChange func(kind ChangeKind, e Entity[P])
}

// ChangeKind labels a store mutation for change observers.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// NewStore creates a store preloaded with the given entities in order.
func NewStore[P any](seed ...Entity[P]) *Store[P] {
	s := &Store[P]{}
	s.entities = append(s.entities, seed...)
	return s
}

// InsertFront adds an entity at the front of the collection. Prior order is
// preserved behind it. The caller is responsible for id uniqueness (ids come
// from an Allocator).
func (s *Store[P]) InsertFront(e Entity[P]) {
	s.mu.Lock()
	s.entities = append([]Entity[P]{e}, s.entities...)
	s.mu.Unlock()

	s.notify(ChangeCreated, e)
}

// SetOnChange installs the mutation observer. Must be called before the
// store is shared between goroutines.
func (s *Store[P]) SetOnChange(fn func(kind ChangeKind, e Entity[P])) {
	s.onChange = fn
}

func (s *Store[P]) notify(kind ChangeKind, e Entity[P]) {
	if s.onChange != nil {
		s.onChange(kind, e)
	}
}

// Update applies a patch to the entity with the given id and reports whether
// it was found. A missing id is a silent no-op, not an error: a run may
// complete after its entity was deleted, and that race must be absorbed.
func (s *Store[P]) Update(id int64, patch Patch[P]) bool {
	s.mu.Lock()
	for i := range s.entities {
		if s.entities[i].ID == id {
			patch(&s.entities[i])
			after := s.entities[i]
			s.mu.Unlock()
			s.notify(ChangeUpdated, after)
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// Remove deletes the entity with the given id, preserving the order of the
// remaining entities. Reports whether an entity was removed.
func (s *Store[P]) Remove(id int64) bool {
	s.mu.Lock()
	for i := range s.entities {
		if s.entities[i].ID == id {
			removed := s.entities[i]
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			s.mu.Unlock()
			s.notify(ChangeRemoved, removed)
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// Get returns a copy of the entity with the given id.
func (s *Store[P]) Get(id int64) (Entity[P], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.entities {
		if s.entities[i].ID == id {
			return s.entities[i], true
		}
	}
	var zero Entity[P]
	return zero, false
}

// Contains reports whether an entity with the given id exists.
func (s *Store[P]) Contains(id int64) bool {
	_, ok := s.Get(id)
	return ok
}

// List returns an ordered snapshot of the full collection. Mutating the
// returned slice does not affect the store.
func (s *Store[P]) List() []Entity[P] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entity[P], len(s.entities))
	copy(out, s.entities)
	return out
}

// Len returns the number of entities in the store.
func (s *Store[P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// MaxID returns the largest entity id currently in the store, or 0 when the
// store is empty. Used to seed allocators above preloaded data.
func (s *Store[P]) MaxID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max int64
	for i := range s.entities {
		if s.entities[i].ID > max {
			max = s.entities[i].ID
		}
	}
	return max
}
