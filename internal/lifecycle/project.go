package lifecycle

import "strings"

// Query describes one projection pass over a list of entities.
//
// Search is a case-insensitive substring match against the fields extracted
// by the collection's SearchFields function; an empty string matches
// everything. Status narrows to an exact status; the empty status means no
// status filter. Both conditions must hold for an entity to appear in the
// result.
type Query struct {
	Search string
	Status Status
}

// SearchFields extracts the searchable text fields from a payload.
// Matching succeeds when any returned field contains the query substring.
type SearchFields[P any] func(p P) []string

// Project returns the entities matching the query, preserving the input
// order. The input slice is never mutated; a fresh slice is always
// returned, so callers can hold the result across later store writes.
func Project[P any](entities []Entity[P], q Query, fields SearchFields[P]) []Entity[P] {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Entity[P], 0, len(entities))
	for _, e := range entities {
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		if needle != "" && !matches(e.Payload, needle, fields) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matches[P any](p P, needle string, fields SearchFields[P]) bool {
	if fields == nil {
		return false
	}
	for _, f := range fields(p) {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
