package sequence

import (
	"github.com/aretw0/introspection"
)

// SequenceState exposes internal state for observability.
type SequenceState struct {
	FirstIndex    int    `json:"first_index"`
	LastIndex     int    `json:"last_index"`
	Size          int    `json:"size"`
	Capacity      int    `json:"capacity"`
	OccupiedStart int    `json:"occupied_start"`
	Generation    uint64 `json:"generation"`
	Strategy      string `json:"strategy"`
	Reallocations int    `json:"reallocations"`
	Moves         int    `json:"moves"`
	MinSize       int    `json:"min_size"`
}

// State implements introspection.Introspectable.
func (s *Sequence[T]) State() any {
	stats := s.store.Stats()
	return SequenceState{
		FirstIndex:    s.first,
		LastIndex:     s.LastIndex(),
		Size:          s.store.Count(),
		Capacity:      s.store.Cap(),
		OccupiedStart: s.store.Start(),
		Generation:    s.generation,
		Strategy:      s.store.Strategy().String(),
		Reallocations: stats.Reallocations,
		Moves:         stats.Moves,
		MinSize:       s.minSize,
	}
}

// ComponentType implements introspection.Component.
func (s *Sequence[T]) ComponentType() string {
	return "sequence"
}

// TraverserState exposes the cursor of a traverser.
type TraverserState struct {
	Cursor       int    `json:"cursor"`
	LastReturned *int   `json:"last_returned,omitempty"`
	Stale        bool   `json:"stale"`
	Generation   uint64 `json:"generation"`
}

// State implements introspection.Introspectable.
func (t *Traverser[T]) State() any {
	st := TraverserState{
		Cursor:     t.cursor,
		Stale:      !t.Valid(),
		Generation: t.generation,
	}
	if t.hasLast {
		last := t.last
		st.LastReturned = &last
	}
	return st
}

// ComponentType implements introspection.Component.
func (t *Traverser[T]) ComponentType() string {
	return "traverser"
}

var _ introspection.Introspectable = (*Sequence[int])(nil)
var _ introspection.Component = (*Sequence[int])(nil)
var _ introspection.Introspectable = (*Traverser[int])(nil)
var _ introspection.Component = (*Traverser[int])(nil)
var _ introspection.Introspectable = (*NonEmpty[int])(nil)
