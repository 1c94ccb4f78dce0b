// Package core holds the domain types shared by the sequence, its storage and
// its observers: the error taxonomy, mutation changes and events.
package core

import (
	"fmt"
	"time"
)

// EventType represents the kind of a committed mutation.
type EventType string

const (
	EventInsert  EventType = "INSERT"
	EventRemove  EventType = "REMOVE"
	EventReplace EventType = "REPLACE"
)

// Change describes one item affected by a committed mutation.
// Old is meaningful for EventRemove and EventReplace, New for EventInsert and EventReplace.
type Change[T any] struct {
	Kind  EventType
	Index int // logical index of the item at the time of the mutation
	Old   T
	New   T
}

// Event is the type-erased form of a Change, suitable for channels and logs.
func (c Change[T]) Event() Event {
	return Event{
		Type:      c.Kind,
		Index:     c.Index,
		Timestamp: time.Now().Unix(),
	}
}

// Observer is notified after a mutation has been committed.
// Returning an error does not undo the mutation.
type Observer[T any] interface {
	Observe(c Change[T]) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[T any] func(c Change[T]) error

// Observe calls f(c).
func (f ObserverFunc[T]) Observe(c Change[T]) error {
	return f(c)
}

// Event represents a change in a sequence.
type Event struct {
	Type      EventType
	Index     int
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%d", e.Type, e.Index)
}
