package sequence

import (
	"fmt"

	"github.com/aretw0/indexseq/pkg/core"
	"github.com/aretw0/indexseq/pkg/observe"
)

// Traverser is a bidirectional cursor over one sequence.
//
// The cursor sits between items: Next returns the item at the cursor and moves
// past it, Previous moves back and returns the item it crosses. Structural
// changes made through the traverser keep it in step; any other structural
// change to the sequence makes it stale, and every later operation fails with
// core.ErrStaleTraverser.
type Traverser[T any] struct {
	seq        *Sequence[T]
	cursor     int
	last       int
	hasLast    bool
	generation uint64
}

// Traverser returns a traverser positioned before the first item.
func (s *Sequence[T]) Traverser() *Traverser[T] {
	return s.traverser(s.first)
}

// TraverserEnd returns a traverser positioned after the last item.
func (s *Sequence[T]) TraverserEnd() *Traverser[T] {
	return s.traverser(s.LastIndex() + 1)
}

// TraverserAt returns a traverser whose next item is the one at logical index i.
// i may be LastIndex()+1.
func (s *Sequence[T]) TraverserAt(i int) (*Traverser[T], error) {
	if i < s.first || i > s.LastIndex()+1 {
		return nil, core.OutOfRange(i, s.first, s.LastIndex()+1)
	}
	return s.traverser(i), nil
}

func (s *Sequence[T]) traverser(cursor int) *Traverser[T] {
	return &Traverser[T]{seq: s, cursor: cursor, generation: s.generation}
}

// Valid reports whether the sequence is unchanged since the traverser last touched it.
func (t *Traverser[T]) Valid() bool {
	return t.generation == t.seq.generation
}

func (t *Traverser[T]) check() error {
	if !t.Valid() {
		return fmt.Errorf("%w: sequence changed outside this traverser", core.ErrStaleTraverser)
	}
	return nil
}

// Cursor returns the logical index of the item Next would return.
func (t *Traverser[T]) Cursor() int { return t.cursor }

// HasNext reports whether Next would succeed. It is false on a stale traverser.
func (t *Traverser[T]) HasNext() bool {
	return t.Valid() && t.cursor <= t.seq.LastIndex()
}

// HasPrevious reports whether Previous would succeed. It is false on a stale traverser.
func (t *Traverser[T]) HasPrevious() bool {
	return t.Valid() && t.cursor > t.seq.first
}

// Next returns the item at the cursor and advances past it.
func (t *Traverser[T]) Next() (T, error) {
	var zero T
	if err := t.check(); err != nil {
		return zero, err
	}
	if t.cursor > t.seq.LastIndex() {
		return zero, fmt.Errorf("%w: cursor %d is past last index %d", core.ErrNoNextItem, t.cursor, t.seq.LastIndex())
	}
	v, err := t.seq.Get(t.cursor)
	if err != nil {
		return zero, err
	}
	t.last, t.hasLast = t.cursor, true
	t.cursor++
	return v, nil
}

// Previous steps the cursor back and returns the item it crossed.
func (t *Traverser[T]) Previous() (T, error) {
	var zero T
	if err := t.check(); err != nil {
		return zero, err
	}
	if t.cursor <= t.seq.first {
		return zero, fmt.Errorf("%w: cursor %d is at first index %d", core.ErrNoPreviousItem, t.cursor, t.seq.first)
	}
	v, err := t.seq.Get(t.cursor - 1)
	if err != nil {
		return zero, err
	}
	t.cursor--
	t.last, t.hasLast = t.cursor, true
	return v, nil
}

// ReplaceLast overwrites the item last returned by Next or Previous.
func (t *Traverser[T]) ReplaceLast(item T) (T, error) {
	return t.replaceLast(item, nil)
}

// Insert places item before the cursor. The cursor moves past it, so Next
// does not return it, and there is no last returned item afterwards.
func (t *Traverser[T]) Insert(item T) error {
	return t.insert(item, nil)
}

// RemoveLast removes the item last returned by Next or Previous. The cursor
// keeps pointing at the same successor.
func (t *Traverser[T]) RemoveLast() (T, error) {
	return t.removeLast(nil)
}

// Observe returns a view whose mutators notify observers after each change.
func (t *Traverser[T]) Observe(observers ...core.Observer[T]) *ObservedTraverser[T] {
	return &ObservedTraverser[T]{t: t, observers: observers}
}

func (t *Traverser[T]) replaceLast(item T, observers []core.Observer[T]) (T, error) {
	var zero T
	if err := t.check(); err != nil {
		return zero, err
	}
	if !t.hasLast {
		return zero, fmt.Errorf("%w: call Next or Previous first", core.ErrNoItemToReplace)
	}
	return t.seq.replace(t.last, item, observers)
}

func (t *Traverser[T]) insert(item T, observers []core.Observer[T]) error {
	if err := t.check(); err != nil {
		return err
	}
	_, err := observe.Apply(observers, func() (struct{}, []core.Change[T], error) {
		at := t.cursor
		items := []T{item}
		if err := t.seq.insertAt(at, items); err != nil {
			return struct{}{}, nil, err
		}
		t.cursor++
		t.hasLast = false
		t.generation = t.seq.generation
		return struct{}{}, inserted(observers, at, items), nil
	})
	return err
}

func (t *Traverser[T]) removeLast(observers []core.Observer[T]) (T, error) {
	var zero T
	if err := t.check(); err != nil {
		return zero, err
	}
	if !t.hasLast {
		return zero, fmt.Errorf("%w: call Next or Previous first", core.ErrNoItemToRemove)
	}
	return observe.Apply(observers, func() (T, []core.Change[T], error) {
		at := t.last
		old, err := t.seq.take(at)
		if err != nil {
			return old, nil, err
		}
		if at < t.cursor {
			t.cursor--
		}
		t.hasLast = false
		t.generation = t.seq.generation
		return old, removed(observers, at, old), nil
	})
}

// ObservedTraverser is a view of a traverser whose mutators notify observers.
// A failing observer does not undo the change nor desynchronise the traverser.
type ObservedTraverser[T any] struct {
	t         *Traverser[T]
	observers []core.Observer[T]
}

// Traverser returns the underlying traverser.
func (o *ObservedTraverser[T]) Traverser() *Traverser[T] { return o.t }

func (o *ObservedTraverser[T]) ReplaceLast(item T) (T, error) {
	return o.t.replaceLast(item, o.observers)
}

func (o *ObservedTraverser[T]) Insert(item T) error {
	return o.t.insert(item, o.observers)
}

func (o *ObservedTraverser[T]) RemoveLast() (T, error) {
	return o.t.removeLast(o.observers)
}
