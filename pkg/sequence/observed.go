package sequence

import (
	"iter"

	"github.com/aretw0/indexseq/pkg/core"
)

// Observed is a view of a sequence whose mutators notify a fixed list of observers.
//
// Each mutation is committed first. Observers are then called in order; if one
// fails the rest are skipped and the call returns an error matching
// core.ErrObserverFailure, with the mutation still in place.
type Observed[T any] struct {
	seq       *Sequence[T]
	observers []core.Observer[T]
}

// Sequence returns the observed sequence.
func (o *Observed[T]) Sequence() *Sequence[T] { return o.seq }

func (o *Observed[T]) Append(items ...T) error {
	return o.seq.append(items, o.observers)
}

func (o *Observed[T]) AppendAll(src iter.Seq[T]) error {
	return o.seq.append(core.Collect(src), o.observers)
}

func (o *Observed[T]) Prepend(items ...T) error {
	return o.seq.prepend(items, o.observers)
}

func (o *Observed[T]) PrependAll(src iter.Seq[T]) error {
	return o.seq.prepend(core.Collect(src), o.observers)
}

func (o *Observed[T]) Insert(i int, items ...T) error {
	return o.seq.insert(i, items, o.observers)
}

func (o *Observed[T]) InsertAll(i int, src iter.Seq[T]) error {
	return o.seq.insert(i, core.Collect(src), o.observers)
}

func (o *Observed[T]) Replace(i int, item T) (T, error) {
	return o.seq.replace(i, item, o.observers)
}

func (o *Observed[T]) RemoveFirst() (T, error) {
	return o.seq.removeFirst(o.observers)
}

func (o *Observed[T]) RemoveLast() (T, error) {
	return o.seq.removeAt(o.seq.LastIndex(), o.observers)
}

func (o *Observed[T]) RemoveAt(i int) (T, error) {
	return o.seq.removeAt(i, o.observers)
}

func (o *Observed[T]) RemoveFunc(match func(T) bool) (int, T, error) {
	return o.seq.removeFunc(match, o.observers)
}

// Clear removes every item, reporting each one as removed at the index it had.
func (o *Observed[T]) Clear() error {
	return o.seq.clear(o.observers)
}
