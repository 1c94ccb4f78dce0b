package sequence

import (
	"iter"

	"github.com/aretw0/indexseq/pkg/core"
)

// NonEmpty is a sequence that always holds at least one item.
//
// It has no Clear, and any removal that would leave it empty fails with
// core.ErrSoleItemNotRemovable, through its own methods as well as through
// its traversers and observed views.
type NonEmpty[T any] struct {
	seq *Sequence[T]
}

// NewNonEmpty creates a non-empty sequence starting with first.
func NewNonEmpty[T any](cfg Config, first T, rest ...T) *NonEmpty[T] {
	items := make([]T, 0, 1+len(rest))
	items = append(items, first)
	items = append(items, rest...)

	s := New(cfg, items...)
	s.minSize = 1
	return &NonEmpty[T]{seq: s}
}

// First returns the first item.
func (n *NonEmpty[T]) First() T { return n.seq.store.Slots()[0] }

// Last returns the last item.
func (n *NonEmpty[T]) Last() T {
	slots := n.seq.store.Slots()
	return slots[len(slots)-1]
}

func (n *NonEmpty[T]) Size() int { return n.seq.Size() }
func (n *NonEmpty[T]) FirstIndex() int { return n.seq.FirstIndex() }
func (n *NonEmpty[T]) LastIndex() int { return n.seq.LastIndex() }
func (n *NonEmpty[T]) Capacity() int { return n.seq.Capacity() }

func (n *NonEmpty[T]) Get(i int) (T, error) { return n.seq.Get(i) }

func (n *NonEmpty[T]) Replace(i int, item T) (T, error) { return n.seq.Replace(i, item) }

func (n *NonEmpty[T]) Append(items ...T) error { return n.seq.Append(items...) }
func (n *NonEmpty[T]) AppendAll(src iter.Seq[T]) error { return n.seq.AppendAll(src) }
func (n *NonEmpty[T]) Prepend(items ...T) error { return n.seq.Prepend(items...) }
func (n *NonEmpty[T]) PrependAll(src iter.Seq[T]) error { return n.seq.PrependAll(src) }
func (n *NonEmpty[T]) Insert(i int, items ...T) error { return n.seq.Insert(i, items...) }
func (n *NonEmpty[T]) InsertAll(i int, src iter.Seq[T]) error { return n.seq.InsertAll(i, src) }

func (n *NonEmpty[T]) RemoveFirst() (T, error) { return n.seq.RemoveFirst() }
func (n *NonEmpty[T]) RemoveLast() (T, error) { return n.seq.RemoveLast() }
func (n *NonEmpty[T]) RemoveAt(i int) (T, error) { return n.seq.RemoveAt(i) }

func (n *NonEmpty[T]) RemoveFunc(match func(T) bool) (int, T, error) {
	return n.seq.RemoveFunc(match)
}

func (n *NonEmpty[T]) Index(match func(T) bool) (int, bool) { return n.seq.Index(match) }
func (n *NonEmpty[T]) Values() []T { return n.seq.Values() }
func (n *NonEmpty[T]) All() iter.Seq2[int, T] { return n.seq.All() }
func (n *NonEmpty[T]) Backward() iter.Seq2[int, T] { return n.seq.Backward() }
func (n *NonEmpty[T]) Compact() { n.seq.Compact() }

// Clone returns an independent non-empty copy.
func (n *NonEmpty[T]) Clone() *NonEmpty[T] {
	return &NonEmpty[T]{seq: n.seq.Clone()}
}

// Observe returns a view whose mutators notify observers after each change.
func (n *NonEmpty[T]) Observe(observers ...core.Observer[T]) *ObservedNonEmpty[T] {
	return &ObservedNonEmpty[T]{n: n, o: Observed[T]{seq: n.seq, observers: observers}}
}

func (n *NonEmpty[T]) Traverser() *Traverser[T] { return n.seq.Traverser() }

func (n *NonEmpty[T]) TraverserAt(i int) (*Traverser[T], error) { return n.seq.TraverserAt(i) }

func (n *NonEmpty[T]) TraverserEnd() *Traverser[T] { return n.seq.TraverserEnd() }

// State implements introspection.Introspectable.
func (n *NonEmpty[T]) State() any { return n.seq.State() }

// ComponentType implements introspection.Component.
func (n *NonEmpty[T]) ComponentType() string { return "non-empty-sequence" }

// ObservedNonEmpty is the observed view of a NonEmpty. Like NonEmpty it has no
// Clear, and it gives no access to the sequence underneath.
type ObservedNonEmpty[T any] struct {
	n *NonEmpty[T]
	o Observed[T]
}

// NonEmpty returns the observed sequence.
func (v *ObservedNonEmpty[T]) NonEmpty() *NonEmpty[T] { return v.n }

func (v *ObservedNonEmpty[T]) Append(items ...T) error { return v.o.Append(items...) }
func (v *ObservedNonEmpty[T]) AppendAll(src iter.Seq[T]) error { return v.o.AppendAll(src) }
func (v *ObservedNonEmpty[T]) Prepend(items ...T) error { return v.o.Prepend(items...) }
func (v *ObservedNonEmpty[T]) PrependAll(src iter.Seq[T]) error { return v.o.PrependAll(src) }
func (v *ObservedNonEmpty[T]) Insert(i int, items ...T) error { return v.o.Insert(i, items...) }

func (v *ObservedNonEmpty[T]) InsertAll(i int, src iter.Seq[T]) error {
	return v.o.InsertAll(i, src)
}

func (v *ObservedNonEmpty[T]) Replace(i int, item T) (T, error) { return v.o.Replace(i, item) }
func (v *ObservedNonEmpty[T]) RemoveFirst() (T, error) { return v.o.RemoveFirst() }
func (v *ObservedNonEmpty[T]) RemoveLast() (T, error) { return v.o.RemoveLast() }
func (v *ObservedNonEmpty[T]) RemoveAt(i int) (T, error) { return v.o.RemoveAt(i) }

func (v *ObservedNonEmpty[T]) RemoveFunc(match func(T) bool) (int, T, error) {
	return v.o.RemoveFunc(match)
}
