// Package sequence provides an ordered, index-addressable container backed by
// a single growable buffer.
//
// Logical indices run over the inclusive window [FirstIndex, LastIndex] and may
// start at any integer. Appending grows LastIndex, prepending lowers FirstIndex,
// and removing the first item raises FirstIndex, so items keep their index when
// the opposite end changes. Positional inserts and removals shift the items
// that follow.
//
// A Sequence is meant for a single writer and performs no locking.
package sequence

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/aretw0/indexseq/pkg/capacity"
	"github.com/aretw0/indexseq/pkg/core"
	"github.com/aretw0/indexseq/pkg/observe"
	"github.com/aretw0/indexseq/pkg/storage"
)

// Config holds the construction parameters of a sequence.
type Config struct {
	FirstIndex int
	Capacity   int               // initial number of slots
	Strategy   capacity.Strategy // nil means capacity.Amortized
	Logger     *slog.Logger
}

// Sequence is an index-addressable container that may be empty.
type Sequence[T any] struct {
	store      *storage.Linear[T]
	first      int
	generation uint64
	minSize    int
	logger     *slog.Logger
}

// New creates a sequence holding a copy of items, the first at cfg.FirstIndex.
func New[T any](cfg Config, items ...T) *Sequence[T] {
	return &Sequence[T]{
		store:  storage.From(items, cfg.Capacity, cfg.Strategy),
		first:  cfg.FirstIndex,
		logger: cfg.Logger,
	}
}

// NewRange creates a sequence of zero-valued items covering [first, last].
// last == first-1 yields an empty sequence.
func NewRange[T any](cfg Config, first, last int) (*Sequence[T], error) {
	if last < first-1 {
		return nil, fmt.Errorf("%w: last index %d is below first index %d minus one", core.ErrInvalidIndexRange, last, first)
	}
	cfg.FirstIndex = first
	return New(cfg, make([]T, last-first+1)...), nil
}

// Size returns the number of items.
func (s *Sequence[T]) Size() int { return s.store.Count() }

// IsEmpty reports whether the sequence holds no items.
func (s *Sequence[T]) IsEmpty() bool { return s.store.Count() == 0 }

// FirstIndex returns the logical index of the first item.
func (s *Sequence[T]) FirstIndex() int { return s.first }

// LastIndex returns the logical index of the last item, FirstIndex()-1 when empty.
func (s *Sequence[T]) LastIndex() int { return s.first + s.store.Count() - 1 }

// Capacity returns the number of slots in the backing buffer.
func (s *Sequence[T]) Capacity() int { return s.store.Cap() }

func (s *Sequence[T]) checkIndex(i int) error {
	if i < s.first || i > s.LastIndex() {
		return core.OutOfRange(i, s.first, s.LastIndex())
	}
	return nil
}

// Get returns the item at logical index i.
func (s *Sequence[T]) Get(i int) (T, error) {
	if err := s.checkIndex(i); err != nil {
		var zero T
		return zero, err
	}
	return s.store.Get(s.position(i))
}

func (s *Sequence[T]) position(i int) int {
	return s.store.Start() + (i - s.first)
}

// Replace overwrites the item at logical index i and returns the previous one.
func (s *Sequence[T]) Replace(i int, item T) (T, error) {
	return s.replace(i, item, nil)
}

// Append adds items after the last one.
func (s *Sequence[T]) Append(items ...T) error {
	return s.append(items, nil)
}

// AppendAll adds every item produced by src after the last one.
func (s *Sequence[T]) AppendAll(src iter.Seq[T]) error {
	return s.append(core.Collect(src), nil)
}

// Prepend adds items before the first one, keeping their order.
func (s *Sequence[T]) Prepend(items ...T) error {
	return s.prepend(items, nil)
}

// PrependAll adds every item produced by src before the first one.
func (s *Sequence[T]) PrependAll(src iter.Seq[T]) error {
	return s.prepend(core.Collect(src), nil)
}

// Insert places items at logical index i, which may be LastIndex()+1.
// The item previously at i moves to i+len(items).
func (s *Sequence[T]) Insert(i int, items ...T) error {
	return s.insert(i, items, nil)
}

// InsertAll places every item produced by src at logical index i.
func (s *Sequence[T]) InsertAll(i int, src iter.Seq[T]) error {
	return s.insert(i, core.Collect(src), nil)
}

// RemoveFirst removes and returns the first item. FirstIndex grows by one.
func (s *Sequence[T]) RemoveFirst() (T, error) {
	return s.removeFirst(nil)
}

// RemoveLast removes and returns the last item.
func (s *Sequence[T]) RemoveLast() (T, error) {
	return s.removeAt(s.LastIndex(), nil)
}

// RemoveAt removes and returns the item at logical index i; later items shift down.
func (s *Sequence[T]) RemoveAt(i int) (T, error) {
	return s.removeAt(i, nil)
}

// RemoveFunc removes the first item matching match, as RemoveAt would.
// It returns the removed item and the index it had.
func (s *Sequence[T]) RemoveFunc(match func(T) bool) (int, T, error) {
	return s.removeFunc(match, nil)
}

// Clear removes every item. FirstIndex is kept.
func (s *Sequence[T]) Clear() {
	s.reset()
}

// Index returns the logical index of the first item matching match.
func (s *Sequence[T]) Index(match func(T) bool) (int, bool) {
	for k, v := range s.store.Slots() {
		if match(v) {
			return s.first + k, true
		}
	}
	return s.first - 1, false
}

// Values returns a copy of the items in logical order.
func (s *Sequence[T]) Values() []T {
	return slices.Clone(s.store.Slots())
}

// All yields logical index and item pairs from first to last.
// The sequence must not be changed structurally while ranging.
func (s *Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for k, v := range s.store.Slots() {
			if !yield(s.first+k, v) {
				return
			}
		}
	}
}

// Backward yields logical index and item pairs from last to first.
func (s *Sequence[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		slots := s.store.Slots()
		for k := len(slots) - 1; k >= 0; k-- {
			if !yield(s.first+k, slots[k]) {
				return
			}
		}
	}
}

// Clone returns an independent copy with the same index window.
// Items are copied by value.
func (s *Sequence[T]) Clone() *Sequence[T] {
	return &Sequence[T]{
		store:   s.store.Clone(),
		first:   s.first,
		minSize: s.minSize,
		logger:  s.logger,
	}
}

// Compact releases unused slots of the backing buffer.
func (s *Sequence[T]) Compact() {
	s.store.Compact()
}

// Observe returns a view whose mutators notify observers after each change.
func (s *Sequence[T]) Observe(observers ...core.Observer[T]) *Observed[T] {
	return &Observed[T]{seq: s, observers: observers}
}

// --- mutation primitives ---
//
// The primitives below commit a change and bump the generation. They never
// notify; the unexported wrappers further down run them through observe.Apply.

// open writes items into a hole at offset, relative to the first item.
func (s *Sequence[T]) open(offset int, items []T) error {
	if len(items) == 0 {
		return nil
	}
	before := s.store.Cap()
	pos, err := s.store.EnsureCapacity(s.store.Count()+len(items), offset, len(items))
	if err != nil {
		return err
	}
	copy(s.store.Slots()[pos-s.store.Start():], items)
	s.generation++

	if s.logger != nil && s.store.Cap() != before {
		s.logger.Debug("sequence storage reallocated",
			"from", before,
			"to", s.store.Cap(),
			"strategy", s.store.Strategy().String(),
		)
	}
	return nil
}

func (s *Sequence[T]) insertAt(i int, items []T) error {
	if i < s.first || i > s.LastIndex()+1 {
		return core.OutOfRange(i, s.first, s.LastIndex()+1)
	}
	return s.open(i-s.first, items)
}

func (s *Sequence[T]) checkRemovable(i int) error {
	if s.store.Count() == 0 {
		return core.OutOfRange(i, s.first, s.LastIndex())
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if s.store.Count() <= s.minSize {
		return fmt.Errorf("%w: sequence must keep at least %d item(s)", core.ErrSoleItemNotRemovable, s.minSize)
	}
	return nil
}

// take removes the item at logical index i; later items shift down.
func (s *Sequence[T]) take(i int) (T, error) {
	var zero T
	if err := s.checkRemovable(i); err != nil {
		return zero, err
	}
	offset := i - s.first
	old := s.store.Slots()[offset]
	if err := s.store.Remove(offset, 1); err != nil {
		return zero, err
	}
	s.generation++
	return old, nil
}

// reset drops every item. Only flavours without a minimum size reach it.
func (s *Sequence[T]) reset() {
	if s.store.Count() > 0 {
		s.store.Reset()
		s.generation++
	}
}

func (s *Sequence[T]) set(i int, item T) (T, error) {
	old, err := s.Get(i)
	if err != nil {
		return old, err
	}
	return old, s.store.Set(s.position(i), item)
}

// --- observed wrappers ---

func inserted[T any](observers []core.Observer[T], at int, items []T) []core.Change[T] {
	if len(observers) == 0 {
		return nil
	}
	changes := make([]core.Change[T], len(items))
	for k, v := range items {
		changes[k] = core.Change[T]{Kind: core.EventInsert, Index: at + k, New: v}
	}
	return changes
}

func removed[T any](observers []core.Observer[T], at int, old T) []core.Change[T] {
	if len(observers) == 0 {
		return nil
	}
	return []core.Change[T]{{Kind: core.EventRemove, Index: at, Old: old}}
}

func (s *Sequence[T]) append(items []T, observers []core.Observer[T]) error {
	_, err := observe.Apply(observers, func() (struct{}, []core.Change[T], error) {
		at := s.LastIndex() + 1
		if err := s.open(s.store.Count(), items); err != nil {
			return struct{}{}, nil, err
		}
		return struct{}{}, inserted(observers, at, items), nil
	})
	return err
}

func (s *Sequence[T]) prepend(items []T, observers []core.Observer[T]) error {
	_, err := observe.Apply(observers, func() (struct{}, []core.Change[T], error) {
		if err := s.open(0, items); err != nil {
			return struct{}{}, nil, err
		}
		s.first -= len(items)
		return struct{}{}, inserted(observers, s.first, items), nil
	})
	return err
}

func (s *Sequence[T]) insert(i int, items []T, observers []core.Observer[T]) error {
	_, err := observe.Apply(observers, func() (struct{}, []core.Change[T], error) {
		if err := s.insertAt(i, items); err != nil {
			return struct{}{}, nil, err
		}
		return struct{}{}, inserted(observers, i, items), nil
	})
	return err
}

func (s *Sequence[T]) replace(i int, item T, observers []core.Observer[T]) (T, error) {
	return observe.Apply(observers, func() (T, []core.Change[T], error) {
		old, err := s.set(i, item)
		if err != nil || len(observers) == 0 {
			return old, nil, err
		}
		return old, []core.Change[T]{{Kind: core.EventReplace, Index: i, Old: old, New: item}}, nil
	})
}

func (s *Sequence[T]) removeFirst(observers []core.Observer[T]) (T, error) {
	return observe.Apply(observers, func() (T, []core.Change[T], error) {
		at := s.first
		old, err := s.take(at)
		if err != nil {
			return old, nil, err
		}
		s.first++
		return old, removed(observers, at, old), nil
	})
}

func (s *Sequence[T]) removeAt(i int, observers []core.Observer[T]) (T, error) {
	return observe.Apply(observers, func() (T, []core.Change[T], error) {
		old, err := s.take(i)
		if err != nil {
			return old, nil, err
		}
		return old, removed(observers, i, old), nil
	})
}

type found[T any] struct {
	index int
	item  T
}

func (s *Sequence[T]) removeFunc(match func(T) bool, observers []core.Observer[T]) (int, T, error) {
	r, err := observe.Apply(observers, func() (found[T], []core.Change[T], error) {
		i, ok := s.Index(match)
		if !ok {
			return found[T]{index: i}, nil, fmt.Errorf("%w in [%d, %d]", core.ErrItemNotFound, s.first, s.LastIndex())
		}
		old, err := s.take(i)
		if err != nil {
			return found[T]{index: i}, nil, err
		}
		return found[T]{index: i, item: old}, removed(observers, i, old), nil
	})
	return r.index, r.item, err
}

func (s *Sequence[T]) clear(observers []core.Observer[T]) error {
	_, err := observe.Apply(observers, func() (struct{}, []core.Change[T], error) {
		var changes []core.Change[T]
		if len(observers) > 0 {
			for i, v := range s.All() {
				changes = append(changes, core.Change[T]{Kind: core.EventRemove, Index: i, Old: v})
			}
		}
		s.reset()
		return struct{}{}, changes, nil
	})
	return err
}

// Remover is implemented by every sequence flavour that supports value removal.
type Remover[T any] interface {
	RemoveFunc(match func(T) bool) (int, T, error)
}

// RemoveByValue removes the first item equal to v and returns the index it had.
// It fails with core.ErrItemNotFound, leaving r unchanged, when there is none.
func RemoveByValue[T comparable](r Remover[T], v T) (int, error) {
	i, _, err := r.RemoveFunc(func(item T) bool { return item == v })
	return i, err
}

// IndexOf returns the logical index of the first item equal to v.
func IndexOf[T comparable](s *Sequence[T], v T) (int, bool) {
	return s.Index(func(item T) bool { return item == v })
}

// Contains reports whether an item equal to v is present.
func Contains[T comparable](s *Sequence[T], v T) bool {
	_, ok := IndexOf(s, v)
	return ok
}
