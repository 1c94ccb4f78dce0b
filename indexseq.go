package indexseq

import (
	"log/slog"

	"github.com/aretw0/indexseq/internal/platform"
	"github.com/aretw0/indexseq/pkg/capacity"
	"github.com/aretw0/indexseq/pkg/core"
	"github.com/aretw0/indexseq/pkg/sequence"
)

// --- Types ---

// Sequence is a public alias for sequence.Sequence.
type Sequence[T any] = sequence.Sequence[T]

// NonEmpty is a public alias for sequence.NonEmpty.
type NonEmpty[T any] = sequence.NonEmpty[T]

// Traverser is a public alias for sequence.Traverser.
type Traverser[T any] = sequence.Traverser[T]

// Observer is a public alias for core.Observer.
type Observer[T any] = core.Observer[T]

// ObserverFunc is a public alias for core.ObserverFunc.
type ObserverFunc[T any] = core.ObserverFunc[T]

// Change is a public alias for core.Change.
type Change[T any] = core.Change[T]

// Strategy is a public alias for capacity.Strategy.
type Strategy = capacity.Strategy

// --- Errors ---

var (
	ErrInvalidIndexRange    = core.ErrInvalidIndexRange
	ErrIndexOutOfRange      = core.ErrIndexOutOfRange
	ErrItemNotFound         = core.ErrItemNotFound
	ErrSoleItemNotRemovable = core.ErrSoleItemNotRemovable
	ErrInvalidCapacity      = core.ErrInvalidCapacity
	ErrNoNextItem           = core.ErrNoNextItem
	ErrNoPreviousItem       = core.ErrNoPreviousItem
	ErrNoItemToReplace      = core.ErrNoItemToReplace
	ErrNoItemToRemove       = core.ErrNoItemToRemove
	ErrStaleTraverser       = core.ErrStaleTraverser
	ErrObserverFailure      = core.ErrObserverFailure
)

// --- Configuration ---

// Option defines a functional option for configuring a sequence.
type Option = platform.Option

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStrategy selects the capacity strategy (default Amortized).
func WithStrategy(s Strategy) Option {
	return platform.WithStrategy(s)
}

// WithCapacity preallocates n slots.
func WithCapacity(n int) Option {
	return platform.WithCapacity(n)
}

// WithFirstIndex sets the logical index of the first item.
func WithFirstIndex(i int) Option {
	return platform.WithFirstIndex(i)
}

// --- Factory ---

// New creates an empty sequence.
func New[T any](opts ...Option) *Sequence[T] {
	return platform.New[T](nil, opts...)
}

// Of creates a sequence holding a copy of items.
func Of[T any](items []T, opts ...Option) *Sequence[T] {
	return platform.New(items, opts...)
}

// NewRange creates a sequence of zero values covering [first, last].
func NewRange[T any](first, last int, opts ...Option) (*Sequence[T], error) {
	return platform.NewRange[T](first, last, opts...)
}

// NewNonEmpty creates a sequence that always keeps at least one item.
func NewNonEmpty[T any](first T, rest []T, opts ...Option) *NonEmpty[T] {
	return platform.NewNonEmpty(first, rest, opts...)
}

// --- Helpers ---

// RemoveByValue removes the first item equal to v from s.
func RemoveByValue[T comparable](s sequence.Remover[T], v T) (int, error) {
	return sequence.RemoveByValue(s, v)
}
