package platform

import (
	"github.com/aretw0/indexseq/pkg/sequence"
)

// Config resolves opts into a sequence configuration.
func Config(opts ...Option) sequence.Config {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return sequence.Config{
		FirstIndex: o.firstIndex,
		Capacity:   o.capacity,
		Strategy:   o.strategy,
		Logger:     o.logger,
	}
}

// New creates a sequence holding items.
//
//	seq := platform.New([]string{"a", "b"}, platform.WithFirstIndex(1))
func New[T any](items []T, opts ...Option) *sequence.Sequence[T] {
	return sequence.New(Config(opts...), items...)
}

// NewRange creates a sequence of zero values covering [first, last].
// WithFirstIndex is ignored.
func NewRange[T any](first, last int, opts ...Option) (*sequence.Sequence[T], error) {
	return sequence.NewRange[T](Config(opts...), first, last)
}

// NewNonEmpty creates a sequence that can never become empty.
func NewNonEmpty[T any](first T, rest []T, opts ...Option) *sequence.NonEmpty[T] {
	return sequence.NewNonEmpty(Config(opts...), first, rest...)
}
