package platform

import (
	"log/slog"

	"github.com/aretw0/indexseq/pkg/capacity"
)

// options holds the internal configuration of a sequence.
type options struct {
	logger     *slog.Logger
	strategy   capacity.Strategy
	capacity   int
	firstIndex int
}

// Option defines a functional option for configuring a sequence.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		strategy: capacity.Amortized{},
	}
}

// WithLogger sets the logger used for storage diagnostics.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrategy selects the capacity strategy applied when the buffer grows.
// Defaults to capacity.Amortized. A nil strategy keeps the default.
func WithStrategy(s capacity.Strategy) Option {
	return func(o *options) {
		if s != nil {
			o.strategy = s
		}
	}
}

// WithCapacity preallocates n slots.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = max(n, 0)
	}
}

// WithFirstIndex sets the logical index of the first item. Defaults to 0.
func WithFirstIndex(i int) Option {
	return func(o *options) {
		o.firstIndex = i
	}
}
