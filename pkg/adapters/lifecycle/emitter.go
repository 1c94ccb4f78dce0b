// Package lifecycle connects sequence mutations to github.com/aretw0/lifecycle.
//
// An Emitter is an observer that turns every committed change into a
// core.Event on a buffered channel; NewSource exposes that channel as a
// lifecycle.Source.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/indexseq/pkg/core"
)

// DefaultBuffer is the channel size used when NewEmitter is given zero.
const DefaultBuffer = 100

// ErrBufferFull is returned by an Emitter whose channel has no free slot.
var ErrBufferFull = errors.New("event buffer full")

// ErrEmitterClosed is returned by an Emitter after Close.
var ErrEmitterClosed = errors.New("emitter closed")

// Emitter publishes changes as events. Used directly as an observer it never
// blocks the mutating caller: when the buffer is full the observer fails and
// the change stays committed. Blocking returns an observer that waits instead.
type Emitter[T any] struct {
	mu     sync.RWMutex
	events chan core.Event
	closed bool
}

// NewEmitter creates an emitter with a buffer of size events.
func NewEmitter[T any](size int) *Emitter[T] {
	if size <= 0 {
		size = DefaultBuffer
	}
	return &Emitter[T]{events: make(chan core.Event, size)}
}

// Events returns the receive side of the event channel.
func (e *Emitter[T]) Events() <-chan core.Event {
	return e.events
}

// Observe implements core.Observer.
func (e *Emitter[T]) Observe(c core.Change[T]) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return ErrEmitterClosed
	}
	select {
	case e.events <- c.Event():
		return nil
	default:
		return fmt.Errorf("%w: dropped %s", ErrBufferFull, c.Event())
	}
}

// Blocking returns an observer that waits for a free slot until ctx ends.
// A bulk mutation larger than the buffer then paces itself on the consumer.
func (e *Emitter[T]) Blocking(ctx context.Context) core.Observer[T] {
	return core.ObserverFunc[T](func(c core.Change[T]) error {
		e.mu.RLock()
		defer e.mu.RUnlock()

		if e.closed {
			return ErrEmitterClosed
		}
		ev := c.Event()
		select {
		case e.events <- ev:
			return nil
		default:
		}
		select {
		case e.events <- ev:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("dropped %s: %w", ev, ctx.Err())
		}
	})
}

// Close closes the event channel once no send is in flight.
// Later changes fail with ErrEmitterClosed.
func (e *Emitter[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.closed {
		e.closed = true
		close(e.events)
	}
}

var _ core.Observer[int] = (*Emitter[int])(nil)
