package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/indexseq/pkg/core"
)

// ErrSourceStarted is returned by Start on a source that is already running.
var ErrSourceStarted = errors.New("source already started")

// bridge relays emitter events to lifecycle consumers. A core.Event already
// satisfies lifecycle.Event, so values pass through unchanged.
type bridge struct {
	in      <-chan core.Event
	out     chan lifecycle.Event
	started atomic.Bool
}

// NewSource exposes an emitter channel as a lifecycle.Source. Its Events
// channel closes once events is closed or the start context ends.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &bridge{in: events, out: make(chan lifecycle.Event)}
}

func (b *bridge) Events() <-chan lifecycle.Event {
	return b.out
}

// Start launches the relay. A source can be started once.
func (b *bridge) Start(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return ErrSourceStarted
	}
	lifecycle.Go(ctx, b.relay)
	return nil
}

func (b *bridge) relay(ctx context.Context) error {
	defer close(b.out)
	for {
		var (
			e  core.Event
			ok bool
		)
		select {
		case <-ctx.Done():
			return nil
		case e, ok = <-b.in:
		}
		if !ok || !b.forward(ctx, e) {
			return nil
		}
	}
}

// forward hands e to the consumer and reports false if ctx ended first.
func (b *bridge) forward(ctx context.Context, e core.Event) bool {
	select {
	case b.out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}
