package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/indexseq/pkg/core"
	"github.com/aretw0/indexseq/pkg/sequence"
)

func TestEmitter_PublishesChanges(t *testing.T) {
	em := NewEmitter[string](4)
	s := sequence.New(sequence.Config{FirstIndex: 1}, "a")
	o := s.Observe(em)

	require.NoError(t, o.Append("b"))
	_, err := o.RemoveFirst()
	require.NoError(t, err)

	got := []string{(<-em.Events()).String(), (<-em.Events()).String()}
	assert.Equal(t, []string{"INSERT@2", "REMOVE@1"}, got)
}

func TestEmitter_FullBuffer(t *testing.T) {
	em := NewEmitter[int](1)
	s := sequence.New[int](sequence.Config{})
	o := s.Observe(em)

	require.NoError(t, o.Append(1))
	err := o.Append(2)
	assert.ErrorIs(t, err, ErrBufferFull)
	assert.ErrorIs(t, err, core.ErrObserverFailure)
	assert.Equal(t, []int{1, 2}, s.Values())

	em.Close()
	em.Close()
	assert.ErrorIs(t, o.Append(3), ErrEmitterClosed)
}

func TestEmitter_BlockingWaitsForConsumer(t *testing.T) {
	em := NewEmitter[int](1)
	s := sequence.New[int](sequence.Config{})
	o := s.Observe(em.Blocking(context.Background()))

	got := make(chan []string)
	go func() {
		var seen []string
		for e := range em.Events() {
			time.Sleep(time.Millisecond)
			seen = append(seen, e.String())
		}
		got <- seen
	}()

	require.NoError(t, o.Append(1, 2, 3, 4, 5))
	em.Close()
	assert.Equal(t, []string{"INSERT@0", "INSERT@1", "INSERT@2", "INSERT@3", "INSERT@4"}, <-got)
	assert.ErrorIs(t, o.Append(6), ErrEmitterClosed)
}

func TestEmitter_BlockingStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	em := NewEmitter[int](1)
	s := sequence.New[int](sequence.Config{})
	o := s.Observe(em.Blocking(ctx))

	err := o.Append(1, 2)
	assert.ErrorIs(t, err, core.ErrObserverFailure)
	assert.ErrorIs(t, err, context.Canceled)

	var oe *core.ObserverError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, 1, oe.Index)
	assert.Equal(t, []int{1, 2}, s.Values())
	assert.Equal(t, "INSERT@0", (<-em.Events()).String())
}

func TestSource_StartsOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewSource(NewEmitter[string](0).Events())
	require.NoError(t, src.Start(ctx))
	assert.ErrorIs(t, src.Start(ctx), ErrSourceStarted)
}

func TestSource_Bridges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	em := NewEmitter[string](0)
	src := NewSource(em.Events())
	require.NoError(t, src.Start(ctx))

	require.NoError(t, sequence.New[string](sequence.Config{}).Observe(em).Append("x"))

	select {
	case e := <-src.Events():
		assert.Equal(t, "INSERT@0", e.String())
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for bridged event")
	}

	em.Close()
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after emitter")
	}
}
