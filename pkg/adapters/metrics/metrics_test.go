package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/indexseq/pkg/core"
	"github.com/aretw0/indexseq/pkg/sequence"
)

func TestObserver_CountsByKind(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	s := sequence.New(sequence.Config{}, "a")
	o := s.Observe(Observer[string](c, "letters"))

	require.NoError(t, o.Append("b", "c"))
	_, err := o.Replace(0, "z")
	require.NoError(t, err)
	_, err = o.RemoveLast()
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Mutations.WithLabelValues("letters", "INSERT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Mutations.WithLabelValues("letters", "REPLACE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Mutations.WithLabelValues("letters", "REMOVE")))
}

func TestObserver_CountsBeforeFailingObserver(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	fail := core.ObserverFunc[int](func(core.Change[int]) error { return errors.New("nope") })
	s := sequence.New[int](sequence.Config{})

	err := s.Observe(Observer[int](c, "n"), fail).Append(1)
	require.ErrorIs(t, err, core.ErrObserverFailure)
	c.RecordFailure("n")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Mutations.WithLabelValues("n", "INSERT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ObserverFailures.WithLabelValues("n")))
}

func TestNewCollector_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
