// Package metrics counts sequence mutations with Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/indexseq/pkg/core"
)

const (
	namespace = "indexseq"
	subsystem = "sequence"
)

// Collector holds the mutation metrics shared by every observed sequence.
type Collector struct {
	// Mutations counts committed changes.
	// Labels: sequence (caller supplied name), kind (INSERT, REMOVE, REPLACE)
	Mutations *prometheus.CounterVec

	// ObserverFailures counts failures returned by observed operations.
	// Labels: sequence
	ObserverFailures *prometheus.CounterVec
}

// NewCollector registers the metrics on reg. A nil reg uses the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mutations_total",
			Help:      "Total committed sequence changes by kind",
		}, []string{"sequence", "kind"}),
		ObserverFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "observer_failures_total",
			Help:      "Total observed mutations that returned an observer failure",
		}, []string{"sequence"}),
	}
}

// RecordFailure counts an observer failure for the named sequence.
func (c *Collector) RecordFailure(name string) {
	c.ObserverFailures.WithLabelValues(name).Inc()
}

// Observer returns an observer counting the changes of the named sequence.
// It never fails.
func Observer[T any](c *Collector, name string) core.Observer[T] {
	return core.ObserverFunc[T](func(ch core.Change[T]) error {
		c.Mutations.WithLabelValues(name, string(ch.Kind)).Inc()
		return nil
	})
}
