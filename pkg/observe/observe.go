// Package observe implements commit-then-notify mutation observation.
//
// A mutation runs exactly once. Observers are told about it afterwards, in the
// order they were supplied; the first failing observer stops notification and
// its error reaches the caller, but the mutation stays committed. Observers
// have no veto.
package observe

import (
	"context"
	"log/slog"

	"github.com/aretw0/indexseq/pkg/core"
)

// Apply runs mutate once and then notifies observers of the changes it reports.
// An error from mutate means nothing was committed and nobody is notified.
func Apply[T, R any](observers []core.Observer[T], mutate func() (R, []core.Change[T], error)) (R, error) {
	result, changes, err := mutate()
	if err != nil {
		return result, err
	}
	if err := Notify(observers, changes); err != nil {
		return result, err
	}
	return result, nil
}

// Notify delivers changes observer by observer: every change goes to the first
// observer before the second hears of any.
func Notify[T any](observers []core.Observer[T], changes []core.Change[T]) error {
	for i, o := range observers {
		if o == nil {
			continue
		}
		for _, c := range changes {
			if err := o.Observe(c); err != nil {
				return &core.ObserverError{Observer: i, Kind: c.Kind, Index: c.Index, Err: err}
			}
		}
	}
	return nil
}

// Log returns an observer that writes every change to logger at debug level.
func Log[T any](logger *slog.Logger) core.Observer[T] {
	return core.ObserverFunc[T](func(c core.Change[T]) error {
		if logger == nil || !logger.Enabled(context.Background(), slog.LevelDebug) {
			return nil
		}
		attrs := []any{"kind", c.Kind, "index", c.Index}
		switch c.Kind {
		case core.EventInsert:
			attrs = append(attrs, "new", c.New)
		case core.EventRemove:
			attrs = append(attrs, "old", c.Old)
		case core.EventReplace:
			attrs = append(attrs, "old", c.Old, "new", c.New)
		}
		logger.Debug("sequence mutated", attrs...)
		return nil
	})
}
