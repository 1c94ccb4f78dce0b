package core

import (
	"iter"
	"slices"
)

// Items returns an item source over a fixed list.
func Items[T any](items ...T) iter.Seq[T] {
	return slices.Values(items)
}

// Collect drains a finite item source into a slice. A nil source yields nil.
func Collect[T any](src iter.Seq[T]) []T {
	if src == nil {
		return nil
	}
	return slices.Collect(src)
}
