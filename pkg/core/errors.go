package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidIndexRange    = errors.New("invalid index range")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrItemNotFound         = errors.New("item not found")
	ErrSoleItemNotRemovable = errors.New("sole item cannot be removed")
	ErrInvalidCapacity      = errors.New("invalid capacity")

	ErrNoNextItem      = errors.New("no next item")
	ErrNoPreviousItem  = errors.New("no previous item")
	ErrNoItemToReplace = errors.New("no item to replace")
	ErrNoItemToRemove  = errors.New("no item to remove")
	ErrStaleTraverser  = errors.New("traverser is stale")

	ErrObserverFailure = errors.New("observer failed")
)

// ObserverError reports an observer that failed after a mutation was committed.
// It matches ErrObserverFailure and the original cause with errors.Is.
type ObserverError struct {
	// Position of the failing observer in the list it was supplied in.
	Observer int
	Kind     EventType
	Index    int
	Err      error
}

func (e *ObserverError) Error() string {
	return fmt.Sprintf("%s: observer %d on %s at index %d: %v", ErrObserverFailure, e.Observer, e.Kind, e.Index, e.Err)
}

func (e *ObserverError) Unwrap() []error {
	return []error{ErrObserverFailure, e.Err}
}

// OutOfRange builds an ErrIndexOutOfRange error for index i against the inclusive window [lo, hi].
func OutOfRange(i, lo, hi int) error {
	if hi < lo {
		return fmt.Errorf("%w: index %d, sequence is empty", ErrIndexOutOfRange, i)
	}
	return fmt.Errorf("%w: index %d not in [%d, %d]", ErrIndexOutOfRange, i, lo, hi)
}
