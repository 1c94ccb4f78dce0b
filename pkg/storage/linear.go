// Package storage implements the contiguous backing buffer of a sequence.
//
// Linear knows nothing about logical indices: it deals in storage positions
// (slots of the buffer) and in offsets relative to the first occupied slot.
// It is not safe for concurrent use.
package storage

import (
	"fmt"

	"github.com/aretw0/indexseq/pkg/capacity"
	"github.com/aretw0/indexseq/pkg/core"
)

// Stats counts the work done by a Linear buffer over its lifetime.
type Stats struct {
	Reallocations int `json:"reallocations"`
	Moves         int `json:"moves"` // element copies, reallocations included
}

// Linear is a resizable buffer of which only [start, start+count) holds valid items.
type Linear[T any] struct {
	buf      []T
	start    int
	count    int
	strategy capacity.Strategy
	stats    Stats
}

// New creates an empty buffer with the given initial capacity.
// A nil strategy means capacity.Amortized.
func New[T any](initial int, s capacity.Strategy) *Linear[T] {
	if s == nil {
		s = capacity.Amortized{}
	}
	return &Linear[T]{
		buf:      make([]T, max(initial, 0)),
		strategy: s,
	}
}

// From creates a buffer holding a copy of items, with room for at least size slots.
func From[T any](items []T, size int, s capacity.Strategy) *Linear[T] {
	l := New[T](max(size, len(items)), s)
	copy(l.buf, items)
	l.count = len(items)
	return l
}

// Cap returns the number of slots in the buffer.
func (l *Linear[T]) Cap() int { return len(l.buf) }

// Start returns the storage position of the first occupied slot.
func (l *Linear[T]) Start() int { return l.start }

// Count returns the number of occupied slots.
func (l *Linear[T]) Count() int { return l.count }

// Strategy returns the capacity strategy used on reallocation.
func (l *Linear[T]) Strategy() capacity.Strategy { return l.strategy }

// Stats returns the reallocation and move counters.
func (l *Linear[T]) Stats() Stats { return l.stats }

// Slots returns the occupied slots. The slice aliases the buffer and is only
// valid until the next call that changes the layout.
func (l *Linear[T]) Slots() []T {
	return l.buf[l.start : l.start+l.count]
}

// Get returns the item at storage position pos.
func (l *Linear[T]) Get(pos int) (T, error) {
	if err := l.checkPosition(pos); err != nil {
		var zero T
		return zero, err
	}
	return l.buf[pos], nil
}

// Set overwrites the item at storage position pos.
func (l *Linear[T]) Set(pos int, item T) error {
	if err := l.checkPosition(pos); err != nil {
		return err
	}
	l.buf[pos] = item
	return nil
}

func (l *Linear[T]) checkPosition(pos int) error {
	if pos < l.start || pos >= l.start+l.count {
		return fmt.Errorf("%w: storage position %d not in [%d, %d)", core.ErrIndexOutOfRange, pos, l.start, l.start+l.count)
	}
	return nil
}

// EnsureCapacity makes room for required items and opens a hole of holeWidth
// zero-valued slots at holeOffset, relative to the occupied data.
// The hole becomes part of the occupied range; its storage position is returned.
//
// When the buffer is large enough the cheaper side of the data is shifted
// (ties shift the tail). If that side has no room, the data is re-centred
// inside the buffer. Otherwise a new buffer is planned by the strategy; on
// error the buffer is left untouched.
//
// Any call may move existing items to new storage positions, an append
// (holeOffset == Count) included. Values and their offsets from the first
// item are kept; callers must not hold on to raw positions across calls.
func (l *Linear[T]) EnsureCapacity(required, holeOffset, holeWidth int) (int, error) {
	if holeOffset < 0 || holeOffset > l.count {
		return 0, fmt.Errorf("%w: hole offset %d not in [0, %d]", core.ErrIndexOutOfRange, holeOffset, l.count)
	}
	if holeWidth < 0 {
		return 0, fmt.Errorf("%w: negative hole width %d", core.ErrInvalidCapacity, holeWidth)
	}
	if required < l.count+holeWidth {
		return 0, fmt.Errorf("%w: required %d cannot hold %d items plus a hole of %d", core.ErrInvalidCapacity, required, l.count, holeWidth)
	}
	if holeWidth == 0 && required <= len(l.buf) {
		return l.start + holeOffset, nil
	}

	if required <= len(l.buf) {
		return l.openInPlace(holeOffset, holeWidth), nil
	}

	layout, err := capacity.Plan(l.strategy, capacity.Request{
		Current:    len(l.buf),
		Count:      l.count,
		Required:   required,
		HoleOffset: holeOffset,
	})
	if err != nil {
		return 0, err
	}

	buf := make([]T, layout.Capacity)
	copy(buf[layout.Start:], l.buf[l.start:l.start+holeOffset])
	copy(buf[layout.Start+holeOffset+holeWidth:], l.buf[l.start+holeOffset:l.start+l.count])

	l.stats.Reallocations++
	l.stats.Moves += l.count
	l.buf = buf
	l.start = layout.Start
	l.count += holeWidth
	return l.start + holeOffset, nil
}

func (l *Linear[T]) openInPlace(offset, width int) int {
	front := l.start
	back := len(l.buf) - l.start - l.count
	head := offset
	tail := l.count - offset

	switch {
	case head < tail && front >= width:
		copy(l.buf[l.start-width:], l.buf[l.start:l.start+offset])
		l.stats.Moves += head
		l.start -= width
	case head >= tail && back >= width:
		copy(l.buf[l.start+offset+width:], l.buf[l.start+offset:l.start+l.count])
		l.stats.Moves += tail
	default:
		l.relocate(offset, width)
	}

	pos := l.start + offset
	clear(l.buf[pos : pos+width])
	l.count += width
	return pos
}

// relocate moves the data inside the current buffer so that the free room is
// laid out the way a fresh allocation would be, with the hole opened.
func (l *Linear[T]) relocate(offset, width int) {
	slack := len(l.buf) - l.count - width
	var ns int
	switch {
	case offset == 0 && l.count > 0:
		ns = slack
	case offset >= l.count:
		ns = 0
	default:
		ns = slack / 2
	}

	oldStart, oldEnd := l.start, l.start+l.count
	moveHead := func() {
		if ns != l.start && offset > 0 {
			copy(l.buf[ns:], l.buf[l.start:l.start+offset])
			l.stats.Moves += offset
		}
	}
	moveTail := func() {
		dst := ns + offset + width
		src := l.start + offset
		if dst != src && l.count > offset {
			copy(l.buf[dst:], l.buf[src:l.start+l.count])
			l.stats.Moves += l.count - offset
		}
	}
	if ns > l.start {
		moveTail()
		moveHead()
	} else {
		moveHead()
		moveTail()
	}

	newEnd := ns + l.count + width
	if oldStart < ns {
		clear(l.buf[oldStart:min(ns, oldEnd)])
	}
	if newEnd < oldEnd {
		clear(l.buf[max(newEnd, oldStart):oldEnd])
	}
	l.start = ns
}

// Remove closes width occupied slots at offset, shifting the cheaper side
// (ties shift the tail). Vacated slots are zeroed.
func (l *Linear[T]) Remove(offset, width int) error {
	if offset < 0 || width < 0 || offset+width > l.count {
		return fmt.Errorf("%w: cannot remove %d slots at offset %d of %d", core.ErrIndexOutOfRange, width, offset, l.count)
	}
	if width == 0 {
		return nil
	}

	head := offset
	tail := l.count - offset - width
	if head < tail {
		copy(l.buf[l.start+width:], l.buf[l.start:l.start+offset])
		l.stats.Moves += head
		clear(l.buf[l.start : l.start+width])
		l.start += width
	} else {
		end := l.start + l.count
		copy(l.buf[l.start+offset:], l.buf[l.start+offset+width:end])
		l.stats.Moves += tail
		clear(l.buf[end-width : end])
	}
	l.count -= width
	return nil
}

// Reset drops every item but keeps the buffer.
func (l *Linear[T]) Reset() {
	clear(l.buf[l.start : l.start+l.count])
	l.start = 0
	l.count = 0
}

// Compact shrinks the buffer to the occupied slots.
func (l *Linear[T]) Compact() {
	if len(l.buf) == l.count {
		return
	}
	buf := make([]T, l.count)
	copy(buf, l.buf[l.start:l.start+l.count])
	l.stats.Reallocations++
	l.stats.Moves += l.count
	l.buf = buf
	l.start = 0
}

// Clone returns an independent copy with the same layout and fresh stats.
func (l *Linear[T]) Clone() *Linear[T] {
	buf := make([]T, len(l.buf))
	copy(buf[l.start:], l.buf[l.start:l.start+l.count])
	return &Linear[T]{
		buf:      buf,
		start:    l.start,
		count:    l.count,
		strategy: l.strategy,
	}
}
