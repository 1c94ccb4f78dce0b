// Package capacity decides how much backing storage a sequence gets when it
// runs out of room, and where existing items sit inside the new buffer.
package capacity

import (
	"fmt"
	"strings"

	"github.com/aretw0/indexseq/pkg/core"
)

// DefaultMin is the smallest buffer Amortized allocates.
const DefaultMin = 8

// Strategy computes the capacity of a new buffer holding at least required items.
type Strategy interface {
	Capacity(current, required int) int
	String() string
}

// Minimal allocates exactly what is required, with no slack.
// Repeated single-item appends copy the whole buffer every time.
type Minimal struct{}

func (Minimal) Capacity(_, required int) int { return required }

func (Minimal) String() string { return "minimal" }

// Amortized doubles the buffer, so n single-item appends cost O(n) copies in total.
type Amortized struct {
	// Min is the smallest capacity ever allocated. Zero means DefaultMin.
	Min int
}

func (a Amortized) Capacity(current, required int) int {
	floor := a.Min
	if floor <= 0 {
		floor = DefaultMin
	}
	next := max(current*2, floor)
	return max(next, required)
}

func (Amortized) String() string { return "amortized" }

// Func adapts a plain function to the Strategy interface.
type Func func(current, required int) int

func (f Func) Capacity(current, required int) int { return f(current, required) }

func (Func) String() string { return "custom" }

// Parse returns the built-in strategy with the given name.
func Parse(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "amortized":
		return Amortized{}, nil
	case "minimal":
		return Minimal{}, nil
	default:
		return nil, fmt.Errorf("unknown capacity strategy %q (want minimal or amortized)", name)
	}
}

// Request describes a growth decision.
type Request struct {
	Current    int // capacity of the current buffer
	Count      int // items currently held
	Required   int // items the new buffer must hold, hole included
	HoleOffset int // where the hole opens, relative to the held items
}

// Layout is the outcome of Plan.
type Layout struct {
	Capacity int
	// Start is the storage position of the first occupied slot in the new buffer.
	Start int
}

// Plan asks s for a capacity and places the data inside it.
// Slack goes to the front when the hole opens at the head of non-empty data,
// to the back when it opens at the tail, and is split evenly otherwise.
func Plan(s Strategy, req Request) (Layout, error) {
	if req.Required < req.Count {
		return Layout{}, fmt.Errorf("%w: required %d is below held count %d", core.ErrInvalidCapacity, req.Required, req.Count)
	}
	c := s.Capacity(req.Current, req.Required)
	if c < req.Required {
		return Layout{}, fmt.Errorf("%w: %s strategy returned %d for %d required items", core.ErrInvalidCapacity, s, c, req.Required)
	}

	slack := c - req.Required
	var start int
	switch {
	case req.HoleOffset == 0 && req.Count > 0:
		start = slack
	case req.HoleOffset >= req.Count:
		start = 0
	default:
		start = slack / 2
	}
	return Layout{Capacity: c, Start: start}, nil
}
