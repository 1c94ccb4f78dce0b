package capacity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/indexseq/pkg/capacity"
	"github.com/aretw0/indexseq/pkg/core"
)

func TestStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy capacity.Strategy
		current  int
		required int
		want     int
	}{
		{"minimal exact", capacity.Minimal{}, 10, 11, 11},
		{"minimal from empty", capacity.Minimal{}, 0, 1, 1},
		{"amortized floor", capacity.Amortized{}, 0, 1, capacity.DefaultMin},
		{"amortized doubles", capacity.Amortized{}, 8, 9, 16},
		{"amortized bulk beyond double", capacity.Amortized{}, 8, 40, 40},
		{"amortized custom floor", capacity.Amortized{Min: 2}, 0, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.strategy.Capacity(tt.current, tt.required))
		})
	}
}

func TestPlan(t *testing.T) {
	t.Run("tail hole keeps slack at the back", func(t *testing.T) {
		l, err := capacity.Plan(capacity.Amortized{}, capacity.Request{Current: 8, Count: 8, Required: 9, HoleOffset: 8})
		require.NoError(t, err)
		assert.Equal(t, capacity.Layout{Capacity: 16, Start: 0}, l)
	})

	t.Run("head hole puts slack at the front", func(t *testing.T) {
		l, err := capacity.Plan(capacity.Amortized{}, capacity.Request{Current: 8, Count: 8, Required: 9, HoleOffset: 0})
		require.NoError(t, err)
		assert.Equal(t, capacity.Layout{Capacity: 16, Start: 7}, l)
	})

	t.Run("middle hole splits slack", func(t *testing.T) {
		l, err := capacity.Plan(capacity.Amortized{}, capacity.Request{Current: 8, Count: 8, Required: 9, HoleOffset: 4})
		require.NoError(t, err)
		assert.Equal(t, capacity.Layout{Capacity: 16, Start: 3}, l)
	})

	t.Run("minimal has no slack", func(t *testing.T) {
		l, err := capacity.Plan(capacity.Minimal{}, capacity.Request{Current: 3, Count: 3, Required: 4, HoleOffset: 0})
		require.NoError(t, err)
		assert.Equal(t, capacity.Layout{Capacity: 4, Start: 0}, l)
	})

	t.Run("contract violation", func(t *testing.T) {
		bad := capacity.Func(func(current, _ int) int { return current })
		_, err := capacity.Plan(bad, capacity.Request{Current: 3, Count: 3, Required: 4})
		assert.ErrorIs(t, err, core.ErrInvalidCapacity)
	})
}

func TestParse(t *testing.T) {
	s, err := capacity.Parse("Minimal")
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.String())

	s, err = capacity.Parse("")
	require.NoError(t, err)
	assert.Equal(t, "amortized", s.String())

	_, err = capacity.Parse("fibonacci")
	assert.Error(t, err)
}
