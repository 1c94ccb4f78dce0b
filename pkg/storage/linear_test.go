package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/indexseq/pkg/capacity"
	"github.com/aretw0/indexseq/pkg/core"
)

func filled(t *testing.T, size int, s capacity.Strategy, items ...string) *Linear[string] {
	t.Helper()
	l := New[string](size, s)
	pos, err := l.EnsureCapacity(len(items), 0, len(items))
	require.NoError(t, err)
	for i, it := range items {
		require.NoError(t, l.Set(pos+i, it))
	}
	return l
}

func appendOne(t *testing.T, l *Linear[int], v int) {
	t.Helper()
	pos, err := l.EnsureCapacity(l.Count()+1, l.Count(), 1)
	require.NoError(t, err)
	require.NoError(t, l.Set(pos, v))
}

func TestLinear_GetOutOfRange(t *testing.T) {
	l := filled(t, 4, capacity.Minimal{}, "a", "b")

	v, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = l.Get(2)
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
	_, err = l.Get(-1)
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Set(3, "x"), core.ErrIndexOutOfRange)
}

func TestLinear_Growth(t *testing.T) {
	t.Run("minimal", func(t *testing.T) {
		l := New[int](0, capacity.Minimal{})
		for i := range 20 {
			appendOne(t, l, i)
		}
		assert.Equal(t, 20, l.Cap())
		assert.Equal(t, 20, l.Stats().Reallocations)
		assert.Equal(t, 190, l.Stats().Moves)
	})

	t.Run("amortized", func(t *testing.T) {
		l := New[int](0, capacity.Amortized{})
		for i := range 20 {
			appendOne(t, l, i)
		}
		assert.Equal(t, 32, l.Cap())
		assert.Equal(t, 3, l.Stats().Reallocations)
		assert.Equal(t, 24, l.Stats().Moves)

		want := make([]int, 20)
		for i := range want {
			want[i] = i
		}
		assert.Equal(t, want, l.Slots())
	})
}

func TestLinear_EnsureCapacityInPlace(t *testing.T) {
	// Leaves a, b, c, d at storage positions 2..5 of a 10-slot buffer.
	centred := func(t *testing.T) *Linear[string] {
		l := filled(t, 10, capacity.Minimal{}, "x", "y", "a", "b", "c", "d")
		require.NoError(t, l.Remove(0, 2))
		require.Equal(t, 2, l.Start())
		return l
	}

	t.Run("tie shifts tail", func(t *testing.T) {
		l := centred(t)
		moves := l.Stats().Moves

		pos, err := l.EnsureCapacity(5, 2, 1)
		require.NoError(t, err)
		require.NoError(t, l.Set(pos, "x"))

		assert.Equal(t, 4, pos)
		assert.Equal(t, 2, l.Start())
		assert.Equal(t, []string{"a", "b", "x", "c", "d"}, l.Slots())
		assert.Equal(t, moves+2, l.Stats().Moves)
	})

	t.Run("cheaper head shifts left", func(t *testing.T) {
		l := centred(t)
		moves := l.Stats().Moves

		pos, err := l.EnsureCapacity(5, 1, 1)
		require.NoError(t, err)
		require.NoError(t, l.Set(pos, "x"))

		assert.Equal(t, 1, l.Start())
		assert.Equal(t, []string{"a", "x", "b", "c", "d"}, l.Slots())
		assert.Equal(t, moves+1, l.Stats().Moves)
	})

	t.Run("relocates when the cheaper side is full", func(t *testing.T) {
		l := filled(t, 6, capacity.Minimal{}, "a", "b", "c", "d")

		pos, err := l.EnsureCapacity(5, 0, 1)
		require.NoError(t, err)
		require.NoError(t, l.Set(pos, "z"))

		assert.Equal(t, 1, l.Start())
		assert.Equal(t, 6, l.Cap())
		assert.Equal(t, 0, l.Stats().Reallocations)
		assert.Equal(t, []string{"z", "a", "b", "c", "d"}, l.Slots())
	})

	t.Run("append relocates but keeps offsets", func(t *testing.T) {
		l := filled(t, 6, capacity.Minimal{}, "x", "y", "a", "b", "c", "d")
		require.NoError(t, l.Remove(0, 2))
		require.Equal(t, 2, l.Start())

		pos, err := l.EnsureCapacity(5, l.Count(), 1)
		require.NoError(t, err)
		require.NoError(t, l.Set(pos, "e"))

		assert.Equal(t, 0, l.Start())
		assert.Equal(t, 4, pos)
		assert.Equal(t, 0, l.Stats().Reallocations)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, l.Slots())
	})

	t.Run("hole slots are zeroed", func(t *testing.T) {
		l := centred(t)
		pos, err := l.EnsureCapacity(6, 4, 2)
		require.NoError(t, err)

		v, err := l.Get(pos)
		require.NoError(t, err)
		assert.Empty(t, v)
		assert.Equal(t, []string{"a", "b", "c", "d", "", ""}, l.Slots())
	})
}

func TestLinear_EnsureCapacityDeterministic(t *testing.T) {
	run := func() ([]string, int, Stats) {
		l := filled(t, 0, capacity.Amortized{Min: 2}, "a")
		ops := []struct{ offset int }{{0}, {1}, {3}, {2}, {0}, {6}}
		for i, op := range ops {
			pos, err := l.EnsureCapacity(l.Count()+1, op.offset, 1)
			require.NoError(t, err)
			require.NoError(t, l.Set(pos, string(rune('b'+i))))
		}
		return append([]string(nil), l.Slots()...), l.Start(), l.Stats()
	}

	items1, start1, stats1 := run()
	items2, start2, stats2 := run()
	assert.Equal(t, items1, items2)
	assert.Equal(t, start1, start2)
	assert.Equal(t, stats1, stats2)
	assert.Equal(t, []string{"f", "b", "c", "e", "a", "d", "g"}, items1)
}

func TestLinear_InvalidCapacity(t *testing.T) {
	bad := capacity.Func(func(_, required int) int { return required - 1 })
	l := filled(t, 2, bad, "a", "b")

	_, err := l.EnsureCapacity(3, 2, 1)
	require.ErrorIs(t, err, core.ErrInvalidCapacity)

	assert.Equal(t, 2, l.Cap())
	assert.Equal(t, []string{"a", "b"}, l.Slots())

	_, err = l.EnsureCapacity(1, 0, 1)
	assert.ErrorIs(t, err, core.ErrInvalidCapacity)
	_, err = l.EnsureCapacity(3, 5, 1)
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
}

func TestLinear_Remove(t *testing.T) {
	l := filled(t, 5, capacity.Minimal{}, "a", "b", "c", "d", "e")

	require.NoError(t, l.Remove(3, 1))
	assert.Equal(t, []string{"a", "b", "c", "e"}, l.Slots())
	assert.Equal(t, 0, l.Start())

	require.NoError(t, l.Remove(0, 1))
	assert.Equal(t, []string{"b", "c", "e"}, l.Slots())
	assert.Equal(t, 1, l.Start())

	assert.ErrorIs(t, l.Remove(2, 2), core.ErrIndexOutOfRange)
	assert.Equal(t, 3, l.Count())
}

func TestLinear_CompactAndClone(t *testing.T) {
	l := New[int](0, capacity.Amortized{})
	for i := range 20 {
		appendOne(t, l, i)
	}

	c := l.Clone()
	require.NoError(t, c.Set(c.Start(), 100))
	first, err := l.Get(l.Start())
	require.NoError(t, err)
	assert.Equal(t, 0, first)
	assert.Equal(t, Stats{}, c.Stats())

	l.Compact()
	assert.Equal(t, 20, l.Cap())
	assert.Equal(t, 0, l.Start())
	assert.Equal(t, 19, l.Slots()[19])

	l.Reset()
	assert.Zero(t, l.Count())
	assert.Equal(t, 20, l.Cap())
}
