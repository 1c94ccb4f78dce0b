package observe_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/indexseq/pkg/core"
	"github.com/aretw0/indexseq/pkg/observe"
)

type recorder struct {
	name string
	log  *[]string
	err  error
}

func (r recorder) Observe(c core.Change[string]) error {
	*r.log = append(*r.log, r.name+":"+c.New)
	return r.err
}

func inserts(values ...string) []core.Change[string] {
	changes := make([]core.Change[string], len(values))
	for i, v := range values {
		changes[i] = core.Change[string]{Kind: core.EventInsert, Index: i, New: v}
	}
	return changes
}

func TestApply_NotifiesInOrder(t *testing.T) {
	var log []string
	calls := 0

	got, err := observe.Apply([]core.Observer[string]{
		recorder{name: "o1", log: &log},
		recorder{name: "o2", log: &log},
	}, func() (int, []core.Change[string], error) {
		calls++
		return 42, inserts("a", "b"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"o1:a", "o1:b", "o2:a", "o2:b"}, log)
}

func TestApply_FailingObserverStopsNotification(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	committed := false

	_, err := observe.Apply([]core.Observer[string]{
		recorder{name: "o1", log: &log, err: boom},
		recorder{name: "o2", log: &log},
	}, func() (struct{}, []core.Change[string], error) {
		committed = true
		return struct{}{}, inserts("a"), nil
	})

	require.Error(t, err)
	assert.True(t, committed)
	assert.ErrorIs(t, err, core.ErrObserverFailure)
	assert.ErrorIs(t, err, boom)

	var oe *core.ObserverError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, 0, oe.Observer)
	assert.Equal(t, core.EventInsert, oe.Kind)
	assert.Equal(t, []string{"o1:a"}, log)
}

func TestApply_MutationErrorSkipsObservers(t *testing.T) {
	var log []string
	_, err := observe.Apply([]core.Observer[string]{recorder{name: "o1", log: &log}},
		func() (int, []core.Change[string], error) {
			return 0, nil, core.ErrItemNotFound
		})

	assert.ErrorIs(t, err, core.ErrItemNotFound)
	assert.NotErrorIs(t, err, core.ErrObserverFailure)
	assert.Empty(t, log)
}

func TestNotify_SkipsNilObservers(t *testing.T) {
	var log []string
	err := observe.Notify([]core.Observer[string]{nil, recorder{name: "o", log: &log}}, inserts("x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"o:x"}, log)
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	o := observe.Log[string](logger)
	require.NoError(t, o.Observe(core.Change[string]{Kind: core.EventReplace, Index: 3, Old: "a", New: "b"}))

	out := buf.String()
	assert.Contains(t, out, "sequence mutated")
	assert.Contains(t, out, "kind=REPLACE")
	assert.Contains(t, out, "old=a")
	assert.Contains(t, out, "new=b")

	assert.NoError(t, observe.Log[string](nil).Observe(core.Change[string]{}))
}
