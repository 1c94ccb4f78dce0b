package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/indexseq/pkg/adapters/lifecycle"
	"github.com/aretw0/indexseq/pkg/adapters/metrics"
	"github.com/aretw0/indexseq/pkg/capacity"
	"github.com/aretw0/indexseq/pkg/core"
	"github.com/aretw0/indexseq/pkg/observe"
	"github.com/aretw0/indexseq/pkg/sequence"
)

// Runner executes scripts. The zero value is not usable; call NewRunner.
type Runner struct {
	logger    *slog.Logger
	strategy  capacity.Strategy
	collector *metrics.Collector
	emitter   *lifecycle.Emitter[string]
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for run summaries, failing steps and storage diagnostics.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithStrategy sets the capacity strategy for scripts that do not name one.
func WithStrategy(s capacity.Strategy) RunnerOption {
	return func(r *Runner) {
		if s != nil {
			r.strategy = s
		}
	}
}

// WithMetrics counts every change of every run on c, labelled by script name.
func WithMetrics(c *metrics.Collector) RunnerOption {
	return func(r *Runner) {
		r.collector = c
	}
}

// WithEvents publishes every change of every run on em. A run waits for room
// in the buffer, so the consumer must keep draining until the run ends or its
// context is cancelled.
func WithEvents(em *lifecycle.Emitter[string]) RunnerOption {
	return func(r *Runner) {
		r.emitter = em
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{strategy: capacity.Amortized{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result reports the outcome of one run.
type Result struct {
	RunID  string                 `yaml:"run_id" json:"run_id"`
	Script string                 `yaml:"script" json:"script"`
	Passed bool                   `yaml:"passed" json:"passed"`
	Steps  []StepResult           `yaml:"steps" json:"steps"`
	Items  []string               `yaml:"items" json:"items"`
	State  sequence.SequenceState `yaml:"state" json:"state"`
}

// StepResult reports the outcome of one step.
type StepResult struct {
	Step   int    `yaml:"step" json:"step"`
	Op     string `yaml:"op" json:"op"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty"`
	Error  string `yaml:"error,omitempty" json:"error,omitempty"`
	Passed bool   `yaml:"passed" json:"passed"`
}

// Failed returns the steps that did not pass.
func (r *Result) Failed() []StepResult {
	var out []StepResult
	for _, st := range r.Steps {
		if !st.Passed {
			out = append(out, st)
		}
	}
	return out
}

// target is the read and traversal side shared by Sequence and NonEmpty.
type target interface {
	Size() int
	Values() []string
	State() any
	Traverser() *sequence.Traverser[string]
	TraverserAt(i int) (*sequence.Traverser[string], error)
	TraverserEnd() *sequence.Traverser[string]
}

// mutator is the write side shared by their observed views.
type mutator interface {
	Append(items ...string) error
	Prepend(items ...string) error
	Insert(i int, items ...string) error
	Replace(i int, item string) (string, error)
	RemoveFirst() (string, error)
	RemoveLast() (string, error)
	RemoveAt(i int) (string, error)
	RemoveFunc(match func(string) bool) (int, string, error)
}

// session is the state of one run.
type session struct {
	seq       target
	view      mutator
	trav      *sequence.Traverser[string]
	observers []core.Observer[string]
}

// Run executes every step of sc. Step failures are recorded in the result;
// the returned error is reserved for invalid scripts and cancellation.
func (r *Runner) Run(ctx context.Context, sc *Script) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	strategy := r.strategy
	if sc.Strategy != "" {
		s, err := capacity.Parse(sc.Strategy)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
		}
		strategy = s
	}

	res := &Result{RunID: uuid.NewString(), Script: sc.Name, Passed: true}
	logger := r.logger
	if logger != nil {
		logger = logger.With("run_id", res.RunID, "script", sc.Name)
	}

	cfg := sequence.Config{FirstIndex: sc.FirstIndex, Strategy: strategy, Logger: logger}
	var observers []core.Observer[string]
	if r.collector != nil {
		observers = append(observers, metrics.Observer[string](r.collector, sc.Name))
	}
	if logger != nil {
		observers = append(observers, observe.Log[string](logger))
	}
	if r.emitter != nil {
		observers = append(observers, r.emitter.Blocking(ctx))
	}

	ss := &session{observers: observers}
	if sc.NonEmpty {
		n := sequence.NewNonEmpty(cfg, sc.Items[0], sc.Items[1:]...)
		ss.seq, ss.view = n, n.Observe(observers...)
	} else {
		s := sequence.New(cfg, sc.Items...)
		ss.seq, ss.view = s, s.Observe(observers...)
	}

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		value, err := ss.apply(st)
		if r.collector != nil && errors.Is(err, core.ErrObserverFailure) {
			r.collector.RecordFailure(sc.Name)
		}

		sr := StepResult{Step: i + 1, Op: st.Op, Value: value}
		if err != nil {
			sr.Error = err.Error()
		}
		if st.ExpectError != "" {
			sr.Passed = isKind(err, st.ExpectError)
		} else {
			sr.Passed = err == nil
		}
		if !sr.Passed {
			res.Passed = false
			if logger != nil {
				logger.Warn("step failed", "step", sr.Step, "op", st.Op, "expect_error", st.ExpectError, "error", err)
			}
		}
		res.Steps = append(res.Steps, sr)
	}

	res.Items = ss.seq.Values()
	res.State = ss.seq.State().(sequence.SequenceState)
	if logger != nil {
		logger.Info("script finished", "passed", res.Passed, "steps", len(res.Steps), "size", ss.seq.Size())
	}
	return res, nil
}

// cursor returns the current traverser, creating one at the first item.
func (ss *session) cursor() *sequence.ObservedTraverser[string] {
	if ss.trav == nil {
		ss.trav = ss.seq.Traverser()
	}
	return ss.trav.Observe(ss.observers...)
}

func (ss *session) apply(st Step) (string, error) {
	switch st.Op {
	case OpAppend:
		return "", ss.view.Append(st.values()...)
	case OpPrepend:
		return "", ss.view.Prepend(st.values()...)
	case OpInsert:
		return "", ss.view.Insert(*st.Index, st.values()...)
	case OpReplace:
		return ss.view.Replace(*st.Index, st.Value)
	case OpRemoveFirst:
		return ss.view.RemoveFirst()
	case OpRemoveLast:
		return ss.view.RemoveLast()
	case OpRemoveAt:
		return ss.view.RemoveAt(*st.Index)
	case OpRemoveValue:
		i, err := sequence.RemoveByValue[string](ss.view, st.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(i), nil
	case OpNext:
		ss.cursor()
		return ss.trav.Next()
	case OpPrevious:
		ss.cursor()
		return ss.trav.Previous()
	case OpReplaceLast:
		return ss.cursor().ReplaceLast(st.Value)
	case OpInsertCursor:
		return "", ss.cursor().Insert(st.Value)
	case OpRemoveCursor:
		return ss.cursor().RemoveLast()
	case OpSeek:
		switch {
		case st.End:
			ss.trav = ss.seq.TraverserEnd()
		case st.Index != nil:
			t, err := ss.seq.TraverserAt(*st.Index)
			if err != nil {
				return "", err
			}
			ss.trav = t
		default:
			ss.trav = ss.seq.Traverser()
		}
		return fmt.Sprint(ss.trav.Cursor()), nil
	}
	return "", fmt.Errorf("%w: unknown op %q", ErrInvalidScript, st.Op)
}
