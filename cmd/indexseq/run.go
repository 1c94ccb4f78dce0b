package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/lifecycle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	lcadapter "github.com/aretw0/indexseq/pkg/adapters/lifecycle"
	"github.com/aretw0/indexseq/pkg/adapters/metrics"
	"github.com/aretw0/indexseq/pkg/adapters/script"
	"github.com/aretw0/indexseq/pkg/capacity"
)

var (
	runGlobs    []string
	runStrategy string
	runFormat   string
	runWatch    bool
	runMetrics  bool
	runEvents   bool
)

// errScriptsFailed is returned when at least one script has a failing step.
var errScriptsFailed = errors.New("scripts failed")

var runCmd = &cobra.Command{
	Use:   "run [script...]",
	Short: "Run scripted sequence sessions",
	Long: `Run loads every script given as an argument or matched by --glob and runs it
against a fresh sequence. With --watch it keeps running and re-runs scripts as they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runScripts(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func init() {
	runCmd.Flags().StringSliceVarP(&runGlobs, "glob", "g", nil, "Doublestar patterns selecting scripts (default "+script.DefaultPattern+" when no script is given)")
	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "amortized", "Capacity strategy for scripts that do not set one (minimal, amortized)")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "text", "Output format (text, json, yaml)")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Re-run scripts when they change")
	runCmd.Flags().BoolVar(&runMetrics, "metrics", false, "Print mutation counters in Prometheus text format after the run")
	runCmd.Flags().BoolVar(&runEvents, "events", false, "Stream mutation events to stderr")
	rootCmd.AddCommand(runCmd)
}

func runScripts(ctx context.Context, out, errOut io.Writer, args []string) error {
	strategy, err := capacity.Parse(runStrategy)
	if err != nil {
		return err
	}

	patterns := append(append([]string(nil), args...), runGlobs...)
	if len(patterns) == 0 {
		patterns = []string{script.DefaultPattern}
	}

	opts := []script.RunnerOption{
		script.WithLogger(slog.Default()),
		script.WithStrategy(strategy),
	}

	var reg *prometheus.Registry
	if runMetrics {
		reg = prometheus.NewRegistry()
		opts = append(opts, script.WithMetrics(metrics.NewCollector(reg)))
	}

	if runEvents {
		em := lcadapter.NewEmitter[string](0)
		drained, err := streamEvents(ctx, em, errOut)
		if err != nil {
			em.Close()
			return err
		}
		defer func() {
			em.Close()
			<-drained
		}()
		opts = append(opts, script.WithEvents(em))
	}

	runner := script.NewRunner(opts...)

	scripts, err := script.LoadAll(patterns...)
	if err != nil {
		return err
	}
	if len(scripts) == 0 && !runWatch {
		return fmt.Errorf("no scripts match %s", strings.Join(patterns, ", "))
	}

	passed, err := runAll(ctx, runner, scripts, out)
	if err != nil {
		return err
	}
	if reg != nil {
		if err := writeMetrics(reg, out); err != nil {
			return err
		}
	}

	if runWatch {
		return watchScripts(ctx, runner, patterns, out)
	}
	if !passed {
		return errScriptsFailed
	}
	return nil
}

func runAll(ctx context.Context, runner *script.Runner, scripts []*script.Script, out io.Writer) (bool, error) {
	results := make([]*script.Result, 0, len(scripts))
	passed := true
	for _, sc := range scripts {
		res, err := runner.Run(ctx, sc)
		if err != nil {
			return false, fmt.Errorf("%s: %w", sc.Name, err)
		}
		passed = passed && res.Passed
		results = append(results, res)
	}
	return passed, writeResults(out, results)
}

func writeResults(out io.Writer, results []*script.Result) error {
	switch runFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(results)
	case "text":
		for _, res := range results {
			status := "PASS"
			if !res.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(out, "%s %s [%d..%d] %v\n", status, res.Script, res.State.FirstIndex, res.State.LastIndex, res.Items)
			for _, st := range res.Failed() {
				fmt.Fprintf(out, "  step %d %s: %s\n", st.Step, st.Op, failure(st))
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", runFormat)
}

func failure(st script.StepResult) string {
	if st.Error == "" {
		return "expected an error"
	}
	return st.Error
}

func writeMetrics(reg *prometheus.Registry, out io.Writer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}

// streamEvents forwards emitted events to w until ctx ends or the emitter
// closes. The returned channel closes once the last event is written.
func streamEvents(ctx context.Context, em *lcadapter.Emitter[string], w io.Writer) (<-chan struct{}, error) {
	src := lcadapter.NewSource(em.Events())
	if err := src.Start(ctx); err != nil {
		return nil, err
	}
	drained := make(chan struct{})
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(drained)
		for e := range src.Events() {
			fmt.Fprintf(w, "event %s\n", e)
		}
		return nil
	})
	return drained, nil
}

func watchScripts(ctx context.Context, runner *script.Runner, patterns []string, out io.Writer) error {
	changes := make(chan string, 16)
	w := script.NewWatcher(patterns, changes, slog.Default())
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = w.Stop(context.Background())
	}()

	slog.Info("watching scripts", "patterns", patterns)
	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			sc, err := script.Load(path)
			if err != nil {
				slog.Error("failed to load script", "path", path, "error", err)
				continue
			}
			if _, err := runAll(ctx, runner, []*script.Script{sc}, out); err != nil {
				slog.Error("run failed", "path", path, "error", err)
			}
		}
	}
}
