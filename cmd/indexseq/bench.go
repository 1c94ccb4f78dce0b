package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/indexseq"
	"github.com/aretw0/indexseq/pkg/capacity"
	"github.com/aretw0/indexseq/pkg/sequence"
)

var (
	benchCount      int
	benchStrategies []string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare capacity strategies on common workloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench(cmd.OutOrStdout(), benchCount, benchStrategies)
	},
}

func init() {
	benchCmd.Flags().IntVarP(&benchCount, "count", "n", 10000, "Number of items per workload")
	benchCmd.Flags().StringSliceVarP(&benchStrategies, "strategy", "s", []string{"minimal", "amortized"}, "Strategies to compare")
	rootCmd.AddCommand(benchCmd)
}

type workload struct {
	name string
	run  func(s *indexseq.Sequence[int], n int) error
}

var workloads = []workload{
	{"append", func(s *indexseq.Sequence[int], n int) error {
		for i := range n {
			if err := s.Append(i); err != nil {
				return err
			}
		}
		return nil
	}},
	{"prepend", func(s *indexseq.Sequence[int], n int) error {
		for i := range n {
			if err := s.Prepend(i); err != nil {
				return err
			}
		}
		return nil
	}},
	{"middle", func(s *indexseq.Sequence[int], n int) error {
		for i := range n {
			if err := s.Insert(s.FirstIndex()+s.Size()/2, i); err != nil {
				return err
			}
		}
		return nil
	}},
	{"queue", func(s *indexseq.Sequence[int], n int) error {
		for i := range n {
			if err := s.Append(i); err != nil {
				return err
			}
			if i%2 == 1 {
				if _, err := s.RemoveFirst(); err != nil {
					return err
				}
			}
		}
		return nil
	}},
}

func runBench(out io.Writer, n int, names []string) error {
	if n <= 0 {
		return fmt.Errorf("count must be positive, got %d", n)
	}
	strategies := make([]capacity.Strategy, 0, len(names))
	for _, name := range names {
		s, err := capacity.Parse(name)
		if err != nil {
			return err
		}
		strategies = append(strategies, s)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORKLOAD\tSTRATEGY\tSIZE\tCAPACITY\tREALLOCS\tMOVES\tTIME")
	for _, w := range workloads {
		for _, s := range strategies {
			seq := indexseq.New[int](indexseq.WithStrategy(s))
			start := time.Now()
			if err := w.run(seq, n); err != nil {
				return fmt.Errorf("%s/%s: %w", w.name, s, err)
			}
			elapsed := time.Since(start)

			st := seq.State().(sequence.SequenceState)
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				w.name, s, st.Size, st.Capacity, st.Reallocations, st.Moves, elapsed.Round(time.Microsecond))
			slog.Debug("workload finished", "workload", w.name, "strategy", s.String(), "duration", elapsed)
		}
	}
	return tw.Flush()
}
