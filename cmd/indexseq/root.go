package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// logOptions holds the persistent logging flags shared by every subcommand.
type logOptions struct {
	verbose bool
	format  string
}

var logFlags = logOptions{format: "text"}

var rootCmd = &cobra.Command{
	Use:   "indexseq",
	Short: "Run scripted sessions against an index-addressable sequence",
	Long: `indexseq drives an ordered, index-addressable sequence from YAML or JSON scripts.
Each script lists initial items and a series of sequence and traverser operations,
optionally expected to fail with a given error kind.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := logFlags.logger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&logFlags.verbose, "verbose", "v", false, "Log storage reallocations and every mutation")
	rootCmd.PersistentFlags().StringVar(&logFlags.format, "log-format", logFlags.format, "Log format on stderr (text, json)")
}

// logger builds the process logger writing to w.
func (o logOptions) logger(w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if o.verbose {
		opts.Level = slog.LevelDebug
	}
	switch o.format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", o.format)
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", cmd.CommandPath(), err)
		return 1
	}
	return 0
}
