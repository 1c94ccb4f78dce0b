package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/indexseq"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of indexseq",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "indexseq version %s\n", strings.TrimSpace(indexseq.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
