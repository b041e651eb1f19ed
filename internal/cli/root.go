// Package cli defines the Cobra command tree for the tunescout CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tunescout",
	Short: "LLM-backed album recommendations from your music library",
	Long: `TuneScout describes your music library to an LLM and turns the reply
into structured album recommendations.

It fits arbitrarily large libraries into each model's context window by
budgeting tokens, compressing the library description when needed, and
repairing the model's not-always-well-formed JSON on the way back.

Point it at a JSON export of your library to get started:

  tunescout recommend --library library.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newRecommendCmd(),
		newBudgetCmd(),
		newWatchCmd(),
		newServeCmd(),
		newPruneCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tunescout %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
