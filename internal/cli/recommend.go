package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tunescout/tunescout/internal/config"
	"github.com/tunescout/tunescout/internal/engine"
	"github.com/tunescout/tunescout/internal/library"
	"github.com/tunescout/tunescout/internal/recommend"
)

func newRecommendCmd() *cobra.Command {
	var (
		libraryPath  string
		providerName string
		model        string
		count        int
		temperature  float64
		noCache      bool
		verbose      bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend albums based on a library snapshot",
		Long: `Send a token-budgeted description of your library to the configured LLM
and print the validated recommendations.

Examples:
  tunescout recommend --library library.json
  tunescout recommend --library library.json --provider openai --model gpt-4o
  tunescout recommend --library library.json --count 20 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gcfg, err := config.LoadGlobal()
			if err != nil {
				gcfg = config.DefaultGlobal()
			}

			profile, err := library.LoadProfile(libraryPath)
			if err != nil {
				return err
			}

			name, effModel := resolveProvider(gcfg, providerName, model)
			svc, cleanup, err := buildService(gcfg, name, effModel, !noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			if count <= 0 {
				count = gcfg.Prompt.Count
			}
			if temperature == 0 {
				temperature = gcfg.Prompt.Temperature
			}

			var bar *progressbar.ProgressBar
			if term.IsTerminal(int(os.Stderr.Fd())) {
				bar = progressbar.NewOptions(-1,
					progressbar.OptionSetDescription("  Asking "+name),
					progressbar.OptionSpinnerType(14),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionClearOnFinish(),
				)
			}

			items, report, err := svc.Recommend(context.Background(), profile, engine.Options{
				Count:       count,
				Temperature: temperature,
				NoCache:     noCache,
			})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			if verbose {
				printReport(report)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(items) == 0 {
				fmt.Println("No usable recommendations in the model's reply.")
				return nil
			}
			printItems(items)
			return nil
		},
	}

	cmd.Flags().StringVarP(&libraryPath, "library", "l", "", "path to the library JSON export (required)")
	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "LLM provider (openai, anthropic, ollama, lmstudio)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model name")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of recommendations to request")
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "sampling temperature")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print budget and pipeline details")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit recommendations as JSON")
	_ = cmd.MarkFlagRequired("library")

	return cmd
}

func printItems(items []recommend.Item) {
	for i, it := range items {
		fmt.Printf("%2d. %s — %s", i+1, it.Artist, it.Album)
		if it.HasValidYear() {
			fmt.Printf(" (%d)", *it.Year)
		}
		if it.Genre != "" {
			fmt.Printf(" [%s]", it.Genre)
		}
		fmt.Printf("  %.0f%%\n", it.NormalizedConfidence()*100)
		if it.Reason != "" {
			fmt.Printf("    %s\n", it.Reason)
		}
	}
}

func printReport(r *engine.Report) {
	fmt.Fprintf(os.Stderr, "model:    %s\n", r.ModelKey)
	if r.Cached {
		fmt.Fprintln(os.Stderr, "served from cache")
		return
	}
	fmt.Fprintf(os.Stderr, "budget:   %d total, %d usable\n", r.Budget.Total, r.Budget.Usable)
	fmt.Fprintf(os.Stderr, "sizing:   %d artists, %d albums\n", r.Sizing.TargetArtists, r.Sizing.TargetAlbums)
	fmt.Fprintf(os.Stderr, "pass:     %s (%d prompt tokens)\n", r.Pass, r.PromptTokens)
	if r.Repaired {
		fmt.Fprintln(os.Stderr, "response required repair")
	}
	fmt.Fprintf(os.Stderr, "received: %d items\n", r.Received)
}
