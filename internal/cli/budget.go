package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunescout/tunescout/internal/budget"
	"github.com/tunescout/tunescout/internal/config"
	"github.com/tunescout/tunescout/internal/library"
	"github.com/tunescout/tunescout/internal/prompt"
)

func newBudgetCmd() *cobra.Command {
	var (
		libraryPath   string
		modelKey      string
		contextWindow int
	)

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show the token budget and sizing a model key would get",
		Long: `Print the derived token budget and context sizing without calling any
provider. Useful for checking how much of a library a given model
would see.

Examples:
  tunescout budget --model-key ollama:llama3.1 --window 32768
  tunescout budget --model-key openai:gpt-4o --library library.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gcfg, err := config.LoadGlobal()
			if err != nil {
				gcfg = config.DefaultGlobal()
			}
			if contextWindow == 0 {
				contextWindow = gcfg.Prompt.ContextWindow
			}
			if contextWindow == 0 {
				contextWindow = 32768
			}

			policy := budget.NewPolicy()
			b := policy.ForModel(modelKey, contextWindow)

			fmt.Printf("model key:          %s", modelKey)
			if policy.IsLocal(modelKey) {
				fmt.Print("  (local)")
			}
			fmt.Println()
			fmt.Printf("context window:     %d\n", b.Total)
			fmt.Printf("system reserve:     %d\n", b.SystemReserve)
			fmt.Printf("completion reserve: %d\n", b.CompletionReserve)
			fmt.Printf("safety margin:      %d\n", b.SafetyMargin)
			fmt.Printf("headroom:           %d\n", b.Headroom)
			fmt.Printf("usable:             %d\n", b.Usable)

			if libraryPath != "" {
				profile, err := library.LoadProfile(libraryPath)
				if err != nil {
					return err
				}
				s := prompt.SizeFor(profile.TotalArtists, profile.TotalAlbums, b.Usable)
				fmt.Printf("\nlibrary:            %d artists, %d albums\n", profile.TotalArtists, profile.TotalAlbums)
				fmt.Printf("target artists:     %d\n", s.TargetArtists)
				fmt.Printf("target albums:      %d\n", s.TargetAlbums)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&libraryPath, "library", "l", "", "optional library JSON export for sizing")
	cmd.Flags().StringVarP(&modelKey, "model-key", "k", "", "provider:model key, e.g. ollama:llama3.1")
	cmd.Flags().IntVarP(&contextWindow, "window", "w", 0, "context window in tokens")

	return cmd
}
