package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tunescout/tunescout/internal/cache"
	"github.com/tunescout/tunescout/internal/config"
)

func newPruneCmd() *cobra.Command {
	var olderThanHours int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete expired entries from the recommendation cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			gcfg, err := config.LoadGlobal()
			if err != nil {
				gcfg = config.DefaultGlobal()
			}

			path, err := gcfg.CachePath()
			if err != nil {
				return err
			}
			store, err := cache.Open(path)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			hours := olderThanHours
			if hours <= 0 {
				hours = gcfg.Cache.TTLHours
			}
			n, err := store.Prune(time.Duration(hours) * time.Hour)
			if err != nil {
				return err
			}
			fmt.Printf("Pruned %d cached result(s) older than %dh.\n", n, hours)
			return nil
		},
	}

	cmd.Flags().IntVar(&olderThanHours, "older-than", 0, "age threshold in hours (default: cache TTL)")

	return cmd
}
