package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tunescout/tunescout/internal/config"
	"github.com/tunescout/tunescout/internal/engine"
	"github.com/tunescout/tunescout/internal/library"
)

func newWatchCmd() *cobra.Command {
	var (
		libraryPath  string
		providerName string
		model        string
		count        int
		debounceMs   int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run recommendations whenever the library export changes",
		Long: `Start a long-running watcher on the library JSON export. Each time the
file is rewritten (e.g. by a scheduled export from your music server),
recommendations are recomputed and printed.

Writes are debounced so an export that lands in several chunks triggers
a single run.

Press Ctrl-C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gcfg, err := config.LoadGlobal()
			if err != nil {
				gcfg = config.DefaultGlobal()
			}

			name, effModel := resolveProvider(gcfg, providerName, model)
			svc, cleanup, err := buildService(gcfg, name, effModel, true)
			if err != nil {
				return err
			}
			defer cleanup()

			if count <= 0 {
				count = gcfg.Prompt.Count
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory: exports are typically replaced via
			// rename, which drops a watch on the file itself.
			absPath, err := filepath.Abs(libraryPath)
			if err != nil {
				return err
			}
			if err := watcher.Add(filepath.Dir(absPath)); err != nil {
				return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
			}

			run := func() {
				profile, err := library.LoadProfile(absPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "  load library: %v\n", err)
					return
				}
				items, _, err := svc.Recommend(context.Background(), profile, engine.Options{
					Count:       count,
					Temperature: gcfg.Prompt.Temperature,
				})
				if err != nil {
					fmt.Fprintf(os.Stderr, "  recommend: %v\n", err)
					return
				}
				fmt.Printf("=== %s ===\n", time.Now().Format("15:04:05"))
				if len(items) == 0 {
					fmt.Println("No usable recommendations in the model's reply.")
					return
				}
				printItems(items)
			}

			fmt.Printf("Watching %s (Ctrl-C to stop)\n", absPath)
			run()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

			debounce := time.Duration(debounceMs) * time.Millisecond
			var timer *time.Timer
			timerC := make(chan struct{}, 1)

			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != absPath {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, func() {
						select {
						case timerC <- struct{}{}:
						default:
						}
					})
				case <-timerC:
					run()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "  watch error: %v\n", err)
				case <-sig:
					fmt.Println("\nStopping.")
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVarP(&libraryPath, "library", "l", "", "path to the library JSON export (required)")
	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "LLM provider")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model name")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of recommendations to request")
	cmd.Flags().IntVar(&debounceMs, "debounce", 2000, "debounce window in milliseconds")
	_ = cmd.MarkFlagRequired("library")

	return cmd
}
