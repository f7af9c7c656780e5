package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*CompareOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{CompareOptions: &CompareOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run compare whenever a variant source changes",
		Long: `Watch both variant directories and re-run the build/compare cycle when a
Go source file changes. Runs until interrupted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd)
		},
	}

	addProfileFlags(cmd, &opts.Profile, &opts.ProfilesFile)
	cmd.Flags().StringVar(&opts.BinDir, "bin", "bin", "directory for built executables")
	cmd.Flags().StringVar(&opts.PlainDir, "plain", "variants/plain", "plain-data variant directory")
	cmd.Flags().StringVar(&opts.AbstractDir, "abstraction", "variants/abstraction", "abstraction variant directory")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database to record run history (optional)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 500*time.Millisecond, "settle time after a change before rebuilding")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create watcher", err)
	}
	defer watcher.Close()

	for _, dir := range []string{opts.PlainDir, opts.AbstractDir} {
		if err := watcher.Add(dir); err != nil {
			_ = formatter.Error(ErrCodeInvalidInput, fmt.Sprintf("cannot watch %s: %v", dir, err), nil)
			return WrapExitError(ExitCommandError, "failed to watch variant directory", err)
		}
	}

	fmt.Fprintf(formatter.Writer, "Watching %s and %s\n", opts.PlainDir, opts.AbstractDir)

	// Initial cycle so the watcher starts from a known state. Build
	// failures and overhead verdicts are reported and watching continues.
	watchCycle(cmd.Context(), opts, formatter)

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceChange(event) {
				continue
			}
			formatter.VerboseLog("Change detected: %s", event.Name)
			// Debounce rapid saves.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(opts.Debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			watchCycle(cmd.Context(), opts, formatter)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			formatter.VerboseLog("Watcher error: %v", err)
		}
	}
}

func watchCycle(ctx context.Context, opts *WatchOptions, formatter *OutputFormatter) {
	report, err := compareOnce(ctx, opts.CompareOptions, formatter)
	if err != nil {
		// Already formatted; keep watching.
		return
	}
	_ = outputReport(formatter, report)
}

func isSourceChange(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".go") {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}
