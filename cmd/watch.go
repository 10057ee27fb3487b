package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jacklau/authorship/internal/config"
	"github.com/jacklau/authorship/internal/report"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the comparison whenever a document in the texts directory changes",
	Long: `Watch prints a report, then watches the texts directory and prints a fresh
report each time the unknown document or a reference document is created,
written, renamed or removed. Bursts of changes are coalesced.

Watch only works with the dir text source.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 400*time.Millisecond, "quiet period after a change before re-running")
	watchCmd.Flags().StringVarP(&outFormat, "format", "f", "", "report format: text, table or json")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Texts.Source != config.SourceDir {
		return fmt.Errorf("watch needs the dir text source, config uses %q", cfg.Texts.Source)
	}

	name := cfg.Output.Format
	if outFormat != "" {
		name = outFormat
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := initComponents(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing components: %w", err)
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	runner := &watchRunner{comps: c, out: out, format: format, colorize: shouldColorize(out)}
	run := func() { runner.run(ctx) }

	run()

	dir := config.ExpandHome(cfg.Texts.Dir)
	names := append([]string{cfg.Documents.Unknown}, cfg.Documents.References...)
	logger.Info("watching texts", "dir", dir, "documents", names)

	err = watchTexts(ctx, dir, names, watchDebounce, run, logger)
	logger.Info("watch stopped")
	return err
}

// watchRunner re-runs the comparison and prints each successful report.
type watchRunner struct {
	comps    *components
	out      io.Writer
	format   report.Format
	colorize bool
	reports  int
}

// run prints a fresh report and reports whether it did. A failed comparison
// is logged and leaves the output untouched so the watch can carry on.
func (w *watchRunner) run(ctx context.Context) bool {
	res, err := w.comps.run(ctx)
	if err != nil {
		w.comps.Logger.Error("comparison failed", "error", err)
		return false
	}
	if w.reports > 0 {
		fmt.Fprintf(w.out, "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
	}
	w.reports++
	if err := report.Write(w.out, res, w.format, w.colorize); err != nil {
		w.comps.Logger.Error("writing report", "error", err)
		return false
	}
	return true
}

// watchTexts calls run after each burst of changes to one of the named
// documents in dir, until ctx is done.
func watchTexts(ctx context.Context, dir string, names []string, debounce time.Duration, run func(), logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	return watchLoop(ctx, w.Events, w.Errors, documentFilter(names), debounce, run, logger)
}

// documentFilter matches paths whose file name is <name>.txt for one of names.
func documentFilter(names []string) func(path string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n+".txt"] = true
	}
	return func(path string) bool {
		return set[filepath.Base(path)]
	}
}

const watchedOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// watchLoop debounces matching events and calls run once per quiet period.
// It returns nil when ctx is done or the event channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, match func(string) bool, debounce time.Duration, run func(), logger *slog.Logger) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Op&watchedOps == 0 || !match(ev.Name) {
				continue
			}
			logger.Debug("document changed", "path", ev.Name, "op", strings.ToLower(ev.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-timer.C:
			run()
		}
	}
}
