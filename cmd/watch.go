package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tagforge/internal/document"
	"github.com/conneroisu/tagforge/internal/logging"
	"github.com/conneroisu/tagforge/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-validate markup sources on change",
	Long: `Watch monitors the given paths (or the configured scan paths) and
re-validates every changed markup source. Changes arriving in a quick
burst are checked once.

Examples:
  tagforge watch ./templates
  tagforge watch page.html footer.html`,
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg).WithComponent("watch")

	paths := args
	if len(paths) == 0 {
		paths = cfg.Scan.Paths
	}

	fileWatcher, err := watcher.New(cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.MarkupFilter(cfg.Scan.Extensions))

	for _, path := range paths {
		if err := fileWatcher.AddPath(path); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			if event.Type == watcher.EventTypeDeleted {
				logger.Info(ctx, "source removed", "path", event.Path)
				continue
			}
			checkChanged(ctx, logger, event.Path)
		}
		return nil
	})

	fileWatcher.Start(ctx)
	logger.Info(ctx, "watching for changes", "paths", paths)

	<-ctx.Done()

	return nil
}

func checkChanged(ctx context.Context, logger logging.Logger, path string) {
	name, contents, err := readSource(path)
	if err != nil {
		logger.Warn(ctx, err, "cannot read source", "path", path)
		return
	}

	doc, err := document.Parse(name, contents)
	if err != nil {
		logger.Warn(ctx, err, "parse failed", "path", path)
		return
	}

	if err := doc.Validate(); err != nil {
		logger.Warn(ctx, err, "validation failed", "path", path)
		return
	}

	logger.Info(ctx, "source valid", "path", path, "tags", len(doc.Tags()))
}
