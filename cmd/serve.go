package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/tagforge/internal/server"
	"github.com/conneroisu/tagforge/internal/watcher"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Preview a markup source with live reload",
	Long: `Serve starts a preview server for one markup source. The page shows
the canonically formatted source and its validation status, and reloads
automatically whenever the file changes on disk.

Examples:
  tagforge serve page.html
  tagforge serve --port 9000 page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runServeCommand,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addServerFlags(serveCmd.Flags())
}

// addServerFlags defines the preview server flags and binds them to the
// configuration keys they override.
func addServerFlags(flags *pflag.FlagSet) {
	flags.IntP("port", "p", 8120, "Port for the preview server")
	flags.String("host", "localhost", "Host for the preview server")
	viper.BindPFlag("server.port", flags.Lookup("port"))
	viper.BindPFlag("server.host", flags.Lookup("host"))
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	path := args[0]
	previewServer := server.New(cfg, logger, path)

	fileWatcher, err := watcher.New(cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer fileWatcher.Stop()

	if err := fileWatcher.AddPath(path); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		previewServer.Reload(ctx)
		return nil
	})
	fileWatcher.Start(ctx)

	return previewServer.Start(ctx)
}
