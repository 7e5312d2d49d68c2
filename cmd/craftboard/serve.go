package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jpalmerr/craftboard"
	"github.com/jpalmerr/craftboard/config"
	"github.com/jpalmerr/craftboard/internal/logging"
)

const (
	shutdownTimeout = 10 * time.Second
)

// serveCmd starts the craftboard status page.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status page server",
	Long: `Start the craftboard status page server.

The server will:
  - Load configuration from the optional YAML file
  - Apply flag and CRAFTBOARD_* environment overrides
  - Poll the Minecraft server immediately, then every poll interval
  - Serve the status page on the configured port

With --watch, edits to the config file's title, tagline, background and
features are applied without a restart.

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  craftboard serve -c config.yaml
  craftboard serve --address play.example.net --port 9090
  CRAFTBOARD_SERVER_ADDRESS=play.example.net craftboard serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file")
	serveCmd.Flags().Bool("watch", false, "reload presentation settings when the config file changes")
	addOverrideFlags(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	v, err := newOverrides(cmd.Flags())
	if err != nil {
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := resolveConfig(configFile, v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Log.Options())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer closer.Close()

	logger.Info("config loaded",
		"address", cfg.ServerAddress,
		"features", len(cfg.Features),
	)
	logger.Info("starting server",
		"port", cfg.Port,
		"poll_interval", cfg.PollInterval.Duration().String(),
	)

	cb, err := craftboard.New(cfg.ServerAddress, config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create craftboard: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watch, _ := cmd.Flags().GetBool("watch")
	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch requires --config")
		}
		if err := startWatcher(ctx, configFile, v, cfg, cb, logger); err != nil {
			return err
		}
	}

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- cb.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}

// startWatcher applies presentation changes from the config file while
// running. Other settings need a restart.
func startWatcher(ctx context.Context, path string, v *viper.Viper, initial *config.Config, cb *craftboard.Craftboard, logger *slog.Logger) error {
	load := func(p string) (*config.Config, error) {
		return resolveConfig(p, v)
	}
	onChange := func(next *config.Config) {
		cb.SetPage(config.BuildPage(next))
		if restartRequired(initial, next) {
			logger.Warn("config change needs a restart to take effect",
				"address", next.ServerAddress,
				"port", next.Port,
				"poll_interval", next.PollInterval.Duration().String(),
			)
		}
	}

	w, err := config.NewWatcher(path, load, onChange, logger)
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}
	return nil
}

// restartRequired reports whether next changes a setting that is fixed once
// the server is running.
func restartRequired(current, next *config.Config) bool {
	return current.ServerAddress != next.ServerAddress ||
		current.Port != next.Port ||
		current.PollInterval != next.PollInterval ||
		current.APIBaseURL != next.APIBaseURL ||
		current.UserAgent != next.UserAgent ||
		current.Log != next.Log
}
