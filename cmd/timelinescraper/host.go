package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgoulah/timelinescraper/internal/messaging"
	"github.com/spf13/cobra"
)

var hostVerbose bool

var hostCmd = &cobra.Command{
	Use:   "host [origin]",
	Short: "Run as the browser extension's native messaging host",
	Long: `Speaks the native messaging protocol on stdin/stdout. The browser passes
the calling extension's origin as the first argument. A "timeline" message is
answered with "toast" after the configured delay; other messages are ignored.
Logs go to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHost,
	// Windows hosts also receive --parent-window=<handle>
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
}

func init() {
	hostCmd.Flags().BoolVar(&hostVerbose, "verbose", false, "Log every message at debug level")
	rootCmd.AddCommand(hostCmd)
}

func runHost(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if hostVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var origin string
	if len(args) > 0 {
		origin = args[0]
	}

	listener := messaging.NewTimelineListener(cfg.Host.GetResponseDelay())
	defer listener.Stop()

	rt := messaging.NewRuntime(logger)
	rt.OnInstalled(func(r *messaging.Runtime) {
		r.AddListener(listener)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := messaging.NewHost(rt, os.Stdin, os.Stdout, origin, logger)
	if err := host.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serving native messages: %w", err)
	}
	return nil
}
