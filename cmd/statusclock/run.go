package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ngrash/statusclock/internal/clock"
	"github.com/ngrash/statusclock/internal/metrics"
	"github.com/ngrash/statusclock/internal/statusbar"
	"github.com/ngrash/statusclock/internal/widget"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Print the status line until interrupted",
		Long: `The run command prints the i3bar header and then one line per interval.

Example i3 configuration:
  bar {
    status_command statusclock run --config ~/.config/statusclock.yaml
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBar(cmd)
		},
	})
}

func runBar(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	widgets := []widget.Widget{
		widget.NewTime(cfg.Time, cfg.Colors.Neutral, clock.Realtime{}, logger),
	}
	for _, f := range cfg.Files {
		widgets = append(widgets, widget.NewFile(f, cfg.Colors.Neutral))
	}

	bar, err := statusbar.New(statusbar.Options{
		Interval: cfg.Interval,
		Order:    cfg.Order,
		Out:      cmd.OutOrStdout(),
		Logger:   logger,
	}, widgets...)
	if err != nil {
		return fmt.Errorf("create bar: %w", err)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics server failed", "addr", cfg.MetricsAddr, "err", err)
			}
		}()
	}

	logger.Info("starting", "interval", cfg.Interval, "widgets", cfg.Order)
	return bar.Run(ctx)
}
