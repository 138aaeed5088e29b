package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ngrash/statusclock/internal/config"
)

var (
	// Global flags
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "statusclock",
	Short: "i3bar status line with a TZif based clock",
	Long: `statusclock prints an endless i3bar JSON stream. The clock derives its
UTC offset from a TZif file (/etc/localtime by default); further widgets show
the first line of a file, such as a battery capacity from sysfs. Zone files
written by zic do not decode, so for them the clock uses time.fallback_offset.

Without a subcommand statusclock behaves like "statusclock run".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBar(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration")
}

func execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configPath, or returns the defaults when no path is set.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Parse(nil)
	}
	return config.Load(configPath)
}

// newLogger writes JSON logs to stderr; stdout carries the status stream.
// STATUSCLOCK_LOG_LEVEL overrides the configured level.
func newLogger(level string) *slog.Logger {
	if env := os.Getenv("STATUSCLOCK_LOG_LEVEL"); env != "" {
		level = env
	}
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelWarn
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: true,
	})
	return slog.New(handler).With("component", "statusclock")
}
