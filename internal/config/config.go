// Package config loads the statusclock YAML configuration.
package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TimeWidgetName is the name of the built-in clock widget.
const TimeWidgetName = "time"

// Config defines the configuration schema.
type Config struct {
	Interval    time.Duration `yaml:"interval"`
	LogLevel    string        `yaml:"log_level"`
	MetricsAddr string        `yaml:"metrics_addr"`
	Colors      Colors        `yaml:"colors"`
	// Order lists widget names in the order they appear on the bar.
	Order []string     `yaml:"order"`
	Time  TimeConfig   `yaml:"time"`
	Files []FileConfig `yaml:"files"`
}

// Colors holds the colors widgets fall back to when they set none.
type Colors struct {
	Neutral string `yaml:"neutral"`
}

// TimeConfig configures the clock widget.
type TimeConfig struct {
	// File is the TZif file the clock derives its UTC offset from.
	File string `yaml:"file"`
	// ByteOrder is "little" (the default) or "big". The decoder reads
	// typecnt leap second records, so files written by zic, which carry
	// leapcnt of them, do not decode in either order and the clock falls
	// back to FallbackOffset.
	ByteOrder string `yaml:"byte_order"`
	// SelectOffset picks the offset from the decoded transitions. When false
	// the clock always uses FallbackOffset.
	SelectOffset bool `yaml:"select_offset"`
	// FallbackOffset is used when the file cannot be read or decoded.
	FallbackOffset int64  `yaml:"fallback_offset"`
	Color          string `yaml:"color"`
}

// FileConfig describes a widget that shows the first line of a file.
type FileConfig struct {
	Name  string `yaml:"name"`
	Path  string `yaml:"path"`
	Color string `yaml:"color"`
}

// Default returns the configuration used for keys missing from the file.
func Default() Config {
	return Config{
		Interval: time.Second,
		LogLevel: "warn",
		Colors:   Colors{Neutral: "#FFFFFF"},
		Time: TimeConfig{
			File:         "/etc/localtime",
			ByteOrder:    "little",
			SelectOffset: true,
		},
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Order) == 0 {
		cfg.Order = append(cfg.Order, TimeWidgetName)
		for _, f := range cfg.Files {
			cfg.Order = append(cfg.Order, f.Name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem found in c.
func (c Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Time.Order(); err != nil {
		errs = append(errs, err)
	}
	if c.Time.File == "" {
		errs = append(errs, errors.New("time.file is required"))
	}

	known := map[string]bool{TimeWidgetName: true}
	for i, f := range c.Files {
		switch {
		case f.Name == "":
			errs = append(errs, fmt.Errorf("files[%d].name is required", i))
		case known[f.Name]:
			errs = append(errs, fmt.Errorf("files[%d]: duplicate widget name %q", i, f.Name))
		}
		if f.Path == "" {
			errs = append(errs, fmt.Errorf("files[%d].path is required", i))
		}
		known[f.Name] = true
	}
	seen := map[string]bool{}
	for _, name := range c.Order {
		if !known[name] {
			errs = append(errs, fmt.Errorf("order: unknown widget %q", name))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("order: widget %q listed twice", name))
		}
		seen[name] = true
	}
	return errors.Join(errs...)
}

// Order returns the byte order named by ByteOrder.
func (t TimeConfig) Order() (binary.ByteOrder, error) {
	switch strings.ToLower(t.ByteOrder) {
	case "little", "":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("time.byte_order: want big or little, got %q", t.ByteOrder)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("log_level: unknown level %q", s)
}
