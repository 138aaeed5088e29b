package config

import (
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	data := []byte(`
interval: 5s
log_level: debug
colors:
  neutral: "#AAAAAA"
time:
  file: /usr/share/zoneinfo/Europe/Berlin
  byte_order: big
  select_offset: false
  fallback_offset: 3600
files:
  - name: battery
    path: /sys/class/power_supply/BAT0/capacity
order: [battery, time]
`)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, "#AAAAAA", cfg.Colors.Neutral)
	assert.Equal(t, "/usr/share/zoneinfo/Europe/Berlin", cfg.Time.File)
	assert.False(t, cfg.Time.SelectOffset)
	assert.Equal(t, int64(3600), cfg.Time.FallbackOffset)
	assert.Equal(t, []string{"battery", "time"}, cfg.Order)

	order, err := cfg.Time.Order()
	require.NoError(t, err)
	assert.Equal(t, binary.BigEndian, order)

	level, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("files:\n  - name: temp\n    path: /tmp/temp\n"))
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, "/etc/localtime", cfg.Time.File)
	assert.True(t, cfg.Time.SelectOffset)
	assert.Equal(t, []string{"time", "temp"}, cfg.Order)

	order, err := cfg.Time.Order()
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, order)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"negative interval": "interval: -1s\n",
		"bad byte order":    "time:\n  byte_order: middle\n",
		"unknown widget":    "order: [time, wifi]\n",
		"duplicate order":   "order: [time, time]\n",
		"file without path": "files:\n  - name: x\n",
		"shadowed time":     "files:\n  - name: time\n    path: /x\n",
		"bad level":         "log_level: loud\n",
		"not yaml":          "interval: [\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
