package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/ngrash/statusclock/civil"
	"github.com/ngrash/statusclock/internal/clock"
	"github.com/ngrash/statusclock/internal/config"
	"github.com/ngrash/statusclock/internal/metrics"
	"github.com/ngrash/statusclock/tzif"
)

// Time shows the local wall-clock time. Its UTC offset is derived once, when
// the widget is created.
type Time struct {
	color  string
	offset int64
	clock  clock.Source
	logger *slog.Logger

	mu   sync.RWMutex
	text string
}

// NewTime reads and decodes cfg.File and derives the UTC offset. Failures are
// logged and replaced by cfg.FallbackOffset; NewTime itself cannot fail.
func NewTime(cfg config.TimeConfig, neutral string, src clock.Source, logger *slog.Logger) *Time {
	logger = logger.With("widget", config.TimeWidgetName)
	color := cfg.Color
	if color == "" {
		color = neutral
	}
	t := &Time{
		color:  color,
		clock:  src,
		logger: logger,
	}
	offset, err := deriveOffset(cfg, src, logger)
	if err != nil {
		metrics.TZDecodeFallbacks.WithLabelValues(fallbackReason(err)).Inc()
		logger.Warn("using fallback UTC offset", "file", cfg.File, "offset", cfg.FallbackOffset, "err", err)
		offset = cfg.FallbackOffset
	}
	t.offset = offset
	metrics.TZOffsetSeconds.Set(float64(offset))
	return t
}

var errClock = errors.New("clock unavailable")

func deriveOffset(cfg config.TimeConfig, src clock.Source, logger *slog.Logger) (int64, error) {
	order, err := cfg.Order()
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return 0, err
	}
	h, b, err := tzif.Decode(data, order)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", cfg.File, err)
	}
	if err := tzif.Inspect(h, b); err != nil {
		logger.Debug("tzif records dropped", "file", cfg.File, "version", h.Version.String(), "detail", err.Error())
	}
	if !cfg.SelectOffset {
		return cfg.FallbackOffset, nil
	}
	now, err := src.Now()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errClock, err)
	}
	lt, err := tzif.Lookup(h, b, now)
	if err != nil {
		return 0, fmt.Errorf("lookup offset in %s: %w", cfg.File, err)
	}
	logger.Debug("selected local time type", "utoff", lt.Utoff, "dst", lt.IsDST())
	return int64(lt.Utoff), nil
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return "read"
	case errors.Is(err, tzif.ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, tzif.ErrBadVersion):
		return "bad_version"
	case errors.Is(err, tzif.ErrBufferUnderrun):
		return "underrun"
	case errors.Is(err, tzif.ErrUnaligned), errors.Is(err, tzif.ErrNoLocalTimeTypes):
		return "lookup"
	case errors.Is(err, errClock):
		return "clock"
	}
	return "other"
}

// Name implements Widget.
func (t *Time) Name() string { return config.TimeWidgetName }

// Offset returns the UTC offset in seconds added to the wall clock.
func (t *Time) Offset() int64 { return t.offset }

// Text returns the last rendered time.
func (t *Time) Text() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.text
}

// Update reads the wall clock and renders it as local time. On failure the
// previous text is kept.
func (t *Time) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now, err := t.clock.Now()
	if err != nil {
		return fmt.Errorf("read clock: %w", err)
	}
	s, err := civil.Format(now + t.offset)
	if err != nil {
		return fmt.Errorf("render time: %w", err)
	}
	t.mu.Lock()
	t.text = s
	t.mu.Unlock()
	return nil
}

// Value implements Widget.
func (t *Time) Value() (json.RawMessage, error) {
	offset := t.offset
	return encode(Block{
		Name:     t.Name(),
		FullText: t.Text(),
		Color:    t.color,
		TZOffset: &offset,
	})
}
