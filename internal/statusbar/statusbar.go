// Package statusbar drives a set of widgets and writes their values as an
// i3bar JSON stream.
package statusbar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ngrash/statusclock/internal/metrics"
	"github.com/ngrash/statusclock/internal/widget"
)

// Header opens the stream: the protocol version, the start of the endless
// array and an empty first line so that every later line starts with a comma.
const Header = "{\"version\":1}\n[\n[]\n"

// Options configures a Bar.
type Options struct {
	// Interval between two lines. It also bounds how long a line waits for
	// a single widget.
	Interval time.Duration
	// Order lists the widgets shown on each line.
	Order  []string
	Out    io.Writer
	Logger *slog.Logger
}

// Bar owns one executor per widget.
type Bar struct {
	opts      Options
	executors map[string]*executor
	logger    *slog.Logger
}

// New checks that every name in opts.Order refers to one of widgets.
func New(opts Options, widgets ...widget.Widget) (*Bar, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", opts.Interval)
	}
	if opts.Out == nil {
		return nil, errors.New("no output writer")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b := &Bar{opts: opts, executors: make(map[string]*executor, len(widgets)), logger: logger}
	for _, w := range widgets {
		if _, dup := b.executors[w.Name()]; dup {
			return nil, fmt.Errorf("duplicate widget %q", w.Name())
		}
		b.executors[w.Name()] = newExecutor(w, logger)
	}
	var errs []error
	for _, name := range opts.Order {
		if _, ok := b.executors[name]; !ok {
			errs = append(errs, fmt.Errorf("unknown widget %q", name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return b, nil
}

// Run updates all widgets, writes Header and then one line per interval
// until ctx is done. It returns nil on cancellation and the error of a
// failed write otherwise.
func (b *Bar) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()
	for _, e := range b.executors {
		e := e
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.run(ctx)
		}()
	}

	b.updateAll()
	if _, err := io.WriteString(b.opts.Out, Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	ticker := time.NewTicker(b.opts.Interval)
	defer ticker.Stop()
	for {
		line := b.collect(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if _, err := fmt.Fprintf(b.opts.Out, ",%s\n", line); err != nil {
			return fmt.Errorf("write line: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.updateAll()
		}
	}
}

func (b *Bar) updateAll() {
	for _, e := range b.executors {
		e.requestUpdate()
	}
}

// collect asks each widget in order for its value. Widgets that fail are
// logged and left out of the line.
func (b *Bar) collect(ctx context.Context) []byte {
	start := time.Now()
	defer func() { metrics.BatchDuration.Observe(time.Since(start).Seconds()) }()

	values := make([]json.RawMessage, 0, len(b.opts.Order))
	for _, name := range b.opts.Order {
		raw, err := b.executors[name].requestValue(ctx, b.opts.Interval)
		if err == nil && !json.Valid(raw) {
			err = fmt.Errorf("invalid JSON %q", raw)
		}
		if err != nil {
			metrics.WidgetValueErrors.WithLabelValues(name).Inc()
			b.logger.Warn("invalid widget value", "widget", name, "err", err)
			continue
		}
		values = append(values, raw)
	}
	line, err := json.Marshal(values)
	if err != nil {
		b.logger.Error("encode line", "err", err)
		return []byte("[]")
	}
	return line
}
