package statusbar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ngrash/statusclock/internal/metrics"
	"github.com/ngrash/statusclock/internal/widget"
)

// ErrPanic wraps a value recovered from a panicking widget.
var ErrPanic = errors.New("widget panicked")

// queueSize bounds the pending commands of one executor. Update requests
// beyond it are dropped since a queued update already covers them.
const queueSize = 4

type command struct {
	// reply is nil for update commands.
	reply chan<- valueResult
}

type valueResult struct {
	raw json.RawMessage
	err error
}

// executor owns one widget. Commands are handled one at a time in the order
// they were queued, so a value requested after an update sees its result.
type executor struct {
	w      widget.Widget
	cmds   chan command
	logger *slog.Logger
}

func newExecutor(w widget.Widget, logger *slog.Logger) *executor {
	return &executor{
		w:      w,
		cmds:   make(chan command, queueSize),
		logger: logger.With("widget", w.Name()),
	}
}

func (e *executor) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-e.cmds:
			if cmd.reply == nil {
				e.update(ctx)
				continue
			}
			raw, err := e.value()
			cmd.reply <- valueResult{raw: raw, err: err}
		}
	}
}

func (e *executor) update(ctx context.Context) {
	start := time.Now()
	err := e.safeUpdate(ctx)
	if err != nil {
		metrics.WidgetUpdates.WithLabelValues(e.w.Name(), "error").Inc()
		e.logger.Warn("widget update failed", "err", err)
		return
	}
	metrics.WidgetUpdates.WithLabelValues(e.w.Name(), "ok").Inc()
	e.logger.Debug("widget updated", "took", time.Since(start))
}

func (e *executor) safeUpdate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return e.w.Update(ctx)
}

func (e *executor) value() (raw json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return e.w.Value()
}

// requestUpdate queues an update without waiting for it.
func (e *executor) requestUpdate() {
	select {
	case e.cmds <- command{}:
	default:
		e.logger.Debug("update dropped, queue full")
	}
}

// requestValue waits up to timeout for the widget's current value.
func (e *executor) requestValue(ctx context.Context, timeout time.Duration) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply := make(chan valueResult, 1)
	select {
	case e.cmds <- command{reply: reply}:
	case <-ctx.Done():
		return nil, fmt.Errorf("queue value request: %w", ctx.Err())
	}
	select {
	case r := <-reply:
		return r.raw, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for value: %w", ctx.Err())
	}
}
