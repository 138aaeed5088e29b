// Package metrics holds the Prometheus collectors exported by statusclock.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "statusclock"

var (
	WidgetUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_updates_total",
			Help:      "Widget recomputations by widget and status.",
		},
		[]string{"widget", "status"},
	)
	WidgetValueErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_value_errors_total",
			Help:      "Widgets left out of an output batch.",
		},
		[]string{"widget"},
	)
	TZDecodeFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tz_offset_fallbacks_total",
			Help:      "Times the clock fell back to the configured offset, by reason.",
		},
		[]string{"reason"},
	)
	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time spent collecting one line of widget values.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
	TZOffsetSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tz_offset_seconds",
			Help:      "UTC offset applied by the clock widget.",
		},
	)
)

// Registry holds every collector above.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		WidgetUpdates,
		WidgetValueErrors,
		TZDecodeFallbacks,
		BatchDuration,
		TZOffsetSeconds,
	)
}

// Serve exposes Registry on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("metrics listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
