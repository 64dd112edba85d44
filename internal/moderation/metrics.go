package moderation

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robalyx/promptaudit/pkg/audit"
	"go.uber.org/zap"
)

// passedLabel is the trigger label for prompts that passed.
const passedLabel = "passed"

// Metrics holds the worker's Prometheus instruments on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	verdicts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures prometheus.Counter
}

// NewMetrics creates and registers the worker metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptaudit_verdicts_total",
			Help: "Total number of audit verdicts",
		}, []string{"pipeline", "trigger"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "promptaudit_audit_duration_seconds",
			Help:    "Audit latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25},
		}, []string{"pipeline"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptaudit_invalid_requests_total",
			Help: "Total number of requests that could not be decoded",
		}),
	}

	m.registry.MustRegister(m.verdicts, m.duration, m.failures)

	return m
}

// Observe records one verdict and its latency.
func (m *Metrics) Observe(result audit.AuditResult, elapsed time.Duration) {
	trigger := string(result.Trigger)
	if result.Success {
		trigger = passedLabel
	}

	m.verdicts.WithLabelValues(string(result.Pipeline), trigger).Inc()
	m.duration.WithLabelValues(string(result.Pipeline)).Observe(elapsed.Seconds())
}

// InvalidRequest counts a request that could not be served.
func (m *Metrics) InvalidRequest() {
	m.failures.Inc()
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down metrics server", zap.Error(err))
		}
	}()

	logger.Info("Metrics server listening", zap.String("address", addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
