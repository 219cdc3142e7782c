// Package metrics provides Prometheus metrics for the reminder sweeps, the
// notification dispatcher and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pg-management/pg-server/internal/models"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	sweepsTotal        *prometheus.CounterVec
	sweepDuration      *prometheus.HistogramVec
	eventsTotal        *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// NewMetrics creates metrics registered on reg. Tests pass a fresh
// prometheus.NewRegistry(); the server passes the default registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		sweepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pg_reminder_sweeps_total",
				Help: "Total number of reminder sweeps by monitor and result",
			},
			[]string{"monitor", "result"},
		),
		sweepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pg_reminder_sweep_duration_seconds",
				Help:    "Reminder sweep duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"monitor"},
		),
		eventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pg_reminder_events_total",
				Help: "Total number of sweep events by monitor and kind",
			},
			[]string{"monitor", "kind"},
		),
		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pg_notifications_total",
				Help: "Total number of notification attempts by result",
			},
			[]string{"result"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pg_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pg_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
	}
}

// RecordSweep records one completed sweep and the events it produced.
// A sweep whose events include an error counts as result "error".
func (m *Metrics) RecordSweep(monitor models.Monitor, duration time.Duration, events []models.SweepEvent) {
	if m == nil {
		return
	}

	result := "ok"
	for _, ev := range events {
		m.eventsTotal.WithLabelValues(string(monitor), string(ev.Kind)).Inc()
		if ev.IsError() {
			result = "error"
		}
	}

	m.sweepsTotal.WithLabelValues(string(monitor), result).Inc()
	m.sweepDuration.WithLabelValues(string(monitor)).Observe(duration.Seconds())
}

// RecordNotification records a notification attempt. result is one of
// "sent", "failed" or "disabled".
func (m *Metrics) RecordNotification(result string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(result).Inc()
}

// Handler returns the scrape handler for the registry the metrics live on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
