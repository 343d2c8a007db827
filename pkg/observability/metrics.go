package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/abacus/pkg/domain"
)

// Metrics holds the Prometheus collectors of one process.
// Each Metrics owns its registry so tests and multiple servers don't collide.
type Metrics struct {
	registry *prometheus.Registry

	Events      *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	UnknownKeys prometheus.Counter
	AngleModes  *prometheus.CounterVec
	Requests    *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_events_total",
				Help: "Total number of reduced input events",
			},
			[]string{"kind"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_errors_total",
				Help: "Total number of reductions that entered the error state",
			},
			[]string{"kind"},
		),
		UnknownKeys: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "abacus_unknown_keys_total",
				Help: "Total number of rejected key tokens",
			},
		),
		AngleModes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_angle_mode_changes_total",
				Help: "Total number of angle mode changes",
			},
			[]string{"mode"},
		),
		Requests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abacus_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
	m.registry.MustRegister(
		m.Events, m.Errors, m.UnknownKeys, m.AngleModes, m.Requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks that record engine activity.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReduce: func(_ context.Context, e *domain.ReduceEvent) {
			m.Events.WithLabelValues(string(e.Input.Kind)).Inc()
		},
		OnError: func(_ context.Context, e *domain.ErrorEvent) {
			m.Errors.WithLabelValues(string(e.Kind)).Inc()
		},
		OnAngleMode: func(_ context.Context, mode domain.AngleMode) {
			m.AngleModes.WithLabelValues(string(mode)).Inc()
		},
		OnUnknownKey: func(_ context.Context, _ string) {
			m.UnknownKeys.Inc()
		},
	}
}

// Middleware times requests by their chi route pattern, keeping label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
