// Package metrics provides Prometheus metrics for textlake.
package metrics

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the service, registered on
// their own registry so tests can build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// startup coordination metrics
	StartupOutcomesTotal *prometheus.CounterVec
	DocumentsSeeded      prometheus.Gauge

	// analysis metrics
	AnalysesComputedTotal prometheus.Counter
	AnalysesStoredTotal   prometheus.Counter
}

// New creates and registers all metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textlake_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "textlake_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.StartupOutcomesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textlake_startup_outcomes_total",
			Help: "Startup coordination outcomes observed by this process",
		},
		[]string{"outcome"},
	)

	m.DocumentsSeeded = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "textlake_documents_seeded",
			Help: "Number of corpus documents loaded at startup by this process",
		},
	)

	m.AnalysesComputedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "textlake_analyses_computed_total",
			Help: "Total number of analyses computed",
		},
	)

	m.AnalysesStoredTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "textlake_analyses_stored_total",
			Help: "Total number of analyses persisted",
		},
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}),
	)
}

// Middleware counts and times every request by route template, so
// `/files/:id` stays one series no matter how many ids are hit.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			method := c.Request().Method

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			m.HTTPRequestsTotal.WithLabelValues(
				method, path, statusText(status),
			).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func statusText(status int) string {
	// small, fixed label space
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
