package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Claim outcomes
const (
	ClaimClaimed  = "claimed"
	ClaimConflict = "conflict"
	ClaimNotFound = "not_found"
	ClaimInvalid  = "invalid"
	ClaimError    = "error"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	taskClaims      *prometheus.CounterVec
	uploads         *prometheus.CounterVec
	orphansDeleted  prometheus.Counter
}

// New creates and registers all collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		taskClaims: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scug_task_claims_total",
				Help: "Task claim attempts by outcome",
			},
			[]string{"outcome"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scug_uploads_total",
				Help: "Uploaded objects by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		orphansDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scug_orphan_objects_deleted_total",
				Help: "Unreferenced storage objects removed by the sweeper",
			},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.taskClaims,
		m.uploads,
		m.orphansDeleted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies per route
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			m.requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			m.requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// ObserveClaim counts one claim attempt
func (m *Metrics) ObserveClaim(outcome string) {
	if m == nil {
		return
	}
	m.taskClaims.WithLabelValues(outcome).Inc()
}

// ObserveUpload counts one uploaded object
func (m *Metrics) ObserveUpload(kind string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.uploads.WithLabelValues(kind, outcome).Inc()
}

// AddOrphansDeleted counts objects removed by the sweeper
func (m *Metrics) AddOrphansDeleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.orphansDeleted.Add(float64(n))
}
