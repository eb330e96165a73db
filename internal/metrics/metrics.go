// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "culturemap"

// Collect outcomes, used as the "outcome" label.
const (
	OutcomeAccepted         = "accepted"
	OutcomeMissingLocation  = "missing_location"
	OutcomeSiteNotFound     = "site_not_found"
	OutcomeTooFar           = "too_far"
	OutcomeAlreadyCollected = "already_collected"
	OutcomeStorageFailure   = "storage_failure"
)

type Metrics struct {
	registry *prometheus.Registry

	CollectAttempts *prometheus.CounterVec
	CollectDistance prometheus.Histogram
	HTTPRequests    *prometheus.CounterVec
}

// New creates a registry with Go runtime collectors and the application
// collectors registered on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CollectAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collect_attempts_total",
			Help:      "Footprint collection attempts by outcome.",
		}, []string{"outcome"}),
		CollectDistance: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collect_distance_meters",
			Help:      "Distance between user and site on collection attempts that reached the distance check.",
			Buckets:   []float64{25, 50, 100, 200, 300, 400, 600, 1000, 5000},
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCollect records one collection attempt. distance < 0 means the
// attempt never got as far as measuring.
func (m *Metrics) ObserveCollect(outcome string, distance int) {
	if m == nil {
		return
	}
	m.CollectAttempts.WithLabelValues(outcome).Inc()
	if distance >= 0 {
		m.CollectDistance.Observe(float64(distance))
	}
}

// Middleware counts every request after the handler chain has run.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}
		m.HTTPRequests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		return err
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
