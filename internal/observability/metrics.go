package observability

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics bundles the Prometheus collectors shared across the HTTP layer
// and the engine.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge

	errors *prometheus.CounterVec

	eventsPublished  *prometheus.CounterVec
	ticketsProcessed *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "support_engine_http_requests_total",
				Help: "Total count of HTTP requests received.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "support_engine_http_request_duration_seconds",
				Help:    "Histogram of request durations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "support_engine_http_inflight_requests",
			Help: "Number of requests currently being handled.",
		}),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "support_engine_http_errors_total",
				Help: "Requests answered with an error envelope, by code.",
			},
			[]string{"method", "path", "code"},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "support_engine_events_published_total",
				Help: "Domain events published, by event type.",
			},
			[]string{"type"},
		),
		ticketsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "support_engine_tickets_processed_total",
				Help: "Resolution passes applied to tickets, by outcome.",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(m.requests, m.duration, m.inFlight, m.errors, m.eventsPublished, m.ticketsProcessed)
	return m
}

// Handler exposes the registry for a /metrics route.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// RecordError counts a request answered with an error envelope.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

// RecordEvent counts a published domain event.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType).Inc()
}

// RecordTicketProcessed counts a resolution pass by outcome.
func (m *Metrics) RecordTicketProcessed(outcome string) {
	if m == nil {
		return
	}
	m.ticketsProcessed.WithLabelValues(outcome).Inc()
}

// RequestLogger logs each request and feeds the HTTP collectors.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if metrics != nil {
			metrics.inFlight.Inc()
			defer metrics.inFlight.Dec()
		}

		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		path := sanitizePath(c.Route().Path, c.Path())

		if metrics != nil {
			labels := []string{c.Method(), path, strconv.Itoa(status)}
			metrics.requests.WithLabelValues(labels...).Inc()
			metrics.duration.WithLabelValues(labels...).Observe(elapsed.Seconds())
		}

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		)
		return err
	}
}

// sanitizePath keeps label cardinality bounded: prefer the route pattern
// (which carries :params instead of values), fall back to the raw path.
func sanitizePath(routePath, rawPath string) string {
	if routePath != "" && routePath != "/" {
		return routePath
	}
	if rawPath == "" {
		return "/"
	}
	segments := strings.Split(rawPath, "/")
	if len(segments) > 4 {
		segments = append(segments[:4], "...")
	}
	return strings.Join(segments, "/")
}
