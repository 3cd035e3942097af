// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request and workflow metrics for the API and the
// outbox pipeline.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	loginFailures  prometheus.Counter
	leaveDecisions *prometheus.CounterVec
	eventsOutbox   prometheus.Counter
	eventsFlushed  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ems_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ems_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ems_login_failures_total",
			Help: "Rejected login attempts",
		}),
		leaveDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ems_leave_decisions_total",
			Help: "Leave requests decided, by resulting status",
		}, []string{"status"}),
		eventsOutbox: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ems_outbox_events_total",
			Help: "Events written to the transactional outbox",
		}),
		eventsFlushed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ems_outbox_events_flushed_total",
			Help: "Outbox events successfully published to the broker",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.loginFailures,
		c.leaveDecisions,
		c.eventsOutbox,
		c.eventsFlushed,
	)

	return c
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLoginFailure records a rejected login attempt.
func (c *Collector) RecordLoginFailure() {
	c.loginFailures.Inc()
}

// RecordLeaveDecision records an approve or reject decision.
func (c *Collector) RecordLeaveDecision(status string) {
	c.leaveDecisions.WithLabelValues(status).Inc()
}

// RecordOutboxEvent records one event written to the outbox table.
func (c *Collector) RecordOutboxEvent() {
	c.eventsOutbox.Inc()
}

// RecordOutboxFlush records one event handed to the broker.
func (c *Collector) RecordOutboxFlush() {
	c.eventsFlushed.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
