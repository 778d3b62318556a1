// Package metrics exposes pipeline and HTTP metrics for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"donor-reconciler/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "donor_reconciler"

// Metrics implements ports.PipelineMetrics on a private registry.
type Metrics struct {
	registry       *prometheus.Registry
	events         *prometheus.CounterVec
	stepFailures   *prometheus.CounterVec
	handleDuration *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registers every collector. Go runtime and process collectors are
// included.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Webhook events handled, by gateway and outcome.",
		}, []string{"gateway", "outcome"}),
		stepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_failures_total",
			Help:      "Side-effect step failures, by gateway and step.",
		}, []string{"gateway", "step"}),
		handleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_handle_seconds",
			Help:      "Time to reconcile one webhook event.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"gateway"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.events,
		m.stepFailures,
		m.handleDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObserveEvent records one handled event.
func (m *Metrics) ObserveEvent(gateway domain.Gateway, outcome string, elapsed time.Duration) {
	m.events.WithLabelValues(string(gateway), outcome).Inc()
	m.handleDuration.WithLabelValues(string(gateway)).Observe(elapsed.Seconds())
}

// ObserveStepFailure records the step an event stopped at.
func (m *Metrics) ObserveStepFailure(gateway domain.Gateway, step domain.StepName) {
	m.stepFailures.WithLabelValues(string(gateway), string(step)).Inc()
}

// ObserveRequest records one HTTP request. route is the matched pattern,
// never the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
