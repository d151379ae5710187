// Package metrics exposes Prometheus instruments for the scraper.
//
// A Metrics value owns its own registry so tests and multiple servers in
// one process do not collide on registration. All methods are safe on a
// nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "event_scraper"

// Metrics holds the scraper's instruments.
type Metrics struct {
	registry *prometheus.Registry

	tierAttempts  *prometheus.CounterVec
	tierDuration  *prometheus.HistogramVec
	results       *prometheus.CounterVec
	listingEvents *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates and registers the instruments on a fresh registry, together
// with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.tierAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tier_attempts_total",
		Help:      "Retrieval tier attempts by tier and outcome",
	}, []string{"tier", "outcome"})
	m.tierDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tier_duration_seconds",
		Help:      "Time spent in each retrieval tier",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"tier"})
	m.results = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "results_total",
		Help:      "Completed operations by operation and final scrape method",
	}, []string{"operation", "method"})
	m.listingEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_events_total",
		Help:      "Events found by listing searches, by retry strategy",
	}, []string{"strategy"})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Tool API requests by tool and status code",
	}, []string{"tool", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Tool API request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tool"})

	m.registry.MustRegister(
		m.tierAttempts, m.tierDuration, m.results,
		m.listingEvents, m.httpRequests, m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTier records one tier attempt.
func (m *Metrics) ObserveTier(tier string, success bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.tierAttempts.WithLabelValues(tier, outcome).Inc()
	m.tierDuration.WithLabelValues(tier).Observe(d.Seconds())
}

// ObserveResult records the final scrape method of an operation.
func (m *Metrics) ObserveResult(operation, method string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(operation, method).Inc()
}

// ObserveListing records the events found by a listing search.
func (m *Metrics) ObserveListing(strategy string, found int) {
	if m == nil {
		return
	}
	m.listingEvents.WithLabelValues(strategy).Add(float64(found))
}

// ObserveRequest records one tool API request.
func (m *Metrics) ObserveRequest(tool string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(tool, http.StatusText(status)).Inc()
	m.httpDuration.WithLabelValues(tool).Observe(d.Seconds())
}
