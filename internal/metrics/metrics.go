// Package metrics holds the Prometheus collectors for upstream calls,
// fan-out latency and report persistence outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service collectors behind a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamSeconds  *prometheus.HistogramVec
	fanoutSeconds    prometheus.Histogram
	reports          *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_upstream_requests_total",
			Help: "Upstream provider requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		upstreamSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weather_upstream_request_duration_seconds",
			Help:    "Upstream provider request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		fanoutSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "weather_fanout_duration_seconds",
			Help:    "Wall-clock time of the concurrent upstream fan-out.",
			Buckets: prometheus.DefBuckets,
		}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_reports_total",
			Help: "Reports reaching a terminal persistence state.",
		}, []string{"state"}),
	}

	registry.MustRegister(m.upstreamRequests, m.upstreamSeconds, m.fanoutSeconds, m.reports)
	return m
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamSeconds.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveFanout records the duration of one fan-out.
func (m *Metrics) ObserveFanout(d time.Duration) {
	if m == nil {
		return
	}
	m.fanoutSeconds.Observe(d.Seconds())
}

// ObserveReport counts a report reaching a terminal persistence state.
func (m *Metrics) ObserveReport(state string) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(state).Inc()
}

// ReportsCounter returns the counter for one report state.
func (m *Metrics) ReportsCounter(state string) prometheus.Counter {
	return m.reports.WithLabelValues(state)
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
