// Package metrics exposes Prometheus instrumentation for the asset facade.
//
// Each [Metrics] owns its own registry so that several AssetBoard instances
// (and tests) can coexist in one process.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpalmerr/assetboard/asset"
)

const namespace = "assetboard"

// Metrics collects fetch and view counters.
type Metrics struct {
	registry      *prometheus.Registry
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	emissions     *prometheus.CounterVec
}

// New creates a [Metrics] with a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Completed dependent fetches by outcome (applied, discarded, failed).",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of dependent fetches in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),
		emissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "view_emissions_total",
				Help:      "Values emitted by the facade views.",
			},
			[]string{"view"},
		),
	}

	m.registry.MustRegister(
		m.fetches,
		m.fetchDuration,
		m.emissions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveFetch records a completed fetch.
func (m *Metrics) ObserveFetch(res asset.FetchResult) {
	m.fetches.WithLabelValues(res.Outcome()).Inc()
	m.fetchDuration.Observe(res.Latency.Seconds())
}

// ObserveEmission records one emission of the named view.
func (m *Metrics) ObserveEmission(view string) {
	m.emissions.WithLabelValues(view).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
