// Package observability provides the structured logger and Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the road safety API.
type Metrics struct {
	RowsLoaded  *prometheus.GaugeVec   // labels: dataset={incidents,facilities}
	RowsDropped *prometheus.CounterVec // labels: dataset={incidents,facilities}

	NearbyQueries *prometheus.CounterVec // labels: outcome={ok,invalid,error}
	NearbyResults prometheus.Histogram

	AlertsDispatched *prometheus.CounterVec // labels: outcome={ok,invalid,error}

	HTTPRequestDuration *prometheus.HistogramVec // labels: method, route, status
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.NearbyQueries,
		m.NearbyResults,
		m.AlertsDispatched,
		m.HTTPRequestDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "roadsafety",
			Name:      "rows_loaded",
			Help:      "Records held in the in-memory store by dataset.",
		}, []string{"dataset"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadsafety",
			Name:      "rows_dropped_total",
			Help:      "Malformed source rows dropped at load time by dataset.",
		}, []string{"dataset"}),
		NearbyQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadsafety",
			Name:      "nearby_queries_total",
			Help:      "Nearby hospital queries by outcome.",
		}, []string{"outcome"}),
		NearbyResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roadsafety",
			Name:      "nearby_results",
			Help:      "Number of hospitals returned per nearby query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		AlertsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadsafety",
			Name:      "alerts_dispatched_total",
			Help:      "Emergency alert dispatches by outcome.",
		}, []string{"outcome"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roadsafety",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// ObserveLoad records the outcome of the startup load.
func (m *Metrics) ObserveLoad(incidentsLoaded, incidentsDropped, facilitiesLoaded, facilitiesDropped int) {
	m.RowsLoaded.WithLabelValues("incidents").Set(float64(incidentsLoaded))
	m.RowsLoaded.WithLabelValues("facilities").Set(float64(facilitiesLoaded))
	m.RowsDropped.WithLabelValues("incidents").Add(float64(incidentsDropped))
	m.RowsDropped.WithLabelValues("facilities").Add(float64(facilitiesDropped))
}
