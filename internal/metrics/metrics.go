package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal *prometheus.CounterVec   // labels: outcome
	FetchDur      *prometheus.HistogramVec // labels: provider
	BuildDur      prometheus.Histogram
	PointsTotal   prometheus.Counter
	PrunedTotal   prometheus.Counter
}

// NewMetrics registers and returns all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Dashboard builds by outcome (ok, empty, error)",
		}, []string{"outcome"}),
		FetchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_fetch_duration_seconds",
			Help:    "Data source latency for daily bar requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		BuildDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_build_duration_seconds",
			Help:    "End-to-end fetch, compute and compose latency",
			Buckets: prometheus.DefBuckets,
		}),
		PointsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_points_total",
			Help: "Total daily bars run through the indicator engine",
		}),
		PrunedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_history_pruned_total",
			Help: "Query log rows removed by the retention job",
		}),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.FetchDur,
		m.BuildDur,
		m.PointsTotal,
		m.PrunedTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }
