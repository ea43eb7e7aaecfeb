// Package metrics holds the Prometheus instruments for the search worker.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request status labels.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusIgnored = "ignored"
)

// Metrics holds all worker metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	WorkerRequestsTotal   *prometheus.CounterVec
	WorkerRequestDuration *prometheus.HistogramVec
	IndexDocuments        prometheus.Gauge
	SearchCacheTotal      *prometheus.CounterVec
	WorkersActive         prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		WorkerRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notevault_worker_requests_total",
				Help: "Total number of requests handled by the search worker",
			},
			[]string{"op", "status"},
		),
		WorkerRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notevault_worker_request_duration_seconds",
				Help:    "Time spent handling a search worker request",
				Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
			},
			[]string{"op"},
		),
		IndexDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notevault_index_documents",
			Help: "Number of documents in the search index",
		}),
		SearchCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notevault_search_cache_total",
				Help: "Search result cache lookups by result",
			},
			[]string{"result"},
		),
		WorkersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notevault_workers_active",
			Help: "Number of running search workers",
		}),
	}

	m.registry.MustRegister(
		m.WorkerRequestsTotal,
		m.WorkerRequestDuration,
		m.IndexDocuments,
		m.SearchCacheTotal,
		m.WorkersActive,
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one worker request.
func (m *Metrics) ObserveRequest(op, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.WorkerRequestsTotal.WithLabelValues(op, status).Inc()
	m.WorkerRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SetDocuments records the current index size.
func (m *Metrics) SetDocuments(n int) {
	if m == nil {
		return
	}
	m.IndexDocuments.Set(float64(n))
}

// CacheHit records a search served from the result cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.SearchCacheTotal.WithLabelValues("hit").Inc()
}

// CacheMiss records a search that ran against the index.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.SearchCacheTotal.WithLabelValues("miss").Inc()
}

// WorkerStarted records a worker start.
func (m *Metrics) WorkerStarted() {
	if m == nil {
		return
	}
	m.WorkersActive.Inc()
}

// WorkerStopped records a worker stop.
func (m *Metrics) WorkerStopped() {
	if m == nil {
		return
	}
	m.WorkersActive.Dec()
}
