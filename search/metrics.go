package search

import (
	"time"

	"github.com/aluiziolira/go-bookscout/fetch"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the aggregated search.
type Metrics struct {
	Registry              *prometheus.Registry
	ExternalRequestsTotal *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookscout_external_requests_total",
			Help: "Total calls to external services by outcome.",
		},
		[]string{"service", "outcome"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookscout_external_request_duration_seconds",
			Help:    "Latency of external service calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookscout_cache_hits_total",
			Help: "Total catalog responses served from the disk cache.",
		},
	)
	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookscout_cache_misses_total",
			Help: "Total catalog requests that went to the network.",
		},
	)

	registry.MustRegister(requests, requestDuration, cacheHits, cacheMisses)

	return &Metrics{
		Registry:              registry,
		ExternalRequestsTotal: requests,
		RequestDuration:       requestDuration,
		CacheHitsTotal:        cacheHits,
		CacheMissesTotal:      cacheMisses,
	}
}

// ObserveCall records one external call's outcome and latency.
func (m *Metrics) ObserveCall(service string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.ExternalRequestsTotal.WithLabelValues(service, fetch.Label(err)).Inc()
	m.RequestDuration.WithLabelValues(service).Observe(d.Seconds())
}

// CacheHit implements cache.Recorder.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// CacheMiss implements cache.Recorder.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}
