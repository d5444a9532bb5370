package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type AppMetrics struct {
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	activeConnections prometheus.Gauge
	taskOperations    *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	rateLimitHits     *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		activeConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Number of active HTTP connections",
			},
		),
		taskOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "task_operations_total",
				Help: "Total number of task operations",
			},
			[]string{"operation", "result"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "response_cache_hits_total",
				Help: "Total number of response cache hits",
			},
			[]string{"path"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "response_cache_misses_total",
				Help: "Total number of response cache misses",
			},
			[]string{"path"},
		),
		rateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_rejections_total",
				Help: "Total number of rate limited requests",
			},
			[]string{"path"},
		),
	}

	registry.MustRegister(
		metrics.requestDuration,
		metrics.requestTotal,
		metrics.activeConnections,
		metrics.taskOperations,
		metrics.cacheHits,
		metrics.cacheMisses,
		metrics.rateLimitHits,
	)

	return metrics
}

func (m *AppMetrics) RecordRequest(method, path, status string, duration time.Duration) {
	m.requestTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func (m *AppMetrics) IncrementActiveConnections() {
	m.activeConnections.Inc()
}

func (m *AppMetrics) DecrementActiveConnections() {
	m.activeConnections.Dec()
}

func (m *AppMetrics) RecordTaskOperation(operation, result string) {
	m.taskOperations.WithLabelValues(operation, result).Inc()
}

func (m *AppMetrics) RecordCacheHit(path string) {
	m.cacheHits.WithLabelValues(path).Inc()
}

func (m *AppMetrics) RecordCacheMiss(path string) {
	m.cacheMisses.WithLabelValues(path).Inc()
}

func (m *AppMetrics) RecordRateLimitRejection(path string) {
	m.rateLimitHits.WithLabelValues(path).Inc()
}
