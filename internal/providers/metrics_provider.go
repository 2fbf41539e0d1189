package providers

import (
	"protostats/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveRefreshDuration(duration time.Duration)
	IncRefreshFailures()
	ObserveAnalysisDuration(duration time.Duration)
}

// SnapshotStats is the read-only view of the snapshot store exposed to gauges.
type SnapshotStats interface {
	Len() int
	GetMaxId() int
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	refreshDuration  prometheus.Histogram
	refreshFailures  prometheus.Counter
	analysisDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveRefreshDuration(duration time.Duration) {
	m.refreshDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncRefreshFailures() {
	m.refreshFailures.Inc()
}

func (m *MetricsProvider) ObserveAnalysisDuration(duration time.Duration) {
	m.analysisDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, stats SnapshotStats) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "protostats_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "protostats_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "protostats_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "protostats_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		refreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "protostats_refresh_duration_seconds",
			Help:    "Duration of snapshot refresh operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		refreshFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "protostats_refresh_failures_total",
			Help: "Total number of failed snapshot refreshes",
		}),

		analysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "protostats_analysis_duration_seconds",
			Help:    "Duration of full analysis passes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "protostats_snapshot_records",
		Help: "Current number of records in the snapshot",
	}, func() float64 {
		return float64(stats.Len())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "protostats_snapshot_max_id",
		Help: "Highest record id seen in the snapshot",
	}, func() float64 {
		return float64(stats.GetMaxId())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveRefreshDuration(_ time.Duration)           {}
func (n *noopMetrics) IncRefreshFailures()                              {}
func (n *noopMetrics) ObserveAnalysisDuration(_ time.Duration)          {}
