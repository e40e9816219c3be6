package providers

import (
	"clipkeep/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncMutations(result string)
	IncClipboardEvents(kind string)
	SetHistorySize(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	mutationsTotal      *prometheus.CounterVec
	clipboardEvents     *prometheus.CounterVec
	historySize         prometheus.Gauge
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

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncMutations(result string) {
	m.mutationsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncClipboardEvents(kind string) {
	m.clipboardEvents.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) SetHistorySize(count int) {
	m.historySize.Set(float64(count))
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

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clipkeep_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clipkeep_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clipkeep_image_cache_hits_total",
			Help: "Total number of image cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clipkeep_image_cache_misses_total",
			Help: "Total number of image cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clipkeep_persistence_duration_seconds",
			Help:    "Duration of document writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		mutationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clipkeep_mutations_total",
			Help: "Document mutations by result",
		}, []string{"result"}),

		clipboardEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clipkeep_clipboard_events_total",
			Help: "Clipboard changes observed by the watcher, by kind",
		}, []string{"kind"}),

		historySize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "clipkeep_history_items",
			Help: "Number of entries in the committed history",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncMutations(_ string)                            {}
func (n *noopMetrics) IncClipboardEvents(_ string)                      {}
func (n *noopMetrics) SetHistorySize(_ int)                             {}
