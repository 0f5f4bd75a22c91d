package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics recorded by the request layer.
// Attach with WithMetrics; a nil Metrics disables recording.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RetriesTotal    prometheus.Counter
	RefreshesTotal  *prometheus.CounterVec
	CacheHitsTotal  prometheus.Counter
}

// NewMetrics creates and registers all client metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sellerdesk",
				Name:      "requests_total",
				Help:      "Total number of API requests dispatched",
			},
			[]string{"method", "outcome"}, // outcome=ok/http_error/network_error
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sellerdesk",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets, // 5ms to 10s
			},
			[]string{"method"},
		),
		RetriesTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "sellerdesk",
				Name:      "request_retries_total",
				Help:      "Total retry waits taken after network-class failures",
			},
		),
		RefreshesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sellerdesk",
				Name:      "token_refreshes_total",
				Help:      "Total token refresh attempts",
			},
			[]string{"result"}, // result=ok/error
		),
		CacheHitsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "sellerdesk",
				Name:      "response_cache_hits_total",
				Help:      "Total GET responses served from the client cache",
			},
		),
	}
}

func (m *Metrics) observeRequest(method, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, outcome).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(seconds)
}

func (m *Metrics) incRetry() {
	if m != nil {
		m.RetriesTotal.Inc()
	}
}

func (m *Metrics) incRefresh(result string) {
	if m != nil {
		m.RefreshesTotal.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) incCacheHit() {
	if m != nil {
		m.CacheHitsTotal.Inc()
	}
}
