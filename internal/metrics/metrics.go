package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateRequestsTotal       *prometheus.CounterVec
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration prometheus.Histogram
	CacheLookupsTotal       *prometheus.CounterVec
}

// NewMetrics registers all collectors on reg. Every method is safe to call on
// a nil *Metrics, which records nothing.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RateRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_requests_total",
				Help: "Total number of exchange rate requests by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_requests_total",
				Help: "Total number of requests sent to the rate provider",
			},
			[]string{"status_code"},
		),

		UpstreamRequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Rate provider request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_cache_lookups_total",
				Help: "Rate cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) ObserveHTTP(path, method string, statusCode int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(path, method).Observe(elapsed.Seconds())
	m.HTTPRequestsTotal.WithLabelValues(path, method, strconv.Itoa(statusCode/100)+"xx").Inc()
}

func (m *Metrics) RateRequest(kind, outcome string) {
	if m == nil {
		return
	}
	m.RateRequestsTotal.WithLabelValues(kind, outcome).Inc()
}

// Upstream records one provider call. statusCode 0 means the transport failed.
func (m *Metrics) Upstream(statusCode int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if statusCode > 0 {
		label = strconv.Itoa(statusCode)
	}
	m.UpstreamRequestsTotal.WithLabelValues(label).Inc()
	m.UpstreamRequestDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}
