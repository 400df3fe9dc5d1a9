package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects HTTP-level metrics. Parser internals are counted by the
// parsing service itself.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	InFlight          prometheus.Gauge
	RateLimitedTotal  prometheus.Counter
	ErrorsByCodeTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors on reg. A nil reg keeps them on a
// private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctparse_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ctparse_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		InFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "ctparse_http_requests_in_flight",
				Help: "Number of HTTP requests being served",
			},
		),
		RateLimitedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "ctparse_http_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),
		ErrorsByCodeTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctparse_http_errors_total",
				Help: "Total number of error responses by error code",
			},
			[]string{"code"},
		),
	}
}
