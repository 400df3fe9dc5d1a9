package ctparse

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Parse outcome labels.
const (
	StatusOK      = "ok"
	StatusNoParse = "no_parse"
	StatusPartial = "partial"
)

// Metrics holds the parser's Prometheus collectors.
type Metrics struct {
	ParsesTotal     *prometheus.CounterVec
	ParseDuration   *prometheus.HistogramVec
	Candidates      prometheus.Histogram
	Rounds          prometheus.Histogram
	ItemsPruned     prometheus.Counter
	TimeoutsTotal   prometheus.Counter
	CacheHitsTotal  prometheus.Counter
	CacheMissTotal  prometheus.Counter
	CacheEntries    prometheus.Gauge
	BatchSizeTotals prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// keeps them on a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		ParsesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctparse_parses_total",
				Help: "Total number of parses by language and status",
			},
			[]string{"lang", "status"},
		),
		ParseDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ctparse_parse_duration_seconds",
				Help:    "Duration of uncached parses in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"lang"},
		),
		Candidates: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ctparse_parse_candidates",
				Help:    "Number of ranked candidates per parse",
				Buckets: prometheus.LinearBuckets(0, 2, 10),
			},
		),
		Rounds: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ctparse_chart_rounds",
				Help:    "Chart rounds executed per parse",
				Buckets: prometheus.LinearBuckets(1, 1, 16),
			},
		),
		ItemsPruned: f.NewCounter(
			prometheus.CounterOpts{
				Name: "ctparse_chart_items_pruned_total",
				Help: "Total number of chart items dropped by the beam",
			},
		),
		TimeoutsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "ctparse_parse_timeouts_total",
				Help: "Total number of parses cut short by their deadline",
			},
		),
		CacheHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "ctparse_cache_hits_total",
				Help: "Total number of parse cache hits",
			},
		),
		CacheMissTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "ctparse_cache_misses_total",
				Help: "Total number of parse cache misses",
			},
		),
		CacheEntries: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "ctparse_cache_entries",
				Help: "Number of parse results held in the cache",
			},
		),
		BatchSizeTotals: f.NewCounter(
			prometheus.CounterOpts{
				Name: "ctparse_batch_texts_total",
				Help: "Total number of texts parsed through batches",
			},
		),
	}
}
