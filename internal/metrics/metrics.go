package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Scoring metrics
	LeadsScored        *prometheus.CounterVec
	ScoringFailures    *prometheus.CounterVec
	ValidationFailures prometheus.Counter

	// Sweep metrics
	SweepRuns     prometheus.Counter
	SweepDuration prometheus.Histogram

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates a Metrics instance registered on the given registerer.
// Passing a fresh registry per instance keeps tests from colliding on
// the global default.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		LeadsScored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_scored_total",
				Help: "Total number of leads scored",
			},
			[]string{"priority", "model"},
		),
		ScoringFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_failures_total",
				Help: "Total number of failed scoring attempts",
			},
			[]string{"reason"},
		),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "lead_validation_failures_total",
			Help: "Total number of leads rejected by validation",
		}),

		SweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "rescore_sweep_runs_total",
			Help: "Total number of completed rescoring sweeps",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rescore_sweep_duration_seconds",
			Help:    "Duration of rescoring sweeps in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "score_cache_hits_total",
			Help: "Total number of score cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "score_cache_misses_total",
			Help: "Total number of score cache misses",
		}),
	}
}
