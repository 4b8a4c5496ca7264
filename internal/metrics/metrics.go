// Package metrics holds the Prometheus collectors shared by the session and
// HTTP surfaces.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for RecommendationsTotal.
const (
	OutcomeOK                = "ok"
	OutcomeUnrecognizedGenre = "unrecognized_genre"
	OutcomeEmpty             = "empty"
	OutcomeError             = "error"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodpicks_recommend_requests_total",
			Help: "Recommendation queries by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodpicks_recommendations_returned",
			Help:    "Number of recommendations returned per successful query",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodpicks_recommend_duration_seconds",
			Help:    "Time spent filtering, shuffling and scoring one query",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	PolarityCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodpicks_polarity_cache_lookups_total",
			Help: "Polarity cache lookups during warm-up by result",
		},
		[]string{"result"},
	)

	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodpicks_catalog_entries",
			Help: "Entries in the loaded catalog",
		},
	)
)
