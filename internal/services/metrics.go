package services

import "github.com/prometheus/client_golang/prometheus"

// Recommendation outcomes recorded in recommendationsTotal.
const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
	outcomeStale = "stale"
)

var (
	// recommendationsTotal counts catalog refreshes by request kind
	// (mood, query) and outcome (ok, empty, error, stale).
	recommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodreel_recommendations_total",
			Help: "Recommendation requests by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// catalogSize records how many movies each applied catalog holds.
	catalogSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodreel_catalog_size",
			Help:    "Number of movies in each applied catalog.",
			Buckets: []float64{0, 1, 5, 10, 15, 20, 30, 50},
		},
	)
)

func init() {
	prometheus.MustRegister(recommendationsTotal, catalogSize)
}
