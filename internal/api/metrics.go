package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quoteSessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotient_quote_sessions_created_total",
		Help: "Quote sessions created.",
	})

	quotesPerSession = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quotient_quotes_per_session",
		Help:    "Quotes produced per session.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
	})

	scoringRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotient_scoring_runs_total",
		Help: "Policy scoring runs.",
	})
)
