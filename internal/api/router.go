package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Quotient/internal/events"
	"github.com/MikeSquared-Agency/Quotient/internal/quote"
	"github.com/MikeSquared-Agency/Quotient/internal/scoring"
	"github.com/MikeSquared-Agency/Quotient/internal/store"
)

func NewRouter(s store.Store, ev events.Client, agg *quote.Aggregator, scorer *scoring.Scorer, validityDays int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	quotes := NewQuotesHandler(s, ev, agg, scorer, validityDays, logger)
	refdata := NewRefDataHandler(s)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/quote", quotes.Create)
		r.Get("/quote/{session_id}", quotes.Get)
		r.Post("/quote/{session_id}/score", quotes.Score)

		r.Get("/companies", refdata.Companies)
		r.Get("/products", refdata.Products)
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
