package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Quotient/internal/events"
	"github.com/MikeSquared-Agency/Quotient/internal/quote"
	"github.com/MikeSquared-Agency/Quotient/internal/risk"
	"github.com/MikeSquared-Agency/Quotient/internal/scoring"
	"github.com/MikeSquared-Agency/Quotient/internal/store"
)

type QuotesHandler struct {
	store        store.Store
	events       events.Client
	agg          *quote.Aggregator
	scorer       *scoring.Scorer
	validityDays int
	logger       *slog.Logger
}

func NewQuotesHandler(s store.Store, ev events.Client, agg *quote.Aggregator, scorer *scoring.Scorer, validityDays int, logger *slog.Logger) *QuotesHandler {
	if validityDays <= 0 {
		validityDays = 30
	}
	return &QuotesHandler{store: s, events: ev, agg: agg, scorer: scorer, validityDays: validityDays, logger: logger}
}

type CreateQuoteRequest struct {
	Applicant      *risk.Profile       `json:"applicant"`
	Beneficiaries  []store.Beneficiary `json:"beneficiaries,omitempty"`
	ProductType    string              `json:"product_type"`
	CoverageAmount float64             `json:"coverage_amount"`
	Deductible     *float64            `json:"deductible,omitempty"`
	TermYears      *int                `json:"term_years,omitempty"`
	Riders         []string            `json:"riders,omitempty"`
	CompanyID      string              `json:"company_id,omitempty"`
}

func (h *QuotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Applicant == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "applicant required"})
		return
	}
	if err := req.Applicant.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !store.ValidProductType(req.ProductType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown product_type"})
		return
	}
	if req.CoverageAmount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "coverage_amount must be positive"})
		return
	}

	result, err := h.agg.Quote(r.Context(), quote.Request{
		CompanyID:      req.CompanyID,
		ProductType:    req.ProductType,
		Applicant:      req.Applicant,
		CoverageAmount: req.CoverageAmount,
		Deductible:     req.Deductible,
		TermYears:      req.TermYears,
		Riders:         req.Riders,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	assessment := result.Assessment
	session := &store.QuoteSession{
		SessionID:        store.NewRef("QS", 8),
		ApplicantID:      store.NewRef("CUST", 6),
		QuoteDate:        now,
		ValidUntil:       now.AddDate(0, 0, h.validityDays),
		ProductType:      req.ProductType,
		CoverageAmount:   req.CoverageAmount,
		TermYears:        req.TermYears,
		Riders:           req.Riders,
		Applicant:        req.Applicant,
		Beneficiaries:    req.Beneficiaries,
		RiskAssessment:   &assessment,
		Quotes:           result.Quotes,
		RecommendedPlans: result.Recommended,
		ComparisonMatrix: result.Matrix,
	}

	if err := h.store.CreateQuoteSession(r.Context(), session); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	quoteSessionsCreated.Inc()
	quotesPerSession.Observe(float64(len(result.Quotes)))

	if h.events != nil {
		_ = h.events.Publish(events.SubjectSessionCreated(session.SessionID), events.SessionCreatedEvent{
			SessionID:      session.SessionID,
			ApplicantID:    session.ApplicantID,
			ProductType:    session.ProductType,
			CoverageAmount: session.CoverageAmount,
			RiskScore:      assessment.Score,
			RiskRating:     assessment.Rating,
			QuoteCount:     len(result.Quotes),
			ValidUntil:     session.ValidUntil,
		})
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *QuotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.GetQuoteSession(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "quote session not found"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type ScoreResponse struct {
	SessionID     string                    `json:"session_id"`
	Scores        []*scoring.PolicyScore    `json:"scores"`
	ValueFrontier []scoring.ParetoCandidate `json:"value_frontier"`
}

// Score evaluates every quote in the session against its applicant and
// persists the result on the session.
func (h *QuotesHandler) Score(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.GetQuoteSession(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "quote session not found"})
		return
	}
	if time.Now().After(session.ValidUntil) {
		writeJSON(w, http.StatusGone, map[string]string{"error": "quote session expired"})
		return
	}

	plans := make([]*store.Plan, len(session.Quotes))
	for i, q := range session.Quotes {
		plans[i] = quote.PlanFromQuote(q, session.ProductType, session.Riders)
	}

	scores := h.scorer.ScorePlans(plans, session.Applicant)
	scoringRuns.Inc()

	if err := h.store.UpdateQuoteSessionScores(r.Context(), session.SessionID, scores); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		ev := events.SessionScoredEvent{
			SessionID: session.SessionID,
			PlanCount: len(scores),
		}
		if len(scores) > 0 {
			ev.TopPlanID = scores[0].PlanID
			ev.TopScore = scores[0].OverallScore
			ev.TopCategory = scores[0].OverallCategory
		}
		_ = h.events.Publish(events.SubjectSessionScored(session.SessionID), ev)
	}

	writeJSON(w, http.StatusOK, ScoreResponse{
		SessionID:     session.SessionID,
		Scores:        scores,
		ValueFrontier: scoring.ValueFrontier(scores),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
