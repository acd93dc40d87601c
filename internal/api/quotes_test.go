package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Quotient/internal/quote"
	"github.com/MikeSquared-Agency/Quotient/internal/rating"
	"github.com/MikeSquared-Agency/Quotient/internal/scoring"
	"github.com/MikeSquared-Agency/Quotient/internal/store"
)

// memStore is an in-memory store.Store for handler tests.
type memStore struct {
	companies []*store.Company
	products  []*store.Product
	tables    map[string]*store.RateTable
	sessions  map[string]*store.QuoteSession
}

func newMemStore() *memStore {
	healthTable := &store.RateTable{
		AgeBands:     []store.AgeBand{{MinAge: 18, MaxAge: 65, Factor: 1.0}},
		SmokerFactor: 1.5,
		StateFactors: map[string]float64{"CA": 1.1},
	}
	return &memStore{
		companies: []*store.Company{
			{ID: "HEALTHGUARD", Name: "HealthGuard Insurance", Rating: 4.5,
				ProductsOffered: []string{store.ProductHealthBasic}},
			{ID: "AMERICARE", Name: "AmeriCare National", Rating: 4.6,
				ProductsOffered: []string{store.ProductHealthBasic}},
		},
		products: []*store.Product{
			{ID: "HEALTHGUARD_HEALTH_BASIC", CompanyID: "HEALTHGUARD",
				ProductType: store.ProductHealthBasic, ProductName: "HealthGuard Essential Health",
				MinCoverage: 100000, MaxCoverage: 1000000, BaseRate: 200, Active: true},
			{ID: "AMERICARE_HEALTH_BASIC", CompanyID: "AMERICARE",
				ProductType: store.ProductHealthBasic, ProductName: "AmeriCare Essential Health",
				MinCoverage: 100000, MaxCoverage: 1500000, BaseRate: 180, Active: true},
		},
		tables: map[string]*store.RateTable{
			"HEALTHGUARD": healthTable,
			"AMERICARE":   healthTable,
		},
		sessions: map[string]*store.QuoteSession{},
	}
}

func (m *memStore) ListCompanies(ctx context.Context) ([]*store.Company, error) {
	return m.companies, nil
}

func (m *memStore) GetCompany(ctx context.Context, companyID string) (*store.Company, error) {
	for _, c := range m.companies {
		if c.ID == companyID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListCompaniesByProduct(ctx context.Context, productType string) ([]*store.Company, error) {
	var out []*store.Company
	for _, c := range m.companies {
		for _, p := range c.ProductsOffered {
			if p == productType {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) ListProducts(ctx context.Context, filter store.ProductFilter) ([]*store.Product, error) {
	var out []*store.Product
	for _, p := range m.products {
		if filter.CompanyID != "" && p.CompanyID != filter.CompanyID {
			continue
		}
		if filter.ProductType != "" && p.ProductType != filter.ProductType {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) GetActiveProduct(ctx context.Context, companyID, productType string) (*store.Product, error) {
	for _, p := range m.products {
		if p.CompanyID == companyID && p.ProductType == productType && p.Active {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetRateTable(ctx context.Context, companyID, productType string) (*store.RateTable, error) {
	return m.tables[companyID], nil
}

func (m *memStore) CreateQuoteSession(ctx context.Context, session *store.QuoteSession) error {
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	m.sessions[session.SessionID] = session
	return nil
}

func (m *memStore) GetQuoteSession(ctx context.Context, sessionID string) (*store.QuoteSession, error) {
	return m.sessions[sessionID], nil
}

func (m *memStore) UpdateQuoteSessionScores(ctx context.Context, sessionID string, scores interface{}) error {
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	sess.Scores = scores
	return nil
}

func (m *memStore) Close() error { return nil }

func testRouter(t *testing.T, ms *memStore) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	calc := rating.NewCalculator(0.08, logger)
	agg := quote.New(ms, calc, 3, 4, logger)
	scorer, err := scoring.NewScorer(scoring.DefaultWeights(), nil, logger)
	require.NoError(t, err)
	return NewRouter(ms, nil, agg, scorer, 30, logger)
}

func quoteBody() []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"applicant": map[string]interface{}{
			"dob":           "1990-06-15",
			"state":         "CA",
			"annual_income": 75000,
		},
		"product_type":    "HEALTH_BASIC",
		"coverage_amount": 500000,
	})
	return body
}

func TestCreateQuote(t *testing.T) {
	ms := newMemStore()
	router := testRouter(t, ms)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/quote", bytes.NewReader(quoteBody())))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session store.QuoteSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Regexp(t, `^QS[0-9A-F]{8}$`, session.SessionID)
	assert.Regexp(t, `^CUST[0-9A-F]{6}$`, session.ApplicantID)
	assert.Len(t, session.Quotes, 2)
	assert.Equal(t, "AMERICARE", session.Quotes[0].CompanyID, "cheapest carrier first")
	assert.Len(t, session.RecommendedPlans, 2)
	assert.NotNil(t, session.RiskAssessment)
	assert.NotNil(t, session.ComparisonMatrix.LowestPremium)
	assert.True(t, session.ValidUntil.After(session.QuoteDate))

	// Session is retrievable afterward.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quote/"+session.SessionID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateQuoteCarriesBeneficiaries(t *testing.T) {
	ms := newMemStore()
	router := testRouter(t, ms)

	body, _ := json.Marshal(map[string]interface{}{
		"applicant": map[string]interface{}{
			"dob":   "1990-06-15",
			"state": "CA",
		},
		"beneficiaries": []map[string]interface{}{
			{"name": "Jordan Doe", "relationship": "spouse", "percentage": 60},
			{"name": "Sam Doe", "relationship": "child", "percentage": 40},
		},
		"product_type":    "HEALTH_BASIC",
		"coverage_amount": 500000,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/quote", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session store.QuoteSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.Len(t, session.Beneficiaries, 2)
	assert.Equal(t, "Jordan Doe", session.Beneficiaries[0].Name)
	assert.Equal(t, "spouse", session.Beneficiaries[0].Relationship)
	assert.Equal(t, 60.0, session.Beneficiaries[0].Percentage)

	// Beneficiaries survive retrieval from the store.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quote/"+session.SessionID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched store.QuoteSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, session.Beneficiaries, fetched.Beneficiaries)
}

func TestCreateQuoteValidation(t *testing.T) {
	router := testRouter(t, newMemStore())

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing applicant", `{"product_type":"HEALTH_BASIC","coverage_amount":500000}`},
		{"missing dob", `{"applicant":{},"product_type":"HEALTH_BASIC","coverage_amount":500000}`},
		{"unknown product", `{"applicant":{"dob":"1990-06-15"},"product_type":"PET_INSURANCE","coverage_amount":500000}`},
		{"zero coverage", `{"applicant":{"dob":"1990-06-15"},"product_type":"HEALTH_BASIC","coverage_amount":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/quote", bytes.NewReader([]byte(tc.body))))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetQuoteNotFound(t *testing.T) {
	router := testRouter(t, newMemStore())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quote/QS00000000", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScoreQuoteSession(t *testing.T) {
	ms := newMemStore()
	router := testRouter(t, ms)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/quote", bytes.NewReader(quoteBody())))
	require.Equal(t, http.StatusCreated, rec.Code)

	var session store.QuoteSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/quote/"+session.SessionID+"/score", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, session.SessionID, resp.SessionID)
	require.Len(t, resp.Scores, 2)
	for i := 1; i < len(resp.Scores); i++ {
		assert.GreaterOrEqual(t, resp.Scores[i-1].OverallScore, resp.Scores[i].OverallScore)
	}
	assert.NotEmpty(t, resp.Scores[0].ValueProposition)
	assert.NotEmpty(t, resp.ValueFrontier)

	// Scores are persisted on the session.
	assert.NotNil(t, ms.sessions[session.SessionID].Scores)
}

func TestScoreExpiredSession(t *testing.T) {
	ms := newMemStore()
	router := testRouter(t, ms)

	ms.sessions["QSEXPIRED1"] = &store.QuoteSession{
		SessionID:  "QSEXPIRED1",
		ValidUntil: time.Now().Add(-24 * time.Hour),
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/quote/QSEXPIRED1/score", nil))
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestScoreUnknownSession(t *testing.T) {
	router := testRouter(t, newMemStore())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/quote/QS404/score", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCompaniesAndProducts(t *testing.T) {
	router := testRouter(t, newMemStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/companies", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var companies []*store.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &companies))
	assert.Len(t, companies, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products?company_id=AMERICARE", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var products []*store.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "AMERICARE_HEALTH_BASIC", products[0].ID)
}

func TestHealthEndpoint(t *testing.T) {
	router := NewMetricsRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
