package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Quotient/internal/risk"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const companyColumns = `company_id, name, rating, risk_appetite, products_offered, max_coverage_limits`

func scanCompany(row pgx.Row) (*Company, error) {
	c := &Company{}
	var limitsJSON []byte
	err := row.Scan(&c.ID, &c.Name, &c.Rating, &c.RiskAppetite, &c.ProductsOffered, &limitsJSON)
	if err != nil {
		return nil, err
	}
	if len(limitsJSON) > 0 {
		_ = json.Unmarshal(limitsJSON, &c.MaxCoverageLimits)
	}
	return c, nil
}

func (s *PostgresStore) ListCompanies(ctx context.Context) ([]*Company, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies ORDER BY company_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *PostgresStore) GetCompany(ctx context.Context, companyID string) (*Company, error) {
	c, err := scanCompany(s.pool.QueryRow(ctx, `
		SELECT `+companyColumns+`
		FROM companies WHERE company_id = $1`, companyID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) ListCompaniesByProduct(ctx context.Context, productType string) ([]*Company, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies WHERE $1 = ANY(products_offered) ORDER BY company_id`, productType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

const productColumns = `product_id, company_id, product_type, product_name,
	min_coverage, max_coverage, base_rate,
	available_riders, waiting_periods, exclusions, active`

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	var ridersJSON, waitingJSON []byte
	err := row.Scan(&p.ID, &p.CompanyID, &p.ProductType, &p.ProductName,
		&p.MinCoverage, &p.MaxCoverage, &p.BaseRate,
		&ridersJSON, &waitingJSON, &p.Exclusions, &p.Active)
	if err != nil {
		return nil, err
	}
	if len(ridersJSON) > 0 {
		_ = json.Unmarshal(ridersJSON, &p.AvailableRiders)
	}
	if len(waitingJSON) > 0 {
		_ = json.Unmarshal(waitingJSON, &p.WaitingPeriods)
	}
	return p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []interface{}
	argN := 1
	if filter.CompanyID != "" {
		query += fmt.Sprintf(" AND company_id = $%d", argN)
		args = append(args, filter.CompanyID)
		argN++
	}
	if filter.ProductType != "" {
		query += fmt.Sprintf(" AND product_type = $%d", argN)
		args = append(args, filter.ProductType)
		argN++
	}
	if filter.ActiveOnly {
		query += " AND active = true"
	}
	query += " ORDER BY product_id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) GetActiveProduct(ctx context.Context, companyID, productType string) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE company_id = $1 AND product_type = $2 AND active = true
		LIMIT 1`, companyID, productType))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) GetRateTable(ctx context.Context, companyID, productType string) (*RateTable, error) {
	t := &RateTable{}
	var ageJSON, bmiJSON, stateJSON, occJSON, discJSON, riderJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT company_id, product_type, age_bands, bmi_ranges, smoker_factor,
			state_factors, occupation_classes, discounts, rider_rates
		FROM rate_tables
		WHERE company_id = $1 AND product_type = $2`, companyID, productType,
	).Scan(&t.CompanyID, &t.ProductType, &ageJSON, &bmiJSON, &t.SmokerFactor,
		&stateJSON, &occJSON, &discJSON, &riderJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(ageJSON, &t.AgeBands)
	_ = json.Unmarshal(bmiJSON, &t.BMIBands)
	_ = json.Unmarshal(stateJSON, &t.StateFactors)
	_ = json.Unmarshal(occJSON, &t.OccupationClasses)
	_ = json.Unmarshal(discJSON, &t.Discounts)
	_ = json.Unmarshal(riderJSON, &t.RiderRates)
	return t, nil
}

// sessionPayload is the jsonb document column of quote_sessions; the fields
// that are queried get their own columns, everything else rides in payload.
type sessionPayload struct {
	Applicant        *risk.Profile     `json:"applicant"`
	Beneficiaries    []Beneficiary     `json:"beneficiaries,omitempty"`
	RiskAssessment   *risk.Assessment  `json:"risk_assessment"`
	Quotes           []*Quote          `json:"quotes"`
	RecommendedPlans []*Plan           `json:"recommended_plans"`
	ComparisonMatrix *ComparisonMatrix `json:"comparison_matrix,omitempty"`
}

func (s *PostgresStore) CreateQuoteSession(ctx context.Context, session *QuoteSession) error {
	payload, err := json.Marshal(sessionPayload{
		Applicant:        session.Applicant,
		Beneficiaries:    session.Beneficiaries,
		RiskAssessment:   session.RiskAssessment,
		Quotes:           session.Quotes,
		RecommendedPlans: session.RecommendedPlans,
		ComparisonMatrix: session.ComparisonMatrix,
	})
	if err != nil {
		return fmt.Errorf("marshal session payload: %w", err)
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO quote_sessions (session_id, applicant_id, quote_date, valid_until,
			product_type, coverage_amount, term_years, riders, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		session.SessionID, session.ApplicantID, session.QuoteDate, session.ValidUntil,
		session.ProductType, session.CoverageAmount, session.TermYears, session.Riders, payload,
	).Scan(&session.CreatedAt, &session.UpdatedAt)
}

func (s *PostgresStore) GetQuoteSession(ctx context.Context, sessionID string) (*QuoteSession, error) {
	sess := &QuoteSession{}
	var payloadJSON, scoresJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT session_id, applicant_id, quote_date, valid_until,
			product_type, coverage_amount, term_years, riders,
			payload, scores, created_at, updated_at
		FROM quote_sessions WHERE session_id = $1`, sessionID,
	).Scan(&sess.SessionID, &sess.ApplicantID, &sess.QuoteDate, &sess.ValidUntil,
		&sess.ProductType, &sess.CoverageAmount, &sess.TermYears, &sess.Riders,
		&payloadJSON, &scoresJSON, &sess.CreatedAt, &sess.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var payload sessionPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal session payload: %w", err)
	}
	sess.Applicant = payload.Applicant
	sess.Beneficiaries = payload.Beneficiaries
	sess.RiskAssessment = payload.RiskAssessment
	sess.Quotes = payload.Quotes
	sess.RecommendedPlans = payload.RecommendedPlans
	sess.ComparisonMatrix = payload.ComparisonMatrix

	if len(scoresJSON) > 0 {
		var scores interface{}
		if err := json.Unmarshal(scoresJSON, &scores); err == nil {
			sess.Scores = scores
		}
	}
	return sess, nil
}

func (s *PostgresStore) UpdateQuoteSessionScores(ctx context.Context, sessionID string, scores interface{}) error {
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE quote_sessions SET scores = $2, updated_at = now()
		WHERE session_id = $1`, sessionID, scoresJSON)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quote session %s not found", sessionID)
	}
	return nil
}
