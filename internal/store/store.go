package store

import (
	"context"
	"time"

	"github.com/MikeSquared-Agency/Quotient/internal/risk"
)

// Product type identifiers shared across companies, products, and rate tables.
const (
	ProductLifeTerm        = "LIFE_TERM"
	ProductLifeWhole       = "LIFE_WHOLE"
	ProductHealthBasic     = "HEALTH_BASIC"
	ProductHealthPremium   = "HEALTH_PREMIUM"
	ProductCriticalIllness = "CRITICAL_ILLNESS"
)

// ValidProductType reports whether s names a known product type.
func ValidProductType(s string) bool {
	switch s {
	case ProductLifeTerm, ProductLifeWhole, ProductHealthBasic, ProductHealthPremium, ProductCriticalIllness:
		return true
	}
	return false
}

// IsHealthProduct reports whether premiums for the product type are flat
// monthly rates rather than per-$1000-of-coverage rates.
func IsHealthProduct(productType string) bool {
	return productType == ProductHealthBasic || productType == ProductHealthPremium
}

// Company is a carrier record. Read-only reference data for the engine.
type Company struct {
	ID                string             `json:"company_id"`
	Name              string             `json:"name"`
	Rating            float64            `json:"rating"`        // 0-5 display rating
	RiskAppetite      string             `json:"risk_appetite"` // conservative, moderate, aggressive
	ProductsOffered   []string           `json:"products_offered"`
	MaxCoverageLimits map[string]float64 `json:"max_coverage_limits,omitempty"`
}

// Rider is an optional add-on benefit with its base rate.
type Rider struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

// Product is one carrier's offering of a product type.
type Product struct {
	ID              string         `json:"product_id"`
	CompanyID       string         `json:"company_id"`
	ProductType     string         `json:"product_type"`
	ProductName     string         `json:"product_name"`
	MinCoverage     float64        `json:"min_coverage"`
	MaxCoverage     float64        `json:"max_coverage"`
	BaseRate        float64        `json:"base_rate"`
	AvailableRiders []Rider        `json:"available_riders,omitempty"`
	WaitingPeriods  map[string]int `json:"waiting_periods,omitempty"` // peril -> days
	Exclusions      []string       `json:"exclusions,omitempty"`
	Active          bool           `json:"active"`
}

// AgeBand is one row of a rate table's age ladder. Bands are ordered and
// non-overlapping; an age outside every band prices at factor 1.0.
type AgeBand struct {
	MinAge int     `json:"min_age"`
	MaxAge int     `json:"max_age"`
	Factor float64 `json:"factor"`
}

// BMIBand is one row of a rate table's BMI ladder.
type BMIBand struct {
	MinBMI float64 `json:"min_bmi"`
	MaxBMI float64 `json:"max_bmi"`
	Factor float64 `json:"factor"`
}

// RateTable holds the multiplicative pricing factors for one
// (company, product type) pair.
type RateTable struct {
	CompanyID         string             `json:"company_id"`
	ProductType       string             `json:"product_type"`
	AgeBands          []AgeBand          `json:"age_bands"`
	BMIBands          []BMIBand          `json:"bmi_ranges"`
	SmokerFactor      float64            `json:"smoker_factor"`
	StateFactors      map[string]float64 `json:"state_factors,omitempty"`
	OccupationClasses map[string]float64 `json:"occupation_classes,omitempty"`
	Discounts         map[string]float64 `json:"discounts,omitempty"`
	RiderRates        map[string]float64 `json:"rider_rates,omitempty"`
}

// UnderwritingRequirement is attached to quotes that do not clear instant
// approval.
type UnderwritingRequirement struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Quote is one priced (company, product) candidate. Fully populated at
// construction and never mutated afterward; monetary fields are rounded to
// two decimals exactly once.
type Quote struct {
	QuoteID       string  `json:"quote_id"`
	CompanyID     string  `json:"company_id"`
	CompanyName   string  `json:"company_name"`
	CompanyRating float64 `json:"company_rating"`
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`

	CoverageAmount float64  `json:"coverage_amount"`
	Deductible     *float64 `json:"deductible,omitempty"`
	TermYears      *int     `json:"term_years,omitempty"`

	BasePremium         float64            `json:"base_premium"`
	RiderPremiums       map[string]float64 `json:"rider_premiums,omitempty"`
	TaxesFees           float64            `json:"taxes_fees"`
	TotalMonthlyPremium float64            `json:"total_monthly_premium"`
	TotalAnnualPremium  float64            `json:"total_annual_premium"`

	InstantApproval          bool                      `json:"instant_approval"`
	UnderwritingRequirements []UnderwritingRequirement `json:"underwriting_requirements"`
	Exclusions               []string                  `json:"exclusions,omitempty"`
	WaitingPeriods           map[string]int            `json:"waiting_periods,omitempty"`
}

// Plan is a presentable view of a quote: the quote's pricing plus a plan
// identity and its coverage details, suitable for recommendation and scoring.
type Plan struct {
	PlanID        string  `json:"plan_id"`
	PlanName      string  `json:"plan_name"`
	CompanyID     string  `json:"company_id"`
	CompanyName   string  `json:"company_name"`
	CompanyRating float64 `json:"company_rating"`

	CoverageAmount float64  `json:"coverage_amount"`
	Deductible     *float64 `json:"deductible,omitempty"`

	BasePremium         float64            `json:"base_premium"`
	RiderPremiums       map[string]float64 `json:"rider_premiums,omitempty"`
	TaxesFees           float64            `json:"taxes_fees"`
	TotalMonthlyPremium float64            `json:"total_monthly_premium"`
	TotalAnnualPremium  float64            `json:"total_annual_premium"`

	CoverageDetails map[string]interface{} `json:"coverage_details,omitempty"`
	Exclusions      []string               `json:"exclusions,omitempty"`
	WaitingPeriods  map[string]int         `json:"waiting_periods,omitempty"`
}

// ComparisonMatrix highlights standout quotes in a session. All fields are
// nil when the session produced no quotes.
type ComparisonMatrix struct {
	LowestPremium   *Quote `json:"lowest_premium"`
	HighestRated    *Quote `json:"highest_rated"`
	FastestApproval *Quote `json:"fastest_approval"`
}

// Beneficiary is carried through the session verbatim; it plays no part in
// pricing or scoring.
type Beneficiary struct {
	Name         string  `json:"name"`
	Relationship string  `json:"relationship,omitempty"`
	Percentage   float64 `json:"percentage,omitempty"`
}

// QuoteSession is the persisted result of one quote request. Stored verbatim
// so it can be retrieved and re-scored later by session id.
type QuoteSession struct {
	SessionID   string    `json:"session_id"`
	ApplicantID string    `json:"applicant_id"`
	QuoteDate   time.Time `json:"quote_date"`
	ValidUntil  time.Time `json:"valid_until"`

	ProductType    string   `json:"product_type"`
	CoverageAmount float64  `json:"coverage_amount"`
	TermYears      *int     `json:"term_years,omitempty"`
	Riders         []string `json:"riders,omitempty"`

	Applicant        *risk.Profile     `json:"applicant"`
	Beneficiaries    []Beneficiary     `json:"beneficiaries,omitempty"`
	RiskAssessment   *risk.Assessment  `json:"risk_assessment"`
	Quotes           []*Quote          `json:"quotes"`
	RecommendedPlans []*Plan           `json:"recommended_plans"`
	ComparisonMatrix *ComparisonMatrix `json:"comparison_matrix,omitempty"`

	// Scores holds the policy scoring output once the session has been
	// scored; persisted as an opaque document.
	Scores interface{} `json:"scores,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductFilter narrows ListProducts.
type ProductFilter struct {
	CompanyID   string
	ProductType string
	ActiveOnly  bool
}

// Store supplies read-only reference data to the engine and persists quote
// sessions for later retrieval.
type Store interface {
	ListCompanies(ctx context.Context) ([]*Company, error)
	GetCompany(ctx context.Context, companyID string) (*Company, error)
	ListCompaniesByProduct(ctx context.Context, productType string) ([]*Company, error)

	ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, error)
	GetActiveProduct(ctx context.Context, companyID, productType string) (*Product, error)

	GetRateTable(ctx context.Context, companyID, productType string) (*RateTable, error)

	CreateQuoteSession(ctx context.Context, session *QuoteSession) error
	GetQuoteSession(ctx context.Context, sessionID string) (*QuoteSession, error)
	UpdateQuoteSessionScores(ctx context.Context, sessionID string, scores interface{}) error

	Close() error
}
