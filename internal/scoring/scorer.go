// Package scoring evaluates priced plans against the applicant along three
// independent value dimensions and combines them into a weighted overall
// score with a templated explanation.
package scoring

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/Quotient/internal/risk"
	"github.com/MikeSquared-Agency/Quotient/internal/store"
)

// Score categories, resolved from the overall score by fixed thresholds.
const (
	CategoryExcellent = "excellent" // 90-100
	CategoryVeryGood  = "very_good" // 80-89
	CategoryGood      = "good"      // 70-79
	CategoryFair      = "fair"      // 60-69
	CategoryPoor      = "poor"      // 0-59
)

// defaultAnnualIncome stands in when the applicant reported no income.
const defaultAnnualIncome = 50000

// PolicyScore is the complete scoring output for a single plan-applicant pair.
type PolicyScore struct {
	PlanID      string `json:"plan_id"`
	PlanName    string `json:"plan_name"`
	CompanyName string `json:"company_name"`

	AffordabilityScore float64 `json:"affordability_score"`
	ClaimsEaseScore    float64 `json:"ease_of_claims_score"`
	CoverageRatioScore float64 `json:"coverage_ratio_score"`

	OverallScore    float64 `json:"overall_score"`
	OverallCategory string  `json:"overall_category"`

	AffordabilityDetails map[string]interface{} `json:"affordability_details"`
	ClaimsEaseDetails    map[string]interface{} `json:"claims_ease_details"`
	CoverageRatioDetails map[string]interface{} `json:"coverage_ratio_details"`

	IncomePercentage    float64            `json:"income_percentage"`
	AnnualCostBreakdown map[string]float64 `json:"annual_cost_breakdown"`
	ValueProposition    string             `json:"value_proposition"`
}

// Scorer computes the three-metric weighted policy score.
type Scorer struct {
	weights    WeightSet
	claimsEase *ClaimsEaseTable
	logger     *slog.Logger
}

// NewScorer creates a Scorer. The claims-ease table is injected so tests and
// deployments can substitute their own carrier data; nil falls back to the
// built-in table.
func NewScorer(weights WeightSet, claimsEase *ClaimsEaseTable, logger *slog.Logger) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if claimsEase == nil {
		claimsEase = DefaultClaimsEaseTable()
	}
	return &Scorer{weights: weights, claimsEase: claimsEase, logger: logger}, nil
}

// ScorePlan computes the full score for one plan-applicant pair.
func (s *Scorer) ScorePlan(plan *store.Plan, applicant *risk.Profile) (*PolicyScore, error) {
	if plan == nil {
		return nil, fmt.Errorf("score plan: nil plan")
	}
	if plan.TotalAnnualPremium <= 0 {
		return nil, fmt.Errorf("score plan %s: non-positive annual premium %.2f", plan.PlanID, plan.TotalAnnualPremium)
	}

	income := float64(defaultAnnualIncome)
	if applicant != nil && applicant.AnnualIncome > 0 {
		income = applicant.AnnualIncome
	}

	affordability, affordabilityDetails := s.affordabilityScore(plan, income)
	claims, claimsDetails := s.claimsEaseScore(plan)
	coverage, coverageDetails := s.coverageRatioScore(plan)

	overall := affordability*s.weights.Affordability +
		claims*s.weights.ClaimsEase +
		coverage*s.weights.CoverageRatio

	return &PolicyScore{
		PlanID:               plan.PlanID,
		PlanName:             plan.PlanName,
		CompanyName:          plan.CompanyName,
		AffordabilityScore:   affordability,
		ClaimsEaseScore:      claims,
		CoverageRatioScore:   coverage,
		OverallScore:         overall,
		OverallCategory:      CategoryForScore(overall),
		AffordabilityDetails: affordabilityDetails,
		ClaimsEaseDetails:    claimsDetails,
		CoverageRatioDetails: coverageDetails,
		IncomePercentage:     plan.TotalAnnualPremium / income * 100,
		AnnualCostBreakdown:  annualCostBreakdown(plan),
		ValueProposition:     valueProposition(overall, affordability, claims, coverage),
	}, nil
}

// affordabilityBands maps income percentage to a base score; resolved in
// order, first threshold cleared wins.
var affordabilityBands = []struct {
	maxPct float64
	score  float64
	label  string
}{
	{2, 100, "Excellent - Very affordable"},
	{4, 85, "Very Good - Quite affordable"},
	{6, 70, "Good - Reasonably affordable"},
	{8, 55, "Fair - Somewhat expensive"},
}

func (s *Scorer) affordabilityScore(plan *store.Plan, income float64) (float64, map[string]interface{}) {
	pct := plan.TotalAnnualPremium / income * 100

	score := 40.0
	label := "Poor - Very expensive relative to income"
	for _, band := range affordabilityBands {
		if pct <= band.maxPct {
			score = band.score
			label = band.label
			break
		}
	}

	annualTaxesFees := plan.TaxesFees * 12
	if annualTaxesFees > plan.TotalAnnualPremium*0.1 {
		score -= 5
	}

	if plan.Deductible != nil {
		score -= min(*plan.Deductible/income*100, 10)
	}
	score = clamp(score, 0, 100)

	totalFirstYear := plan.TotalAnnualPremium + annualTaxesFees
	details := map[string]interface{}{
		"income_percentage":     pct,
		"annual_premium":        plan.TotalAnnualPremium,
		"annual_income":         income,
		"category":              label,
		"taxes_fees_annual":     annualTaxesFees,
		"deductible":            plan.Deductible,
		"total_first_year_cost": totalFirstYear,
	}
	return score, details
}

func (s *Scorer) claimsEaseScore(plan *store.Plan) (float64, map[string]interface{}) {
	entry := s.claimsEase.Lookup(plan.CompanyName)

	adjustments := 0.0
	switch {
	case plan.CompanyRating >= 4.5:
		adjustments += 5
	case plan.CompanyRating <= 3.0:
		adjustments -= 5
	}
	if plan.Deductible != nil {
		switch {
		case *plan.Deductible > 2500:
			adjustments -= 3
		case *plan.Deductible == 0:
			adjustments += 2
		}
	}

	score := clamp(entry.EaseScore+adjustments, 0, 100)
	details := map[string]interface{}{
		"company_base_score":  entry.EaseScore,
		"avg_processing_days": entry.AvgSettlementDays,
		"approval_rate":       entry.ClaimApprovalRate,
		"company_rating":      plan.CompanyRating,
		"deductible":          plan.Deductible,
		"score_adjustments":   adjustments,
		"category":            CategoryForScore(score),
	}
	return score, details
}

// coverageBands maps coverage-per-premium-dollar to a base score.
var coverageBands = []struct {
	minRatio float64
	score    float64
}{
	{200, 95},
	{150, 85},
	{100, 75},
	{75, 65},
	{50, 55},
}

func (s *Scorer) coverageRatioScore(plan *store.Plan) (float64, map[string]interface{}) {
	coveragePerDollar := plan.CoverageAmount / plan.TotalAnnualPremium

	baseScore := 45.0
	for _, band := range coverageBands {
		if coveragePerDollar >= band.minRatio {
			baseScore = band.score
			break
		}
	}

	featureCount := len(plan.CoverageDetails) + len(plan.RiderPremiums)
	featureBonus := min(float64(featureCount)*2, 15)

	deductiblePenalty := 0.0
	if plan.Deductible != nil && plan.CoverageAmount > 0 {
		if ratio := *plan.Deductible / plan.CoverageAmount; ratio > 0.1 {
			deductiblePenalty = min(ratio*50, 20)
		}
	}

	waitingPenalty := 0.0
	if len(plan.WaitingPeriods) > 0 {
		total := 0
		for _, days := range plan.WaitingPeriods {
			total += days
		}
		avg := float64(total) / float64(len(plan.WaitingPeriods))
		if avg > 90 {
			waitingPenalty = min((avg-90)/30*2, 10)
		}
	}

	score := clamp(baseScore+featureBonus-deductiblePenalty-waitingPenalty, 0, 100)
	details := map[string]interface{}{
		"coverage_per_dollar": coveragePerDollar,
		"coverage_amount":     plan.CoverageAmount,
		"annual_premium":      plan.TotalAnnualPremium,
		"base_score":          baseScore,
		"feature_bonus":       featureBonus,
		"feature_count":       featureCount,
		"deductible_penalty":  deductiblePenalty,
		"waiting_penalty":     waitingPenalty,
		"waiting_periods":     plan.WaitingPeriods,
		"category":            CategoryForScore(score),
	}
	return score, details
}

func annualCostBreakdown(plan *store.Plan) map[string]float64 {
	riders := 0.0
	for _, v := range plan.RiderPremiums {
		riders += v
	}
	deductible := 0.0
	if plan.Deductible != nil {
		deductible = *plan.Deductible
	}
	return map[string]float64{
		"base_premium":          plan.BasePremium * 12,
		"rider_premiums":        riders * 12,
		"taxes_fees":            plan.TaxesFees * 12,
		"estimated_deductible":  deductible,
		"total_annual_premium":  plan.TotalAnnualPremium,
		"total_with_deductible": plan.TotalAnnualPremium + deductible,
	}
}

// valueProposition renders the deterministic templated summary from the
// sub-score strength and weakness thresholds.
func valueProposition(overall, affordability, claims, coverage float64) string {
	var strengths []string
	if affordability >= 80 {
		strengths = append(strengths, "very affordable")
	}
	if claims >= 85 {
		strengths = append(strengths, "easy claims process")
	}
	if coverage >= 80 {
		strengths = append(strengths, "excellent coverage value")
	}

	var weaknesses []string
	if affordability < 60 {
		weaknesses = append(weaknesses, "expensive relative to income")
	}
	if claims < 65 {
		weaknesses = append(weaknesses, "complex claims process")
	}
	if coverage < 65 {
		weaknesses = append(weaknesses, "limited coverage value")
	}

	var opening string
	switch {
	case overall >= 85:
		opening = "Excellent choice"
	case overall >= 75:
		opening = "Very good option"
	case overall >= 65:
		opening = "Solid choice"
	default:
		opening = "Consider alternatives"
	}

	var b strings.Builder
	if len(strengths) > 0 {
		fmt.Fprintf(&b, "%s with %s.", opening, strings.Join(strengths, ", "))
	} else {
		fmt.Fprintf(&b, "%s for your situation.", opening)
	}
	if len(weaknesses) > 0 {
		fmt.Fprintf(&b, " Note: %s.", strings.Join(weaknesses, ", "))
	}
	return b.String()
}

// CategoryForScore maps a 0-100 score to its category label.
func CategoryForScore(score float64) string {
	switch {
	case score >= 90:
		return CategoryExcellent
	case score >= 80:
		return CategoryVeryGood
	case score >= 70:
		return CategoryGood
	case score >= 60:
		return CategoryFair
	default:
		return CategoryPoor
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
