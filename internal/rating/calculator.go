package rating

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/MikeSquared-Agency/Quotient/internal/risk"
	"github.com/MikeSquared-Agency/Quotient/internal/store"
)

// Ineligibility sentinels. Both mean "this (company, product) pair produces
// no quote" — callers skip the pair, they do not surface an error.
var (
	ErrCoverageOutOfBounds = errors.New("coverage amount outside product bounds")
	ErrNoRateTable         = errors.New("no rate table for company/product")
)

// Taxes and fees are a flat percentage of base plus riders.
const defaultTaxRate = 0.08

// Risk scores at or above this require underwriting instead of instant
// approval.
const instantApprovalMax = 70

// Rider rates below this are per-$1000-of-coverage rates; at or above it
// they are flat monthly dollar amounts.
const proportionalRiderMax = 1.0

// Request carries the coverage parameters for pricing one candidate.
type Request struct {
	CoverageAmount float64
	Deductible     *float64
	TermYears      *int
	Riders         []string
}

// Calculator prices one (company, product) pair against an applicant. It is
// stateless apart from configuration and safe for concurrent use.
type Calculator struct {
	taxRate float64
	logger  *slog.Logger
}

func NewCalculator(taxRate float64, logger *slog.Logger) *Calculator {
	if taxRate <= 0 {
		taxRate = defaultTaxRate
	}
	return &Calculator{taxRate: taxRate, logger: logger}
}

// Price produces a fully-populated quote for the pair, or an ineligibility
// sentinel. All intermediate arithmetic runs at full float64 precision;
// monetary fields are rounded to two decimals exactly once, here.
func (c *Calculator) Price(company *store.Company, product *store.Product, table *store.RateTable,
	profile *risk.Profile, assessment risk.Assessment, req Request) (*store.Quote, error) {

	if table == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoRateTable, company.ID, product.ProductType)
	}
	if req.CoverageAmount < product.MinCoverage || req.CoverageAmount > product.MaxCoverage {
		return nil, fmt.Errorf("%w: %.0f not in [%.0f, %.0f]",
			ErrCoverageOutOfBounds, req.CoverageAmount, product.MinCoverage, product.MaxCoverage)
	}

	ageFactor := AgeFactor(table, profile.Age())

	healthFactor := 1.0
	if profile.IsSmoker() {
		healthFactor *= table.SmokerFactor
	}
	if bmi, ok := profile.BMI(); ok {
		healthFactor *= BMIFactor(table, bmi)
	}

	stateFactor := StateFactor(table, profile.State)
	riskFactor := RiskFactor(assessment.Score)

	var monthly float64
	if store.IsHealthProduct(product.ProductType) {
		monthly = product.BaseRate * ageFactor * healthFactor * stateFactor * riskFactor
	} else {
		monthly = (req.CoverageAmount / 1000) * product.BaseRate * ageFactor * healthFactor * stateFactor * riskFactor
	}

	riderPremiums := make(map[string]float64)
	var ridersTotal float64
	for _, rider := range req.Riders {
		rate, ok := table.RiderRates[rider]
		if !ok {
			continue
		}
		var premium float64
		if rate < proportionalRiderMax {
			premium = (req.CoverageAmount / 1000) * rate * riskFactor
		} else {
			premium = rate
		}
		riderPremiums[rider] = premium
		ridersTotal += premium
	}

	taxesFees := (monthly + ridersTotal) * c.taxRate

	quote := &store.Quote{
		QuoteID:        store.NewRef("Q", 8),
		CompanyID:      company.ID,
		CompanyName:    company.Name,
		CompanyRating:  company.Rating,
		ProductID:      product.ID,
		ProductName:    product.ProductName,
		CoverageAmount: req.CoverageAmount,
		Deductible:     req.Deductible,
		TermYears:      req.TermYears,
		Exclusions:     product.Exclusions,
		WaitingPeriods: product.WaitingPeriods,
	}

	quote.BasePremium = round2(monthly)
	var roundedRiders float64
	for code, premium := range riderPremiums {
		riderPremiums[code] = round2(premium)
		roundedRiders += riderPremiums[code]
	}
	quote.RiderPremiums = riderPremiums
	quote.TaxesFees = round2(taxesFees)
	quote.TotalMonthlyPremium = round2(quote.BasePremium + roundedRiders + quote.TaxesFees)
	quote.TotalAnnualPremium = round2(quote.TotalMonthlyPremium * 12)

	if assessment.Score < instantApprovalMax {
		quote.InstantApproval = true
		quote.UnderwritingRequirements = []store.UnderwritingRequirement{}
	} else {
		quote.UnderwritingRequirements = []store.UnderwritingRequirement{
			{Type: "medical_exam", Reason: "High risk score"},
		}
	}

	if c.logger != nil {
		c.logger.Debug("priced candidate",
			"company", company.ID, "product", product.ID,
			"age_factor", ageFactor, "health_factor", healthFactor,
			"state_factor", stateFactor, "risk_factor", riskFactor,
			"monthly", quote.TotalMonthlyPremium)
	}
	return quote, nil
}

// Ineligible reports whether err is one of the skip sentinels rather than a
// genuine pricing fault.
func Ineligible(err error) bool {
	return errors.Is(err, ErrCoverageOutOfBounds) || errors.Is(err, ErrNoRateTable)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
