// Package quote fans pricing out over every eligible carrier and aggregates
// the results into a ranked recommendation set.
package quote

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Quotient/internal/rating"
	"github.com/MikeSquared-Agency/Quotient/internal/risk"
	"github.com/MikeSquared-Agency/Quotient/internal/store"
)

// RefSource is the read-only reference-data seam the aggregator prices
// against. store.Store satisfies it; tests substitute fixtures.
type RefSource interface {
	GetCompany(ctx context.Context, companyID string) (*store.Company, error)
	ListCompaniesByProduct(ctx context.Context, productType string) ([]*store.Company, error)
	GetActiveProduct(ctx context.Context, companyID, productType string) (*store.Product, error)
	GetRateTable(ctx context.Context, companyID, productType string) (*store.RateTable, error)
}

// Request is one quoting call: a product, a coverage target, and the
// applicant. CompanyID narrows the fan-out to a single carrier.
type Request struct {
	CompanyID      string
	ProductType    string
	Applicant      *risk.Profile
	CoverageAmount float64
	Deductible     *float64
	TermYears      *int
	Riders         []string
}

// Result is the aggregated outcome. An empty Quotes slice is a valid
// outcome, not an error; callers surface it as "no eligible plans found".
type Result struct {
	Assessment  risk.Assessment
	Quotes      []*store.Quote
	Recommended []*store.Plan
	Matrix      *store.ComparisonMatrix
}

type Aggregator struct {
	ref        RefSource
	calc       *rating.Calculator
	logger     *slog.Logger
	topN       int
	maxWorkers int
}

func New(ref RefSource, calc *rating.Calculator, topN, maxWorkers int, logger *slog.Logger) *Aggregator {
	if topN <= 0 {
		topN = 3
	}
	if maxWorkers <= 0 {
		maxWorkers = 8
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{ref: ref, calc: calc, logger: logger, topN: topN, maxWorkers: maxWorkers}
}

// Quote runs risk assessment, prices the request against every eligible
// carrier in parallel, and ranks the results. Per-candidate failures are
// logged and skipped; they never abort the other candidates.
func (a *Aggregator) Quote(ctx context.Context, req Request) (*Result, error) {
	assessment := risk.Assess(req.Applicant)

	companies, err := a.eligibleCompanies(ctx, req)
	if err != nil {
		return nil, err
	}

	// One output slot per company keeps enumeration order stable through
	// the parallel fan-out; nil slots are skipped candidates.
	slots := make([]*store.Quote, len(companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxWorkers)
	for i, company := range companies {
		g.Go(func() error {
			slots[i] = a.priceCandidate(gctx, company, assessment, req)
			return nil
		})
	}
	// Workers never return errors; the group is only a bounded join.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quotes := make([]*store.Quote, 0, len(slots))
	for _, q := range slots {
		if q != nil {
			quotes = append(quotes, q)
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].TotalMonthlyPremium < quotes[j].TotalMonthlyPremium
	})

	result := &Result{
		Assessment: assessment,
		Quotes:     quotes,
		Matrix:     buildMatrix(quotes),
	}
	for _, q := range quotes[:min(a.topN, len(quotes))] {
		result.Recommended = append(result.Recommended, PlanFromQuote(q, req.ProductType, req.Riders))
	}

	a.logger.Info("quote fan-out complete",
		"product_type", req.ProductType,
		"companies", len(companies),
		"quotes", len(quotes),
		"risk_score", assessment.Score)
	return result, nil
}

func (a *Aggregator) eligibleCompanies(ctx context.Context, req Request) ([]*store.Company, error) {
	if req.CompanyID != "" {
		company, err := a.ref.GetCompany(ctx, req.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("get company %s: %w", req.CompanyID, err)
		}
		if company == nil {
			return nil, nil
		}
		return []*store.Company{company}, nil
	}
	companies, err := a.ref.ListCompaniesByProduct(ctx, req.ProductType)
	if err != nil {
		return nil, fmt.Errorf("list companies for %s: %w", req.ProductType, err)
	}
	return companies, nil
}

// priceCandidate prices one carrier, converting every failure mode —
// ineligibility, reference-data errors, even a panic in pricing — into a
// nil (skipped) slot.
func (a *Aggregator) priceCandidate(ctx context.Context, company *store.Company, assessment risk.Assessment, req Request) (quote *store.Quote) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("pricing panic, candidate dropped", "company", company.ID, "panic", r)
			quote = nil
		}
	}()

	product, err := a.ref.GetActiveProduct(ctx, company.ID, req.ProductType)
	if err != nil {
		a.logger.Warn("failed to load product, candidate dropped", "company", company.ID, "error", err)
		return nil
	}
	if product == nil {
		return nil
	}

	table, err := a.ref.GetRateTable(ctx, company.ID, req.ProductType)
	if err != nil {
		a.logger.Warn("failed to load rate table, candidate dropped", "company", company.ID, "error", err)
		return nil
	}
	if table == nil {
		return nil
	}

	q, err := a.calc.Price(company, product, table, req.Applicant, assessment, rating.Request{
		CoverageAmount: req.CoverageAmount,
		Deductible:     req.Deductible,
		TermYears:      req.TermYears,
		Riders:         req.Riders,
	})
	if err != nil {
		if !rating.Ineligible(err) {
			a.logger.Warn("pricing failed, candidate dropped", "company", company.ID, "error", err)
		}
		return nil
	}
	return q
}

// buildMatrix derives the comparison highlights from the sorted quote list.
func buildMatrix(quotes []*store.Quote) *store.ComparisonMatrix {
	m := &store.ComparisonMatrix{}
	if len(quotes) == 0 {
		return m
	}
	m.LowestPremium = quotes[0]

	highest := quotes[0]
	for _, q := range quotes[1:] {
		if q.CompanyRating > highest.CompanyRating {
			highest = q
		}
	}
	m.HighestRated = highest

	for _, q := range quotes {
		if q.InstantApproval {
			m.FastestApproval = q
			break
		}
	}
	return m
}

// PlanFromQuote wraps a priced quote in a plan identity with its coverage
// details, the shape recommendation and scoring consume.
func PlanFromQuote(q *store.Quote, productType string, riders []string) *store.Plan {
	details := map[string]interface{}{
		"product_type":     productType,
		"instant_approval": q.InstantApproval,
	}
	if q.TermYears != nil {
		details["term_years"] = *q.TermYears
	}
	if len(riders) > 0 {
		details["riders"] = riders
	}
	return &store.Plan{
		PlanID:              store.NewRef("P", 6),
		PlanName:            q.CompanyName + " - " + q.ProductName,
		CompanyID:           q.CompanyID,
		CompanyName:         q.CompanyName,
		CompanyRating:       q.CompanyRating,
		CoverageAmount:      q.CoverageAmount,
		Deductible:          q.Deductible,
		BasePremium:         q.BasePremium,
		RiderPremiums:       q.RiderPremiums,
		TaxesFees:           q.TaxesFees,
		TotalMonthlyPremium: q.TotalMonthlyPremium,
		TotalAnnualPremium:  q.TotalAnnualPremium,
		CoverageDetails:     details,
		Exclusions:          q.Exclusions,
		WaitingPeriods:      q.WaitingPeriods,
	}
}
