package rating

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/Quotient/internal/risk"
	"github.com/MikeSquared-Agency/Quotient/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func float64Ptr(v float64) *float64 { return &v }

func testCompany() *store.Company {
	return &store.Company{ID: "HEALTHGUARD", Name: "HealthGuard Insurance", Rating: 4.5}
}

func healthProduct() *store.Product {
	return &store.Product{
		ID:          "HEALTHGUARD_HEALTH_BASIC",
		CompanyID:   "HEALTHGUARD",
		ProductType: store.ProductHealthBasic,
		ProductName: "HealthGuard Essential Health",
		MinCoverage: 100000,
		MaxCoverage: 1000000,
		BaseRate:    150,
		Active:      true,
	}
}

func lifeProduct() *store.Product {
	return &store.Product{
		ID:          "LIFECARE_LIFE_TERM",
		CompanyID:   "LIFECARE",
		ProductType: store.ProductLifeTerm,
		ProductName: "LifeCare Term Life",
		MinCoverage: 100000,
		MaxCoverage: 10000000,
		BaseRate:    0.12,
		Active:      true,
	}
}

// flatTable prices everything at factor 1.0 except the state map.
func flatTable() *store.RateTable {
	return &store.RateTable{
		AgeBands: []store.AgeBand{
			{MinAge: 18, MaxAge: 45, Factor: 1.0},
			{MinAge: 46, MaxAge: 65, Factor: 1.3},
		},
		BMIBands: []store.BMIBand{
			{MinBMI: 18.5, MaxBMI: 30, Factor: 1.0},
			{MinBMI: 30, MaxBMI: 35, Factor: 1.3},
		},
		SmokerFactor: 1.5,
		StateFactors: map[string]float64{"CA": 1.1},
		RiderRates: map[string]float64{
			"DENTAL":           25,
			"ACCIDENTAL_DEATH": 0.0002,
		},
	}
}

func applicantAged(age int, state string) *risk.Profile {
	dob := time.Now().AddDate(-age, 0, 0).Format("2006-01-02")
	return &risk.Profile{DOB: dob, State: state}
}

func TestPriceHealthProduct(t *testing.T) {
	// Monthly = base_rate x age x health x state x risk
	// = 150 x 1.0 x 1.0 x 1.1 x 1.15 = 189.75
	calc := NewCalculator(0.08, discardLogger())
	p := applicantAged(35, "CA")

	q, err := calc.Price(testCompany(), healthProduct(), flatTable(), p,
		risk.Assessment{Score: 30}, Request{CoverageAmount: 500000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.BasePremium != 189.75 {
		t.Errorf("base premium = %v, expected 189.75", q.BasePremium)
	}
	if q.TaxesFees != 15.18 {
		t.Errorf("taxes/fees = %v, expected 15.18", q.TaxesFees)
	}
	if q.TotalMonthlyPremium != 204.93 {
		t.Errorf("total monthly = %v, expected 204.93", q.TotalMonthlyPremium)
	}
	if q.TotalAnnualPremium != 2459.16 {
		t.Errorf("total annual = %v, expected 2459.16", q.TotalAnnualPremium)
	}
}

func TestPriceLifeProductScalesWithCoverage(t *testing.T) {
	// Monthly = (coverage/1000) x base_rate x age x health x state x risk
	// = 250 x 0.12 x 1.3 x 1.0 x 1.0 x 1.2 = 46.80
	calc := NewCalculator(0.08, discardLogger())
	p := applicantAged(50, "TX") // TX absent from the table: neutral state factor

	q, err := calc.Price(testCompany(), lifeProduct(), flatTable(), p,
		risk.Assessment{Score: 40}, Request{CoverageAmount: 250000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.BasePremium != 46.8 {
		t.Errorf("base premium = %v, expected 46.80", q.BasePremium)
	}
	if q.TaxesFees != 3.74 {
		t.Errorf("taxes/fees = %v, expected 3.74", q.TaxesFees)
	}
	if q.TotalMonthlyPremium != 50.54 {
		t.Errorf("total monthly = %v, expected 50.54", q.TotalMonthlyPremium)
	}
}

func TestPriceSmokerAndBMIFactors(t *testing.T) {
	calc := NewCalculator(0.08, discardLogger())
	p := applicantAged(35, "CA")
	p.SmokingVaping = "daily"
	p.HeightCM = float64Ptr(180)
	p.WeightKG = float64Ptr(105) // BMI 32.4 -> band factor 1.3

	q, err := calc.Price(testCompany(), healthProduct(), flatTable(), p,
		risk.Assessment{Score: 30}, Request{CoverageAmount: 500000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 150 x 1.0 x (1.5 x 1.3) x 1.1 x 1.15 = 370.01 (rounded)
	if q.BasePremium != 370.01 {
		t.Errorf("base premium = %v, expected 370.01", q.BasePremium)
	}
}

func TestPriceRiders(t *testing.T) {
	calc := NewCalculator(0.08, discardLogger())
	p := applicantAged(35, "TX")

	q, err := calc.Price(testCompany(), lifeProduct(), flatTable(), p,
		risk.Assessment{Score: 40},
		Request{CoverageAmount: 250000, Riders: []string{"DENTAL", "ACCIDENTAL_DEATH", "VISION"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Flat rider: rate as-is.
	if q.RiderPremiums["DENTAL"] != 25 {
		t.Errorf("DENTAL premium = %v, expected 25", q.RiderPremiums["DENTAL"])
	}
	// Proportional rider: (coverage/1000) x rate x risk = 250 x 0.0002 x 1.2 = 0.06
	if q.RiderPremiums["ACCIDENTAL_DEATH"] != 0.06 {
		t.Errorf("ACCIDENTAL_DEATH premium = %v, expected 0.06", q.RiderPremiums["ACCIDENTAL_DEATH"])
	}
	// Riders absent from the rate table are skipped, not errors.
	if _, ok := q.RiderPremiums["VISION"]; ok {
		t.Error("VISION has no rate and should be skipped")
	}
}

func TestPriceCoverageOutOfBounds(t *testing.T) {
	calc := NewCalculator(0.08, discardLogger())
	p := applicantAged(35, "CA")

	for _, coverage := range []float64{50000, 2000000} {
		_, err := calc.Price(testCompany(), healthProduct(), flatTable(), p,
			risk.Assessment{Score: 30}, Request{CoverageAmount: coverage})
		if !errors.Is(err, ErrCoverageOutOfBounds) {
			t.Errorf("coverage %v: expected ErrCoverageOutOfBounds, got %v", coverage, err)
		}
		if !Ineligible(err) {
			t.Errorf("coverage %v: bounds failure should be ineligibility", coverage)
		}
	}
}

func TestPriceNilRateTable(t *testing.T) {
	calc := NewCalculator(0.08, discardLogger())
	_, err := calc.Price(testCompany(), healthProduct(), nil, applicantAged(35, "CA"),
		risk.Assessment{Score: 30}, Request{CoverageAmount: 500000})
	if !errors.Is(err, ErrNoRateTable) {
		t.Errorf("expected ErrNoRateTable, got %v", err)
	}
	if !Ineligible(err) {
		t.Error("missing rate table should be ineligibility")
	}
}

func TestPriceInstantApprovalGate(t *testing.T) {
	calc := NewCalculator(0.08, discardLogger())
	p := applicantAged(35, "CA")

	q, err := calc.Price(testCompany(), healthProduct(), flatTable(), p,
		risk.Assessment{Score: 69}, Request{CoverageAmount: 500000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.InstantApproval {
		t.Error("score 69 should be instantly approved")
	}
	if q.UnderwritingRequirements == nil || len(q.UnderwritingRequirements) != 0 {
		t.Errorf("instant approval should carry an empty requirement list, got %v", q.UnderwritingRequirements)
	}

	q, err = calc.Price(testCompany(), healthProduct(), flatTable(), p,
		risk.Assessment{Score: 70}, Request{CoverageAmount: 500000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.InstantApproval {
		t.Error("score 70 should require underwriting")
	}
	if len(q.UnderwritingRequirements) != 1 || q.UnderwritingRequirements[0].Type != "medical_exam" {
		t.Errorf("expected medical_exam requirement, got %v", q.UnderwritingRequirements)
	}
}

func TestPriceAnnualIsTwelveMonths(t *testing.T) {
	calc := NewCalculator(0.08, discardLogger())
	p := applicantAged(28, "CA")

	q, err := calc.Price(testCompany(), healthProduct(), flatTable(), p,
		risk.Assessment{Score: 55},
		Request{CoverageAmount: 500000, Riders: []string{"DENTAL"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Annual is the rounded product, so compare within half a cent.
	if math.Abs(q.TotalAnnualPremium-q.TotalMonthlyPremium*12) > 0.005 {
		t.Errorf("annual %v != monthly %v x 12", q.TotalAnnualPremium, q.TotalMonthlyPremium)
	}
}

func TestPriceDeterministic(t *testing.T) {
	calc := NewCalculator(0.08, discardLogger())
	p := applicantAged(42, "NY")
	req := Request{CoverageAmount: 300000, Riders: []string{"DENTAL"}}
	assessment := risk.Assessment{Score: 48}

	first, err := calc.Price(testCompany(), healthProduct(), flatTable(), p, assessment, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		q, err := calc.Price(testCompany(), healthProduct(), flatTable(), p, assessment, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.TotalMonthlyPremium != first.TotalMonthlyPremium || q.TotalAnnualPremium != first.TotalAnnualPremium {
			t.Fatalf("pricing not deterministic: %v vs %v", q.TotalMonthlyPremium, first.TotalMonthlyPremium)
		}
	}
}
