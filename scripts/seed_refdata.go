// seed_refdata.go — standalone script to create the Quotient schema and seed
// carrier reference data (companies, products, rate tables).
//
// Usage:
//
//	go run scripts/seed_refdata.go -db postgres://localhost:5432/quotient
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		company_id          text PRIMARY KEY,
		name                text NOT NULL,
		rating              double precision NOT NULL,
		risk_appetite       text NOT NULL,
		products_offered    text[] NOT NULL DEFAULT '{}',
		max_coverage_limits jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id      text PRIMARY KEY,
		company_id      text NOT NULL REFERENCES companies(company_id),
		product_type    text NOT NULL,
		product_name    text NOT NULL,
		min_coverage    double precision NOT NULL,
		max_coverage    double precision NOT NULL,
		base_rate       double precision NOT NULL,
		available_riders jsonb,
		waiting_periods jsonb,
		exclusions      text[] NOT NULL DEFAULT '{}',
		active          boolean NOT NULL DEFAULT true
	)`,
	`CREATE TABLE IF NOT EXISTS rate_tables (
		company_id         text NOT NULL REFERENCES companies(company_id),
		product_type       text NOT NULL,
		age_bands          jsonb NOT NULL,
		bmi_ranges         jsonb NOT NULL,
		smoker_factor      double precision NOT NULL,
		state_factors      jsonb,
		occupation_classes jsonb,
		discounts          jsonb,
		rider_rates        jsonb,
		PRIMARY KEY (company_id, product_type)
	)`,
	`CREATE TABLE IF NOT EXISTS quote_sessions (
		session_id      text PRIMARY KEY,
		applicant_id    text NOT NULL,
		quote_date      timestamptz NOT NULL,
		valid_until     timestamptz NOT NULL,
		product_type    text NOT NULL,
		coverage_amount double precision NOT NULL,
		term_years      integer,
		riders          text[],
		payload         jsonb NOT NULL,
		scores          jsonb,
		created_at      timestamptz NOT NULL DEFAULT now(),
		updated_at      timestamptz NOT NULL DEFAULT now()
	)`,
}

type company struct {
	ID           string
	Name         string
	Rating       float64
	RiskAppetite string
	Products     []string
	MaxLimits    map[string]float64
}

var companies = []company{
	{
		ID: "HEALTHGUARD", Name: "HealthGuard Insurance", Rating: 4.5, RiskAppetite: "moderate",
		Products: []string{"HEALTH_BASIC", "HEALTH_PREMIUM", "CRITICAL_ILLNESS"},
		MaxLimits: map[string]float64{"HEALTH_BASIC": 1000000, "HEALTH_PREMIUM": 5000000, "CRITICAL_ILLNESS": 500000},
	},
	{
		ID: "LIFECARE", Name: "LifeCare Mutual", Rating: 4.7, RiskAppetite: "conservative",
		Products: []string{"LIFE_TERM", "LIFE_WHOLE", "CRITICAL_ILLNESS"},
		MaxLimits: map[string]float64{"LIFE_TERM": 10000000, "LIFE_WHOLE": 5000000, "CRITICAL_ILLNESS": 1000000},
	},
	{
		ID: "SHIELDPRO", Name: "ShieldPro Insurance Group", Rating: 4.3, RiskAppetite: "aggressive",
		Products: []string{"HEALTH_BASIC", "HEALTH_PREMIUM", "LIFE_TERM", "CRITICAL_ILLNESS"},
		MaxLimits: map[string]float64{"HEALTH_BASIC": 750000, "HEALTH_PREMIUM": 3000000, "LIFE_TERM": 5000000, "CRITICAL_ILLNESS": 750000},
	},
	{
		ID: "AMERICARE", Name: "AmeriCare National", Rating: 4.6, RiskAppetite: "moderate",
		Products: []string{"HEALTH_BASIC", "HEALTH_PREMIUM", "CRITICAL_ILLNESS"},
		MaxLimits: map[string]float64{"HEALTH_BASIC": 1500000, "HEALTH_PREMIUM": 7500000, "CRITICAL_ILLNESS": 1000000},
	},
	{
		ID: "TRUSTLIFE", Name: "TrustLife Insurance", Rating: 4.8, RiskAppetite: "conservative",
		Products: []string{"LIFE_TERM", "LIFE_WHOLE", "CRITICAL_ILLNESS"},
		MaxLimits: map[string]float64{"LIFE_TERM": 15000000, "LIFE_WHOLE": 10000000, "CRITICAL_ILLNESS": 2000000},
	},
}

type rider struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

type productTemplate struct {
	NameSuffix     string
	MinCoverage    float64
	MaxCoverage    float64
	BaseRate       float64
	Riders         []rider
	WaitingPeriods map[string]int
	Exclusions     []string
}

var productTemplates = map[string]productTemplate{
	"HEALTH_BASIC": {
		NameSuffix: "Essential Health", MinCoverage: 100000, MaxCoverage: 1000000, BaseRate: 200,
		Riders:         []rider{{"DENTAL", 25}, {"VISION", 15}},
		WaitingPeriods: map[string]int{"general": 30, "pre_existing": 365},
		Exclusions:     []string{"cosmetic_surgery", "experimental_treatment", "self_inflicted"},
	},
	"HEALTH_PREMIUM": {
		NameSuffix: "Premier Health", MinCoverage: 500000, MaxCoverage: 5000000, BaseRate: 500,
		Riders:         []rider{{"DENTAL_PLUS", 50}, {"VISION_PLUS", 30}, {"WELLNESS", 40}},
		WaitingPeriods: map[string]int{"general": 15, "pre_existing": 180},
		Exclusions:     []string{"cosmetic_surgery", "experimental_treatment"},
	},
	"LIFE_TERM": {
		NameSuffix: "Term Life", MinCoverage: 100000, MaxCoverage: 10000000, BaseRate: 0.001,
		Riders:         []rider{{"ACCIDENTAL_DEATH", 0.0001}, {"WAIVER_PREMIUM", 0.00005}, {"CHILD_RIDER", 5}},
		WaitingPeriods: map[string]int{"general": 0, "suicide": 730},
		Exclusions:     []string{"suicide_first_2_years", "war", "aviation_private"},
	},
	"LIFE_WHOLE": {
		NameSuffix: "Whole Life", MinCoverage: 50000, MaxCoverage: 5000000, BaseRate: 0.003,
		Riders:         []rider{{"PAID_UP", 0.0002}, {"LONG_TERM_CARE", 0.0003}},
		WaitingPeriods: map[string]int{"general": 0},
		Exclusions:     []string{"suicide_first_2_years", "war"},
	},
	"CRITICAL_ILLNESS": {
		NameSuffix: "Critical Care", MinCoverage: 25000, MaxCoverage: 1000000, BaseRate: 0.002,
		Riders:         []rider{{"RECURRENCE", 0.0001}, {"CHILD_CRITICAL", 10}},
		WaitingPeriods: map[string]int{"general": 90, "pre_existing": 730},
		Exclusions:     []string{"pre_existing_conditions", "self_inflicted", "hiv_aids"},
	},
}

// appetiteRateMultiplier scales product base rates by underwriting appetite.
var appetiteRateMultiplier = map[string]float64{
	"conservative": 1.2,
	"moderate":     1.0,
	"aggressive":   0.85,
}

type band struct {
	MinAge int     `json:"min_age,omitempty"`
	MaxAge int     `json:"max_age,omitempty"`
	MinBMI float64 `json:"min_bmi,omitempty"`
	MaxBMI float64 `json:"max_bmi,omitempty"`
	Factor float64 `json:"factor"`
}

func ageBands(appetite string) []band {
	base := []band{
		{MinAge: 18, MaxAge: 25, Factor: 0.8},
		{MinAge: 26, MaxAge: 35, Factor: 0.9},
		{MinAge: 36, MaxAge: 45, Factor: 1.0},
		{MinAge: 46, MaxAge: 55, Factor: 1.3},
		{MinAge: 56, MaxAge: 65, Factor: 1.7},
		{MinAge: 66, MaxAge: 75, Factor: 2.2},
		{MinAge: 76, MaxAge: 100, Factor: 3.0},
	}
	mult := 1.0
	switch appetite {
	case "conservative":
		mult = 1.1
	case "aggressive":
		mult = 0.95
	}
	for i := range base {
		base[i].Factor *= mult
	}
	return base
}

func smokerFactor(appetite string) float64 {
	switch appetite {
	case "conservative":
		return 1.5 * 1.1
	case "aggressive":
		return 1.5 * 0.95
	}
	return 1.5
}

var bmiBands = []band{
	{MinBMI: 0, MaxBMI: 18.5, Factor: 1.1},
	{MinBMI: 18.5, MaxBMI: 25, Factor: 1.0},
	{MinBMI: 25, MaxBMI: 30, Factor: 1.1},
	{MinBMI: 30, MaxBMI: 35, Factor: 1.3},
	{MinBMI: 35, MaxBMI: 100, Factor: 1.5},
}

var stateFactors = map[string]float64{
	"CA": 1.1, "NY": 1.15, "TX": 0.95, "FL": 1.05,
	"IL": 1.0, "PA": 0.98, "OH": 0.96, "GA": 0.97,
	"NC": 0.95, "MI": 0.99, "WA": 1.08, "MA": 1.12,
	"VA": 1.0, "AZ": 1.02, "CO": 1.05, "NJ": 1.1,
	"CT": 1.08, "MD": 1.06,
}

var occupationClasses = map[string]float64{
	"low_risk":       0.9,
	"medium_risk":    1.0,
	"high_risk":      1.3,
	"very_high_risk": 1.6,
}

var discounts = map[string]float64{
	"multi_policy":      0.1,
	"annual_payment":    0.05,
	"group":             0.15,
	"loyalty_5_years":   0.08,
	"healthy_lifestyle": 0.1,
}

func main() {
	dbURL := flag.String("db", "postgres://localhost:5432/quotient", "database URL")
	flag.Parse()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	for _, ddl := range schema {
		if _, err := conn.Exec(ctx, ddl); err != nil {
			log.Fatalf("create schema: %v", err)
		}
	}

	for _, c := range companies {
		limits := mustJSON(c.MaxLimits)
		if _, err := conn.Exec(ctx, `
			INSERT INTO companies (company_id, name, rating, risk_appetite, products_offered, max_coverage_limits)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (company_id) DO UPDATE SET
				name = EXCLUDED.name, rating = EXCLUDED.rating,
				risk_appetite = EXCLUDED.risk_appetite,
				products_offered = EXCLUDED.products_offered,
				max_coverage_limits = EXCLUDED.max_coverage_limits`,
			c.ID, c.Name, c.Rating, c.RiskAppetite, c.Products, limits); err != nil {
			log.Fatalf("seed company %s: %v", c.ID, err)
		}

		for _, productType := range c.Products {
			tmpl, ok := productTemplates[productType]
			if !ok {
				continue
			}
			maxCoverage := tmpl.MaxCoverage
			if limit, ok := c.MaxLimits[productType]; ok && limit < maxCoverage {
				maxCoverage = limit
			}
			baseRate := tmpl.BaseRate * appetiteRateMultiplier[c.RiskAppetite]

			productID := fmt.Sprintf("%s_%s", c.ID, productType)
			if _, err := conn.Exec(ctx, `
				INSERT INTO products (product_id, company_id, product_type, product_name,
					min_coverage, max_coverage, base_rate,
					available_riders, waiting_periods, exclusions, active)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true)
				ON CONFLICT (product_id) DO UPDATE SET
					product_name = EXCLUDED.product_name,
					min_coverage = EXCLUDED.min_coverage, max_coverage = EXCLUDED.max_coverage,
					base_rate = EXCLUDED.base_rate,
					available_riders = EXCLUDED.available_riders,
					waiting_periods = EXCLUDED.waiting_periods,
					exclusions = EXCLUDED.exclusions, active = true`,
				productID, c.ID, productType, fmt.Sprintf("%s %s", c.Name, tmpl.NameSuffix),
				tmpl.MinCoverage, maxCoverage, baseRate,
				mustJSON(tmpl.Riders), mustJSON(tmpl.WaitingPeriods), tmpl.Exclusions); err != nil {
				log.Fatalf("seed product %s: %v", productID, err)
			}

			riderRates := make(map[string]float64, len(tmpl.Riders))
			for _, r := range tmpl.Riders {
				riderRates[r.Code] = r.Rate
			}
			if _, err := conn.Exec(ctx, `
				INSERT INTO rate_tables (company_id, product_type, age_bands, bmi_ranges,
					smoker_factor, state_factors, occupation_classes, discounts, rider_rates)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (company_id, product_type) DO UPDATE SET
					age_bands = EXCLUDED.age_bands, bmi_ranges = EXCLUDED.bmi_ranges,
					smoker_factor = EXCLUDED.smoker_factor, state_factors = EXCLUDED.state_factors,
					occupation_classes = EXCLUDED.occupation_classes,
					discounts = EXCLUDED.discounts, rider_rates = EXCLUDED.rider_rates`,
				c.ID, productType, mustJSON(ageBands(c.RiskAppetite)), mustJSON(bmiBands),
				smokerFactor(c.RiskAppetite), mustJSON(stateFactors),
				mustJSON(occupationClasses), mustJSON(discounts), mustJSON(riderRates)); err != nil {
				log.Fatalf("seed rate table %s/%s: %v", c.ID, productType, err)
			}
		}
	}

	log.Printf("seeded %d companies with products and rate tables", len(companies))
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	return b
}
