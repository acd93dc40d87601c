package risk

import (
	"fmt"
	"time"
)

// Profile carries the applicant attributes consumed by risk assessment and
// pricing. It is supplied fresh per request and never mutated by the engine.
type Profile struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	DOB       string `json:"dob"` // YYYY-MM-DD
	Gender    string `json:"gender,omitempty"`
	State     string `json:"state,omitempty"`
	Email     string `json:"email,omitempty"`

	AnnualIncome float64 `json:"annual_income,omitempty"`
	Occupation   string  `json:"occupation,omitempty"`

	HeightCM *float64 `json:"height_cm,omitempty"`
	WeightKG *float64 `json:"weight_kg,omitempty"`

	Smoker        *bool  `json:"smoker,omitempty"`
	SmokingVaping string `json:"smoking_vaping_habits,omitempty"` // daily, regular, occasional, quit_under_year, quit_over_year, never
	Alcohol       string `json:"alcohol_consumption,omitempty"`   // daily, moderate, social, rare, never
	Exercise      string `json:"exercise_frequency,omitempty"`    // daily, regular, weekly, monthly, rarely

	HighRiskActivities    []string `json:"high_risk_activities,omitempty"`
	PreExistingConditions []string `json:"pre_existing_conditions,omitempty"`
	Medications           []string `json:"medications,omitempty"`
	Hospitalizations      int      `json:"hospitalizations_last_5_years,omitempty"`
}

// Validate checks the fields the engine cannot work without.
func (p *Profile) Validate() error {
	if p.DOB == "" {
		return fmt.Errorf("dob is required")
	}
	if _, err := time.Parse("2006-01-02", p.DOB); err != nil {
		return fmt.Errorf("dob must be in YYYY-MM-DD format: %q", p.DOB)
	}
	return nil
}

// Age returns the applicant's age in whole years as of now.
func (p *Profile) Age() int {
	return p.AgeAt(time.Now())
}

// AgeAt returns the applicant's age in whole years at the reference date.
// Returns 0 if the date of birth cannot be parsed.
func (p *Profile) AgeAt(ref time.Time) int {
	birth, err := time.Parse("2006-01-02", p.DOB)
	if err != nil {
		return 0
	}
	years := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// BMI returns the body mass index and whether it could be computed.
// Both height and weight must be present and positive.
func (p *Profile) BMI() (float64, bool) {
	if p.HeightCM == nil || p.WeightKG == nil || *p.HeightCM <= 0 || *p.WeightKG <= 0 {
		return 0, false
	}
	m := *p.HeightCM / 100
	return *p.WeightKG / (m * m), true
}

// IsSmoker merges the legacy boolean flag with the tiered habit field.
// Any current-use tier counts as smoking for pricing purposes.
func (p *Profile) IsSmoker() bool {
	switch p.SmokingVaping {
	case "daily", "regular", "occasional":
		return true
	case "never", "quit_under_year", "quit_over_year":
		return false
	}
	return p.Smoker != nil && *p.Smoker
}
