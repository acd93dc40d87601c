package rating

import "github.com/MikeSquared-Agency/Quotient/internal/store"

// Factor fallback when no band matches. "No band matched" is a defined
// outcome, never an error.
const neutralFactor = 1.0

// AgeFactor returns the factor of the first age band whose inclusive range
// contains age, or 1.0 when no band matches.
func AgeFactor(table *store.RateTable, age int) float64 {
	for _, b := range table.AgeBands {
		if age >= b.MinAge && age <= b.MaxAge {
			return b.Factor
		}
	}
	return neutralFactor
}

// BMIFactor returns the factor of the first BMI band whose inclusive range
// contains bmi, or 1.0 when no band matches.
func BMIFactor(table *store.RateTable, bmi float64) float64 {
	for _, b := range table.BMIBands {
		if bmi >= b.MinBMI && bmi <= b.MaxBMI {
			return b.Factor
		}
	}
	return neutralFactor
}

// StateFactor returns the state's pricing factor, or 1.0 for states absent
// from the map.
func StateFactor(table *store.RateTable, state string) float64 {
	if f, ok := table.StateFactors[state]; ok {
		return f
	}
	return neutralFactor
}

// RiskFactor converts a 0-100 risk score to a premium multiplier in
// [1.0, 1.5]: 1 + score/200, bounded in case the score arrives out of range.
func RiskFactor(score float64) float64 {
	f := 1 + score/200
	if f < 1.0 {
		return 1.0
	}
	if f > 1.5 {
		return 1.5
	}
	return f
}
