package scoring

import "fmt"

// WeightSet holds the relative weight of each scoring dimension. Weights
// must sum to 1.0.
type WeightSet struct {
	Affordability float64 `yaml:"affordability" json:"affordability"`
	ClaimsEase    float64 `yaml:"claims_ease" json:"claims_ease"`
	CoverageRatio float64 `yaml:"coverage_ratio" json:"coverage_ratio"`
}

// DefaultWeights returns the standard production weighting.
func DefaultWeights() WeightSet {
	return WeightSet{
		Affordability: 0.40,
		ClaimsEase:    0.25,
		CoverageRatio: 0.35,
	}
}

func (w WeightSet) Sum() float64 {
	return w.Affordability + w.ClaimsEase + w.CoverageRatio
}

// Validate checks that weights are non-negative and sum to 1.0 within a
// small tolerance.
func (w WeightSet) Validate() error {
	if w.Affordability < 0 || w.ClaimsEase < 0 || w.CoverageRatio < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	sum := w.Sum()
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}
