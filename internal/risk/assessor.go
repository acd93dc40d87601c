package risk

import "fmt"

// Assessment is the output of Assess: a 0-100 composite score, the
// contributing factors with their point deltas, and a coarse rating tier.
type Assessment struct {
	Score   float64  `json:"score"`
	Factors []Factor `json:"factors"`
	Rating  string   `json:"rating"` // low, medium, high
}

// Factor records one non-zero contribution to the risk score.
type Factor struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

const baseScore = 30

// Rating tier thresholds.
const (
	tierHighMin   = 70
	tierMediumMin = 40
)

var smokingPoints = map[string]float64{
	"daily":           20,
	"regular":         15,
	"occasional":      8,
	"quit_under_year": 10,
	"quit_over_year":  5,
	"never":           0,
}

var occupationPoints = map[string]float64{
	"construction":    12,
	"law_enforcement": 10,
	"transportation":  8,
	"self_employed":   5,
}

var alcoholPoints = map[string]float64{
	"daily":    12,
	"moderate": 6,
	"social":   2,
	"rare":     0,
	"never":    -2,
}

var exercisePoints = map[string]float64{
	"daily":   -8,
	"regular": -5,
	"weekly":  -2,
	"monthly": 0,
	"rarely":  3,
}

var activityPoints = map[string]float64{
	"scuba":          5,
	"skydiving":      8,
	"racing":         10,
	"climbing":       6,
	"martial_arts":   4,
	"flying":         7,
	"extreme_sports": 10,
}

// Assess computes the applicant's risk assessment. It is a pure function of
// the profile: missing optional fields contribute nothing, and no input can
// make it fail.
func Assess(p *Profile) Assessment {
	score := float64(baseScore)
	var factors []Factor

	add := func(label string, points float64) {
		if points == 0 {
			return
		}
		score += points
		factors = append(factors, Factor{Label: label, Points: points})
	}

	switch age := p.Age(); {
	case age > 60:
		add("Age over 60", 20)
	case age >= 45:
		add("Age 45-60", 10)
	case age < 25:
		add("Age under 25", 5)
	}

	// Tiered smoking/vaping habits supersede the legacy boolean flag so the
	// two signals never double-count.
	if pts, ok := smokingPoints[p.SmokingVaping]; ok {
		add("Smoking/vaping: "+p.SmokingVaping, pts)
	} else if p.Smoker != nil && *p.Smoker {
		add("Smoker", 15)
	}

	if bmi, ok := p.BMI(); ok {
		switch {
		case bmi > 35:
			add("BMI over 35", 15)
		case bmi > 30:
			add("BMI over 30", 10)
		case bmi < 18:
			add("BMI under 18", 5)
		}
	}

	if pts, ok := occupationPoints[p.Occupation]; ok {
		add("High-risk occupation: "+p.Occupation, pts)
	}
	if pts, ok := alcoholPoints[p.Alcohol]; ok {
		if pts < 0 {
			add("Non-drinker", pts)
		} else {
			add("Alcohol consumption: "+p.Alcohol, pts)
		}
	}
	if pts, ok := exercisePoints[p.Exercise]; ok {
		if pts < 0 {
			add("Regular exercise: "+p.Exercise, pts)
		} else {
			add("Sedentary lifestyle: "+p.Exercise, pts)
		}
	}

	for _, activity := range p.HighRiskActivities {
		if pts, ok := activityPoints[activity]; ok {
			add("High-risk activity: "+activity, pts)
		}
	}

	if n := len(p.PreExistingConditions); n > 0 {
		add(fmt.Sprintf("%d pre-existing conditions", n), float64(n)*5)
	}
	if p.Hospitalizations > 2 {
		add("Multiple hospitalizations", 10)
	}

	score = clamp(score, 0, 100)

	return Assessment{
		Score:   score,
		Factors: factors,
		Rating:  RatingForScore(score),
	}
}

// RatingForScore maps a risk score to its tier label.
func RatingForScore(score float64) string {
	switch {
	case score >= tierHighMin:
		return "high"
	case score >= tierMediumMin:
		return "medium"
	default:
		return "low"
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
