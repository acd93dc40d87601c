package scoring

// ParetoCandidate is a scored plan projected onto the three value dimensions.
type ParetoCandidate struct {
	PlanID        string  `json:"plan_id"`
	Affordability float64 `json:"affordability"`
	ClaimsEase    float64 `json:"claims_ease"`
	CoverageRatio float64 `json:"coverage_ratio"`
}

// ValueFrontier returns the plans no other plan dominates: the set where
// any cheaper plan gives up claims ease or coverage value, and vice versa.
// O(n^2) dominance check — fine for recommendation-sized sets.
func ValueFrontier(scores []*PolicyScore) []ParetoCandidate {
	candidates := make([]ParetoCandidate, len(scores))
	for i, ps := range scores {
		candidates[i] = ParetoCandidate{
			PlanID:        ps.PlanID,
			Affordability: ps.AffordabilityScore,
			ClaimsEase:    ps.ClaimsEaseScore,
			CoverageRatio: ps.CoverageRatioScore,
		}
	}
	if len(candidates) <= 1 {
		return candidates
	}

	var frontier []ParetoCandidate
	for i := range candidates {
		dominated := false
		for j := range candidates {
			if i == j {
				continue
			}
			if dominates(candidates[j], candidates[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, candidates[i])
		}
	}
	return frontier
}

// dominates returns true if a is at least as good as b on every dimension
// and strictly better on at least one. Higher is better on all three.
func dominates(a, b ParetoCandidate) bool {
	if a.Affordability < b.Affordability || a.ClaimsEase < b.ClaimsEase || a.CoverageRatio < b.CoverageRatio {
		return false
	}
	return a.Affordability > b.Affordability || a.ClaimsEase > b.ClaimsEase || a.CoverageRatio > b.CoverageRatio
}
