package scoring

import (
	"sort"
	"sync"

	"github.com/MikeSquared-Agency/Quotient/internal/risk"
	"github.com/MikeSquared-Agency/Quotient/internal/store"
)

// ScorePlans scores every candidate plan for the applicant in parallel and
// returns the results sorted descending by overall score. A plan whose
// scoring fails — error or panic — is logged and dropped; it never aborts
// the rest of the batch.
func (s *Scorer) ScorePlans(plans []*store.Plan, applicant *risk.Profile) []*PolicyScore {
	slots := make([]*PolicyScore, len(plans))

	var wg sync.WaitGroup
	for i, plan := range plans {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slots[i] = s.scoreIsolated(plan, applicant)
		}()
	}
	wg.Wait()

	scores := make([]*PolicyScore, 0, len(slots))
	for _, ps := range slots {
		if ps != nil {
			scores = append(scores, ps)
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallScore > scores[j].OverallScore
	})
	return scores
}

func (s *Scorer) scoreIsolated(plan *store.Plan, applicant *risk.Profile) (ps *PolicyScore) {
	planID := ""
	if plan != nil {
		planID = plan.PlanID
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scoring panic, plan dropped", "plan_id", planID, "panic", r)
			ps = nil
		}
	}()

	ps, err := s.ScorePlan(plan, applicant)
	if err != nil {
		s.logger.Error("failed to score plan, dropped", "plan_id", planID, "error", err)
		return nil
	}
	return ps
}
