package compare

import (
	"sort"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// Ranking is an ordered, best-first list of scenarios
type Ranking struct {
	scenarios []domain.Scenario
}

// Rank orders scenarios ascending by total cost compared in whole cents. The sort is
// stable, so scenarios that cost the same keep their build order.
func Rank(scenarios []domain.Scenario) Ranking {
	ordered := append([]domain.Scenario(nil), scenarios...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TotalCost.Round(2).LessThan(ordered[j].TotalCost.Round(2))
	})
	return Ranking{scenarios: ordered}
}

// Best returns the cheapest scenario, or false for an empty ranking
func (r Ranking) Best() (domain.Scenario, bool) {
	if len(r.scenarios) == 0 {
		return domain.Scenario{}, false
	}
	return r.scenarios[0], true
}

// All returns a copy of the ordered scenarios
func (r Ranking) All() []domain.Scenario {
	return append([]domain.Scenario(nil), r.scenarios...)
}

// Len is the number of ranked scenarios
func (r Ranking) Len() int {
	return len(r.scenarios)
}
