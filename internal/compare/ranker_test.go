package compare

import (
	"testing"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario(t domain.ScenarioType, total string) domain.Scenario {
	return domain.Scenario{Type: t, Name: t.DisplayName(), TotalCost: dec(total)}
}

func TestRank_OrdersByTotalCost(t *testing.T) {
	ranking := Rank([]domain.Scenario{
		scenario(domain.ScenarioTradeInAll, "5990.40"),
		scenario(domain.ScenarioKeepAndSwitch, "4390.40"),
		scenario(domain.ScenarioBundleMax, "5100.00"),
	})

	require.Equal(t, 3, ranking.Len())
	best, ok := ranking.Best()
	require.True(t, ok)
	assert.Equal(t, domain.ScenarioKeepAndSwitch, best.Type)

	var types []domain.ScenarioType
	for _, s := range ranking.All() {
		types = append(types, s.Type)
	}
	assert.Equal(t, []domain.ScenarioType{domain.ScenarioKeepAndSwitch, domain.ScenarioBundleMax, domain.ScenarioTradeInAll}, types)
}

func TestRank_StableWithinACent(t *testing.T) {
	// 100.004 and 100.001 both round to 100.00 and keep build order
	ranking := Rank([]domain.Scenario{
		scenario(domain.ScenarioTradeInAll, "100.004"),
		scenario(domain.ScenarioKeepAndSwitch, "100.001"),
		scenario(domain.ScenarioSelectiveTrade, "100.00"),
		scenario(domain.ScenarioBundleMax, "99.99"),
	})

	all := ranking.All()
	assert.Equal(t, domain.ScenarioBundleMax, all[0].Type)
	assert.Equal(t, domain.ScenarioTradeInAll, all[1].Type)
	assert.Equal(t, domain.ScenarioKeepAndSwitch, all[2].Type)
	assert.Equal(t, domain.ScenarioSelectiveTrade, all[3].Type)
}

func TestRank_DoesNotReorderInput(t *testing.T) {
	input := []domain.Scenario{
		scenario(domain.ScenarioTradeInAll, "300"),
		scenario(domain.ScenarioKeepAndSwitch, "100"),
	}
	Rank(input)
	assert.Equal(t, domain.ScenarioTradeInAll, input[0].Type)
}

func TestRanking_AllReturnsCopy(t *testing.T) {
	ranking := Rank([]domain.Scenario{scenario(domain.ScenarioTradeInAll, "1")})
	all := ranking.All()
	all[0].Name = "changed"

	best, _ := ranking.Best()
	assert.Equal(t, domain.ScenarioTradeInAll.DisplayName(), best.Name)
}

func TestRanking_Empty(t *testing.T) {
	ranking := Rank(nil)
	_, ok := ranking.Best()
	assert.False(t, ok)
	assert.Empty(t, ranking.All())
	assert.Equal(t, 0, ranking.Len())
}
