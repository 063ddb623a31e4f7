package compare

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one quote reduced to the figures an agent compares
type ComparisonResult struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Quote       *domain.QuoteResult `json:"-"`

	// Key Metrics (of the best scenario)
	BestScenario     domain.ScenarioType `json:"bestScenario"`
	TotalCost        decimal.Decimal     `json:"totalCost"`
	MonthlyTotal     decimal.Decimal     `json:"monthlyTotal"`
	UpfrontTotal     decimal.Decimal     `json:"upfrontTotal"`
	Reimbursements   decimal.Decimal     `json:"reimbursements"`
	EffectiveMonthly decimal.Decimal     `json:"effectiveMonthly"`
	ScenarioCount    int                 `json:"scenarioCount"`
	WarningCount     int                 `json:"warningCount"`

	// Comparison to Base
	TotalDiffFromBase   decimal.Decimal `json:"totalDiffFromBase"`
	TotalPctFromBase    decimal.Decimal `json:"totalPctFromBase"`
	MonthlyDiffFromBase decimal.Decimal `json:"monthlyDiffFromBase"`
	UpfrontDiffFromBase decimal.Decimal `json:"upfrontDiffFromBase"`
}

// ComparisonSet is a base quote alongside its what-if alternatives
type ComparisonSet struct {
	BaseName           string             `json:"baseName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
	TablesVersion      string             `json:"tablesVersion,omitempty"`
}

// MetricsCalculator extracts key metrics from quote results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics summarizes a quote by its best scenario
func (mc *MetricsCalculator) CalculateMetrics(name string, quote *domain.QuoteResult) ComparisonResult {
	result := ComparisonResult{Name: name, Quote: quote}
	if quote == nil {
		return result
	}

	result.ScenarioCount = len(quote.Scenarios)
	result.WarningCount = len(quote.Warnings)
	if quote.Best != nil {
		best := quote.Best
		result.BestScenario = best.Type
		result.TotalCost = best.TotalCost
		result.MonthlyTotal = best.MonthlyTotal
		result.UpfrontTotal = best.UpfrontTotal
		result.Reimbursements = best.Reimbursements
		result.EffectiveMonthly = best.EffectiveMonthly()
	}
	return result
}

// CalculateComparison computes deltas between an alternative and the base.
// Negative differences are savings.
func (mc *MetricsCalculator) CalculateComparison(alt, base ComparisonResult) ComparisonResult {
	alt.TotalDiffFromBase = alt.TotalCost.Sub(base.TotalCost)
	if !base.TotalCost.IsZero() {
		alt.TotalPctFromBase = alt.TotalDiffFromBase.
			Div(base.TotalCost).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	alt.MonthlyDiffFromBase = alt.MonthlyTotal.Sub(base.MonthlyTotal)
	alt.UpfrontDiffFromBase = alt.UpfrontTotal.Sub(base.UpfrontTotal)
	return alt
}

// GenerateRecommendations points out which alternatives beat the base quote
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	// Lowest total cost over the term
	lowestTotal := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalCost.LessThan(lowestTotal.TotalCost) {
			lowestTotal = alt
		}
	}
	if lowestTotal != base {
		savings := base.TotalCost.Sub(lowestTotal.TotalCost)
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest Total: %s saves $%s over the term versus %s",
				lowestTotal.Name, savings.StringFixed(2), base.Name))
	}

	// Lowest monthly bill
	lowestMonthly := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.MonthlyTotal.LessThan(lowestMonthly.MonthlyTotal) {
			lowestMonthly = alt
		}
	}
	if lowestMonthly != base {
		savings := base.MonthlyTotal.Sub(lowestMonthly.MonthlyTotal)
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest Monthly: %s lowers the bill by $%s/mo",
				lowestMonthly.Name, savings.StringFixed(2)))
	}

	// Least due at signing
	lowestUpfront := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.UpfrontTotal.LessThan(lowestUpfront.UpfrontTotal) {
			lowestUpfront = alt
		}
	}
	if lowestUpfront != base {
		savings := base.UpfrontTotal.Sub(lowestUpfront.UpfrontTotal)
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest Upfront: %s needs $%s less at signing",
				lowestUpfront.Name, savings.StringFixed(2)))
	}

	// Alternatives whose quote needed more assumptions than the base
	for _, alt := range compSet.AlternativeResults {
		if alt.WarningCount > base.WarningCount {
			recommendations = append(recommendations,
				fmt.Sprintf("Check: %s relies on %d assumption(s); review its warnings", alt.Name, alt.WarningCount))
		}
	}

	return recommendations
}
