package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Alternative",
		"Role",
		"Description",
		"Best Scenario",
		"Monthly Total",
		"Upfront Total",
		"Total Cost",
		"Reimbursements",
		"Effective Monthly",
		"Total Diff from Base",
		"Total % Change",
		"Monthly Diff from Base",
		"Upfront Diff from Base",
		"Warnings",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, role string) []string {
	return []string{
		result.Name,
		role,
		result.Description,
		string(result.BestScenario),
		result.MonthlyTotal.StringFixed(2),
		result.UpfrontTotal.StringFixed(2),
		result.TotalCost.StringFixed(2),
		result.Reimbursements.StringFixed(2),
		result.EffectiveMonthly.StringFixed(2),
		result.TotalDiffFromBase.StringFixed(2),
		result.TotalPctFromBase.StringFixed(2),
		result.MonthlyDiffFromBase.StringFixed(2),
		result.UpfrontDiffFromBase.StringFixed(2),
		strconv.Itoa(result.WarningCount),
	}
}
