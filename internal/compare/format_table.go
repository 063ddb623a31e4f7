package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

const tableWidth = 84

// Format generates a formatted table comparing the base quote with its alternatives
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("WHAT-IF QUOTE COMPARISON\n")
	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")
	sb.WriteString(fmt.Sprintf("Base: %s\n", compSet.BaseName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	if compSet.TablesVersion != "" {
		sb.WriteString(fmt.Sprintf("Tables: %s\n", compSet.TablesVersion))
	}
	sb.WriteString("\n")

	nameWidth := 28
	typeWidth := 16
	numWidth := 12

	sb.WriteString(fmt.Sprintf("%-*s %-*s %*s %*s %*s\n",
		nameWidth, "Alternative",
		typeWidth, "Best Scenario",
		numWidth, "Monthly",
		numWidth, "Upfront",
		numWidth, "Total Cost"))
	sb.WriteString(strings.Repeat("-", tableWidth) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, typeWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, typeWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")

	// Comparison details (deltas from base)
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Name))
			if alt.Description != "" && alt.Description != alt.Name {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Total Cost:    %s (%s%%)\n",
				tf.formatDelta(alt.TotalDiffFromBase), signed(alt.TotalPctFromBase, 1)))
			if !alt.MonthlyDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Monthly:       %s\n", tf.formatDelta(alt.MonthlyDiffFromBase)))
			}
			if !alt.UpfrontDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Upfront:       %s\n", tf.formatDelta(alt.UpfrontDiffFromBase)))
			}
		}
		sb.WriteString("\n")
	}

	// Recommendations
	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single alternative row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, typeWidth, numWidth int, isBase bool) string {
	name := result.Name
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %-*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		typeWidth, tf.truncate(string(result.BestScenario), typeWidth),
		numWidth, "$"+result.MonthlyTotal.StringFixed(2),
		numWidth, "$"+result.UpfrontTotal.StringFixed(2),
		numWidth, "$"+result.TotalCost.StringFixed(2))
}

// formatDelta renders a cost delta; negative deltas are savings
func (tf *TableFormatter) formatDelta(delta decimal.Decimal) string {
	switch {
	case delta.IsNegative():
		return fmt.Sprintf("-$%s (saves)", delta.Abs().StringFixed(2))
	case delta.IsPositive():
		return fmt.Sprintf("+$%s", delta.StringFixed(2))
	}
	return "no change"
}

func signed(d decimal.Decimal, places int32) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(places)
	}
	return d.StringFixed(places)
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary of every alternative
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s", compSet.BaseName))
	if compSet.BaseResult != nil {
		sb.WriteString(fmt.Sprintf(" $%s", compSet.BaseResult.TotalCost.StringFixed(2)))
	}

	for _, alt := range compSet.AlternativeResults {
		change := "="
		if alt.TotalDiffFromBase.IsPositive() {
			change = "+$" + alt.TotalDiffFromBase.StringFixed(2)
		} else if alt.TotalDiffFromBase.IsNegative() {
			change = "-$" + alt.TotalDiffFromBase.Abs().StringFixed(2)
		}
		sb.WriteString(fmt.Sprintf(" | %s: %s", alt.Name, change))
	}

	return sb.String()
}
