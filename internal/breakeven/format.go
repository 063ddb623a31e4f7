package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// FormatCrossovers renders when each scenario catches up with the best one
func (tf *TableFormatter) FormatCrossovers(q *domain.QuoteResult, crossovers []Crossover) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN AGAINST THE BEST SCENARIO\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if q == nil || q.Best == nil {
		sb.WriteString("No scenario could be priced.\n")
		return sb.String()
	}
	term := q.Best.FinancingTermMonths
	sb.WriteString(fmt.Sprintf("Best:   %s ($%s over %d months)\n\n", q.Best.Type.DisplayName(), tf.formatCurrency(q.Best.TotalCost), term))

	sb.WriteString(fmt.Sprintf("%-24s %14s %14s %s\n", "Scenario", "Total", "Monthly Diff", "Catches Up"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, c := range crossovers {
		sb.WriteString(fmt.Sprintf("%-24s %14s %14s %s\n",
			tf.truncate(c.From.DisplayName(), 24),
			"$"+tf.formatCurrency(c.FromCost),
			tf.deltaSymbol(c.MonthlyDiff)+"$"+tf.formatCurrency(c.MonthlyDiff),
			tf.formatMonth(c, term)))
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatPayoff renders a payoff search result
func (tf *TableFormatter) FormatPayoff(result *PayoffResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN PAYOFF\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Target Scenario: %s\n", result.Target.DisplayName()))
	sb.WriteString(fmt.Sprintf("Line:            %d\n", result.Line))
	sb.WriteString(fmt.Sprintf("Status:          %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:      %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:     %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	if result.BreakEvenPayoff != nil {
		sb.WriteString(fmt.Sprintf("Break-even Payoff: $%s\n", tf.formatCurrency(*result.BreakEvenPayoff)))
	}
	if result.Baseline != nil {
		sb.WriteString(fmt.Sprintf("Best without it:   %s ($%s)\n", result.Baseline.Type.DisplayName(), tf.formatCurrency(result.Baseline.TotalCost)))
	}
	if result.AtBreakEven != nil {
		sb.WriteString(fmt.Sprintf("Best at payoff:    %s ($%s)\n", result.AtBreakEven.Type.DisplayName(), tf.formatCurrency(result.AtBreakEven.TotalCost)))
	}
	sb.WriteString("\n")
	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for crossovers or a payoff result
func (jf *JSONFormatter) Format(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Found"
	}
	return "⚠ Not reachable"
}

func (tf *TableFormatter) formatMonth(c Crossover, term int) string {
	switch {
	case c.Never:
		return "never"
	case c.Month <= 1:
		return "immediately"
	case c.WithinTerm(term):
		return fmt.Sprintf("month %d", c.Month)
	default:
		return fmt.Sprintf("month %d (after term)", c.Month)
	}
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.Abs().StringFixed(2)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
