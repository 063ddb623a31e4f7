package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/tui/components"
	"github.com/rgehrsitz/dealopt/internal/tui/tuistyles"
)

// ResultsModel shows the invoice breakdown of one scenario
type ResultsModel struct {
	scenario *domain.Scenario
	best     *domain.Scenario
	width    int
	height   int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResults updates the scenario to display. best is the cheapest scenario of
// the same quote and may be nil.
func (m *ResultsModel) SetResults(scenario, best *domain.Scenario) {
	m.scenario = scenario
	m.best = best
}

// Scenario returns the scenario on display
func (m *ResultsModel) Scenario() *domain.Scenario {
	return m.scenario
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	// read-only
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.scenario == nil {
		return `No scenario selected.

Pick one from the scenario list and press Enter.`
	}
	s := m.scenario

	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(s.Type.DisplayName())
	subtitle := tuistyles.SubtitleStyle.Render(fmt.Sprintf("%s, %d lines, %d-month term", s.Plan.PlanID, s.Plan.LineCount, s.FinancingTermMonths))

	sections := []string{
		lipgloss.JoinVertical(lipgloss.Left, title, subtitle),
		m.renderMetrics(),
		renderLines(s.PerLineBreakdown),
	}
	if len(s.PromotionsApplied) > 0 {
		sections = append(sections, renderPromotions(s.PromotionsApplied))
	}
	if len(s.Warnings) > 0 {
		sections = append(sections, renderWarnings(s.Warnings))
	}
	sections = append(sections, tuistyles.SubtitleStyle.Render("ESC back to scenarios"))

	return lipgloss.JoinVertical(lipgloss.Left, interleave(sections, "")...)
}

func (m *ResultsModel) renderMetrics() string {
	s := m.scenario
	var deltaTotal, deltaMonthly decimal.Decimal
	if m.best != nil {
		deltaTotal = s.TotalCost.Sub(m.best.TotalCost)
		deltaMonthly = s.MonthlyTotal.Sub(m.best.MonthlyTotal)
	}

	cards := []*components.MetricCard{
		components.NewMetricCard("Monthly", s.MonthlyTotal).WithDelta(deltaMonthly),
		components.NewMetricCard("Upfront", s.UpfrontTotal),
		components.NewMetricCard("Total cost", s.TotalCost).WithDelta(deltaTotal).
			WithDescription(fmt.Sprintf("%s/mo effective", tuistyles.FormatCurrency(s.EffectiveMonthly()))),
		components.NewMetricCard("Reimbursed", s.Reimbursements),
	}
	return components.MetricGrid(cards, 4)
}

func renderLines(lines []domain.LineItemBreakdown) string {
	var content strings.Builder
	header := fmt.Sprintf("%-22s %10s %10s %10s %10s %10s", "Line", "Service", "Device", "Protect", "Line fee", "Monthly")
	content.WriteString(tuistyles.TableHeaderStyle.Render(header))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", lipgloss.Width(header)))

	for _, l := range lines {
		label := l.Label
		if len(label) > 22 {
			label = label[:21] + "…"
		}
		fmt.Fprintf(&content, "\n%-22s %10s %10s %10s %10s %10s", label,
			tuistyles.FormatCurrency(l.MonthlyService),
			tuistyles.FormatCurrency(l.MonthlyFinancing),
			tuistyles.FormatCurrency(l.MonthlyInsurance),
			tuistyles.FormatCurrency(l.MonthlyLineFee),
			tuistyles.FormatCurrency(l.MonthlyTotal()))
		if l.TradeInCredit.IsPositive() || l.PromotionCredit.IsPositive() {
			content.WriteString("\n")
			content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("  credits: trade-in %s, promotion %s",
				tuistyles.FormatCurrency(l.TradeInCredit), tuistyles.FormatCurrency(l.PromotionCredit))))
		}
	}
	return tuistyles.BorderStyle.Padding(0, 1).Render(content.String())
}

func renderPromotions(promos []domain.AppliedPromotion) string {
	var content strings.Builder
	content.WriteString(tuistyles.TableHeaderStyle.Render("Promotions applied"))
	for _, p := range promos {
		target := "account"
		if p.TargetLineIndex != nil {
			target = fmt.Sprintf("line %d", *p.TargetLineIndex+1)
		}
		fmt.Fprintf(&content, "\n  %-20s %-8s %10s  %s", p.PromotionID, target, tuistyles.FormatCurrency(p.CreditAmount), p.Description)
	}
	return content.String()
}

func renderWarnings(warnings []domain.Warning) string {
	var content strings.Builder
	content.WriteString(tuistyles.WarningStyle.Render(fmt.Sprintf("%d warning(s)", len(warnings))))
	for _, w := range warnings {
		content.WriteString("\n")
		content.WriteString(tuistyles.WarningStyle.Render(fmt.Sprintf("  [%s] %s", w.Code, w.Message)))
	}
	return content.String()
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, len(items)*2)
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}
