package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/tui/tuistyles"
)

// ScenarioCard displays a compact overview of one priced scenario
type ScenarioCard struct {
	Rank       int
	Scenario   domain.Scenario
	Highlights []string
	IsSelected bool
	Width      int
}

// NewScenarioCard creates a card for the scenario at the given rank (1 is cheapest)
func NewScenarioCard(rank int, s domain.Scenario) *ScenarioCard {
	card := &ScenarioCard{
		Rank:     rank,
		Scenario: s,
		Width:    44,
	}
	card.AddHighlight(fmt.Sprintf("%s/mo, %s at signing", tuistyles.FormatCurrency(s.MonthlyTotal), tuistyles.FormatCurrency(s.UpfrontTotal)))
	if s.Reimbursements.IsPositive() {
		card.AddHighlight(fmt.Sprintf("%s reimbursed", tuistyles.FormatCurrency(s.Reimbursements)))
	}
	if n := len(s.PromotionsApplied); n > 0 {
		card.AddHighlight(fmt.Sprintf("%d promotion credit(s)", n))
	}
	if n := len(s.Warnings); n > 0 {
		card.AddHighlight(fmt.Sprintf("%d warning(s)", n))
	}
	return card
}

// AddHighlight adds a key figure
func (s *ScenarioCard) AddHighlight(highlight string) *ScenarioCard {
	s.Highlights = append(s.Highlights, highlight)
	return s
}

// SetSelected marks the card as selected
func (s *ScenarioCard) SetSelected(selected bool) *ScenarioCard {
	s.IsSelected = selected
	return s
}

// WithWidth sets the card width
func (s *ScenarioCard) WithWidth(width int) *ScenarioCard {
	s.Width = width
	return s
}

func (s *ScenarioCard) title() string {
	return fmt.Sprintf("#%d %s", s.Rank, s.Scenario.Type.DisplayName())
}

// Render returns the styled scenario card
func (s *ScenarioCard) Render() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render(s.title()))
	content.WriteString("\n")
	content.WriteString(tuistyles.MetricValueStyle.Render(tuistyles.FormatCurrency(s.Scenario.TotalCost)))
	content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf(" over %d months", s.Scenario.FinancingTermMonths)))
	content.WriteString("\n")

	for _, h := range s.Highlights {
		content.WriteString(tuistyles.SubtitleStyle.Render("• " + h))
		content.WriteString("\n")
	}

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(s.Width)

	return cardStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a compact single-line version
func (s *ScenarioCard) RenderCompact() string {
	name := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%-24s", s.title()))
	total := fmt.Sprintf("%12s", tuistyles.FormatCurrency(s.Scenario.TotalCost))
	return name + " " + total
}

// ScenarioListCompact renders a compact list for selection menus
func ScenarioListCompact(cards []*ScenarioCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios available")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(prefix + card.RenderCompact())
	}
	return strings.Join(rendered, "\n")
}
