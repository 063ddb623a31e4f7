package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/tui/components"
	"github.com/rgehrsitz/dealopt/internal/tui/tuimsg"
	"github.com/rgehrsitz/dealopt/internal/tui/tuistyles"
)

// ScenariosModel is the ranked scenario list
type ScenariosModel struct {
	quote         *domain.QuoteResult
	cards         []*components.ScenarioCard
	selectedIndex int
	width         int
	height        int
}

// NewScenariosModel creates a new scenarios scene model
func NewScenariosModel() *ScenariosModel {
	return &ScenariosModel{}
}

// SetQuote replaces the ranked scenarios. The selection stays on the same
// scenario type when it is still present.
func (m *ScenariosModel) SetQuote(quote *domain.QuoteResult) {
	previous := m.SelectedType()
	m.quote = quote
	m.cards = nil
	m.selectedIndex = 0
	if quote == nil {
		return
	}

	for i, s := range quote.Scenarios {
		m.cards = append(m.cards, components.NewScenarioCard(i+1, s))
		if s.Type == previous {
			m.selectedIndex = i
		}
	}
}

// SetSize updates the scene dimensions
func (m *ScenariosModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedType returns the scenario type under the cursor
func (m *ScenariosModel) SelectedType() domain.ScenarioType {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.cards) {
		return m.cards[m.selectedIndex].Scenario.Type
	}
	return ""
}

// Update handles messages for the scenarios scene
func (m *ScenariosModel) Update(msg tea.Msg) (*ScenariosModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.cards)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("g"))):
		m.selectedIndex = 0
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("G"))):
		m.selectedIndex = max(0, len(m.cards)-1)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		selected := m.SelectedType()
		if selected == "" {
			return m, nil
		}
		return m, func() tea.Msg { return tuimsg.ScenarioSelectedMsg{Type: selected} }
	}
	return m, nil
}

// View renders the scenarios scene
func (m *ScenariosModel) View() string {
	if len(m.cards) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios could be built for this configuration.")
	}

	for i, card := range m.cards {
		card.SetSelected(i == m.selectedIndex)
	}

	listStyle := tuistyles.BorderStyle.Width(44)
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Ranked by total cost")
	left := listStyle.Render(title + "\n\n" + components.ScenarioListCompact(m.cards, m.selectedIndex))

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.cards[m.selectedIndex].WithWidth(44).Render(),
		"",
		m.renderChart(),
	)

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	return content + "\n\n" + renderScenariosHelp()
}

func (m *ScenariosModel) renderChart() string {
	chart := components.NewBarChart("Total cost").WithWidth(24)
	for i, card := range m.cards {
		color := tuistyles.ColorBar
		if i == 0 {
			color = tuistyles.ColorSuccess
		}
		chart.AddBar(shortName(card.Scenario.Type), card.Scenario.TotalCost, color)
	}
	return chart.Render()
}

func shortName(t domain.ScenarioType) string {
	name := t.DisplayName()
	if len(name) > 16 {
		return name[:15] + "…"
	}
	return name
}

func renderScenariosHelp() string {
	return strings.Join([]string{"↑/k up", "↓/j down", "Enter breakdown", "g top", "G bottom"}, " • ")
}
