package scenes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/dealopt/internal/compare"
	"github.com/rgehrsitz/dealopt/internal/transform"
	"github.com/rgehrsitz/dealopt/internal/tui/tuimsg"
	"github.com/rgehrsitz/dealopt/internal/tui/tuistyles"
)

// CompareModel picks what-if templates and shows how each changes the quote
type CompareModel struct {
	templates   []transform.Template
	selected    map[int]bool
	cursorIndex int
	results     *compare.ComparisonSet
	comparing   bool
	width       int
	height      int
}

// NewCompareModel creates a compare scene over the templates in registry
func NewCompareModel(registry *transform.TemplateRegistry) *CompareModel {
	m := &CompareModel{selected: make(map[int]bool)}
	for _, name := range registry.List() {
		if t, ok := registry.Get(name); ok {
			m.templates = append(m.templates, t)
		}
	}
	sort.SliceStable(m.templates, func(i, j int) bool { return m.templates[i].Category < m.templates[j].Category })
	return m
}

// SetResults stores a finished comparison
func (m *CompareModel) SetResults(set *compare.ComparisonSet) {
	m.results = set
	m.comparing = false
}

// Comparing reports whether a comparison is in flight
func (m *CompareModel) Comparing() bool {
	return m.comparing
}

// ClearResults drops a comparison made against an older configuration or tables
func (m *CompareModel) ClearResults() {
	m.results = nil
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedTemplates returns the checked template names in list order
func (m *CompareModel) SelectedTemplates() []string {
	var names []string
	for i, t := range m.templates {
		if m.selected[i] {
			names = append(names, t.Name)
		}
	}
	return names
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursorIndex > 0 {
			m.cursorIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursorIndex < len(m.templates)-1 {
			m.cursorIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys(" ", "x"))):
		m.selected[m.cursorIndex] = !m.selected[m.cursorIndex]
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		names := m.SelectedTemplates()
		if len(names) == 0 {
			return m, nil
		}
		m.comparing = true
		return m, func() tea.Msg { return tuimsg.CompareRequestedMsg{Templates: names} }
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("c"))):
		m.selected = make(map[int]bool)
		m.results = nil
	}
	return m, nil
}

// View renders the compare scene
func (m *CompareModel) View() string {
	left := tuistyles.BorderStyle.Width(46).Render(m.renderTemplates())

	var right string
	switch {
	case m.comparing:
		right = tuistyles.InfoStyle.Render("Comparing...")
	case m.results != nil:
		right = renderComparison(m.results)
	default:
		right = tuistyles.InfoStyle.Render("Select templates with space, then press Enter.")
	}

	help := tuistyles.SubtitleStyle.Render("↑/↓ move • space select • Enter compare • c clear")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right) + "\n\n" + help
}

func (m *CompareModel) renderTemplates() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("What-if templates"))
	b.WriteString("\n")

	category := ""
	for i, t := range m.templates {
		if t.Category != category {
			category = t.Category
			b.WriteString("\n" + tuistyles.SubtitleStyle.Render(category) + "\n")
		}
		check := "[ ]"
		if m.selected[i] {
			check = "[x]"
		}
		style := tuistyles.UnselectedItemStyle
		prefix := "  "
		if i == m.cursorIndex {
			style = tuistyles.SelectedItemStyle
			prefix = "▸ "
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s %s", prefix, check, t.Name)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderComparison(set *compare.ComparisonSet) string {
	var b strings.Builder
	header := fmt.Sprintf("%-18s %12s %12s %16s", "Configuration", "Monthly", "Upfront", "Total")
	b.WriteString(tuistyles.TableHeaderStyle.Render(header))
	b.WriteString("\n" + strings.Repeat("─", lipgloss.Width(header)))

	if set.BaseResult != nil {
		base := set.BaseResult
		fmt.Fprintf(&b, "\n%-18s %12s %12s %16s", truncateName(base.Name),
			tuistyles.FormatCurrency(base.MonthlyTotal),
			tuistyles.FormatCurrency(base.UpfrontTotal),
			tuistyles.FormatCurrency(base.TotalCost))
	}
	for _, alt := range set.AlternativeResults {
		fmt.Fprintf(&b, "\n%-18s %12s %12s %16s  %s", truncateName(alt.Name),
			tuistyles.FormatCurrency(alt.MonthlyTotal),
			tuistyles.FormatCurrency(alt.UpfrontTotal),
			tuistyles.FormatCurrency(alt.TotalCost),
			renderDelta(alt.TotalDiffFromBase))
	}

	if len(set.Recommendations) > 0 {
		b.WriteString("\n\n")
		for _, r := range set.Recommendations {
			b.WriteString(tuistyles.InfoStyle.Render("• "+r) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderDelta(delta decimal.Decimal) string {
	switch {
	case delta.IsNegative():
		return tuistyles.MetricPositiveStyle.Render("saves " + tuistyles.FormatCurrency(delta.Abs()))
	case delta.IsPositive():
		return tuistyles.MetricNegativeStyle.Render("+" + tuistyles.FormatCurrency(delta))
	default:
		return tuistyles.SubtitleStyle.Render("no change")
	}
}

func truncateName(name string) string {
	if len(name) > 18 {
		return name[:17] + "…"
	}
	return name
}
