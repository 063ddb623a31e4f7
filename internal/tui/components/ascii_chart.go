package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/dealopt/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// Bar is one labelled amount of a BarChart
type Bar struct {
	Label  string
	Amount decimal.Decimal
	Color  lipgloss.Color
}

// BarChart draws horizontal bars scaled to the largest amount
type BarChart struct {
	Title string
	Bars  []Bar
	Width int
}

// NewBarChart creates an empty chart
func NewBarChart(title string) *BarChart {
	return &BarChart{Title: title, Width: 40}
}

// AddBar appends a bar; empty color uses the default bar color
func (c *BarChart) AddBar(label string, amount decimal.Decimal, color lipgloss.Color) *BarChart {
	if color == "" {
		color = tuistyles.ColorBar
	}
	c.Bars = append(c.Bars, Bar{Label: label, Amount: amount, Color: color})
	return c
}

// WithWidth sets the width of the longest bar
func (c *BarChart) WithWidth(width int) *BarChart {
	c.Width = width
	return c
}

// barLength scales amount to width cells. Positive amounts get at least one cell.
func barLength(amount, max decimal.Decimal, width int) int {
	if !amount.IsPositive() || !max.IsPositive() || width <= 0 {
		return 0
	}
	n := int(amount.Div(max).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return n
}

// Render returns the styled chart
func (c *BarChart) Render() string {
	if len(c.Bars) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	max := decimal.Zero
	labelWidth := 0
	for _, b := range c.Bars {
		max = decimal.Max(max, b.Amount)
		labelWidth = maxInt(labelWidth, lipgloss.Width(b.Label))
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n\n")
	}

	for i, b := range c.Bars {
		n := barLength(b.Amount, max, c.Width)
		bar := lipgloss.NewStyle().Foreground(b.Color).Render(strings.Repeat("█", n))
		pad := strings.Repeat(" ", c.Width-n)
		fmt.Fprintf(&content, "%-*s %s%s %s", labelWidth, b.Label, bar, pad, tuistyles.FormatCurrency(b.Amount))
		if i < len(c.Bars)-1 {
			content.WriteString("\n")
		}
	}
	return content.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
