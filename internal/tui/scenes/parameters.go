package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/transform"
	"github.com/rgehrsitz/dealopt/internal/tui/tuimsg"
	"github.com/rgehrsitz/dealopt/internal/tui/tuistyles"
)

// account rows precede the device line rows
const (
	rowAutoPay = iota
	rowTerm
	rowHomeInternet
	accountRows
)

// ParametersModel edits the working configuration. Every change is sent to the
// root model as a transform; the scene never modifies the configuration itself.
type ParametersModel struct {
	config        *domain.CustomerConfiguration
	assumeAutoPay bool
	focused       int
	width         int
	height        int
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel() *ParametersModel {
	return &ParametersModel{}
}

// SetConfig shows cfg. assumeAutoPay is the policy default used when the
// configuration does not say.
func (m *ParametersModel) SetConfig(cfg *domain.CustomerConfiguration, assumeAutoPay bool) {
	m.config = cfg
	m.assumeAutoPay = assumeAutoPay
	if m.focused >= m.rows() {
		m.focused = m.rows() - 1
	}
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ParametersModel) rows() int {
	if m.config == nil {
		return 0
	}
	return accountRows + len(m.config.Devices)
}

func (m *ParametersModel) autoPay() bool {
	if m.config.AutoPay != nil {
		return *m.config.AutoPay
	}
	return m.assumeAutoPay
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.config == nil {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.focused > 0 {
			m.focused--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.focused < m.rows()-1 {
			m.focused++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys(" ", "enter"))):
		return m, edit(m.toggle())
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("+"))):
		return m, edit(&transform.AddLine{})
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("-"))):
		if len(m.config.Devices) > 1 {
			return m, edit(&transform.SetLineCount{Lines: len(m.config.Devices) - 1})
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("x"))):
		if line := m.focused - accountRows + 1; line >= 1 {
			return m, edit(&transform.SetTradeIn{Line: line, Model: domain.NoTrade})
		}
	}
	return m, nil
}

// toggle returns the transform flipping the focused row
func (m *ParametersModel) toggle() transform.ConfigTransform {
	switch m.focused {
	case rowAutoPay:
		return &transform.SetAutoPay{Enabled: !m.autoPay()}
	case rowTerm:
		months := 36
		if m.config.FinancingTermMonths == 36 {
			months = 24
		}
		return &transform.SetFinancingTerm{Months: months}
	case rowHomeInternet:
		return &transform.SetHomeInternet{Enabled: !m.config.AccessoryLines.HomeInternet}
	default:
		index := m.focused - accountRows
		if index < 0 || index >= len(m.config.Devices) {
			return nil
		}
		return &transform.SetInsurance{Line: index + 1, Elected: !m.config.Devices[index].InsuranceElected}
	}
}

func edit(t transform.ConfigTransform) tea.Cmd {
	if t == nil {
		return nil
	}
	return func() tea.Msg { return tuimsg.EditRequestedMsg{Transform: t} }
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	if m.config == nil {
		return tuistyles.InfoStyle.Render("No configuration loaded.")
	}

	rows := []string{
		m.row(rowAutoPay, "AutoPay", onOff(m.autoPay())),
		m.row(rowTerm, "Financing term", fmt.Sprintf("%d months", m.config.FinancingTermMonths)),
		m.row(rowHomeInternet, "Home internet", onOff(m.config.AccessoryLines.HomeInternet)),
		"",
	}
	for i, line := range m.config.Devices {
		rows = append(rows, m.row(accountRows+i, fmt.Sprintf("Line %d", i+1), describeLine(line)))
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Configuration")
	subtitle := tuistyles.SubtitleStyle.Render(fmt.Sprintf("%s, %d lines, %d accessory connection(s)",
		m.config.SelectedPlan, m.config.Lines, m.config.AccessoryLines.Count()))

	body := tuistyles.BorderStyle.Render(title + "\n" + subtitle + "\n\n" + strings.Join(rows, "\n"))
	help := tuistyles.SubtitleStyle.Render("↑/↓ move • space toggle (protection on lines) • x no trade-in • + add line • - remove last line")
	return body + "\n\n" + help
}

func (m *ParametersModel) row(index int, label, value string) string {
	prefix := "  "
	style := tuistyles.UnselectedItemStyle
	if index == m.focused {
		prefix = "▸ "
		style = tuistyles.SelectedItemStyle
	}
	return style.Render(fmt.Sprintf("%s%-16s %s", prefix, label, value))
}

func describeLine(line domain.DeviceLine) string {
	parts := []string{"own phone"}
	if line.HasNewDevice() {
		device := string(*line.NewDeviceModel)
		if line.StorageVariant != nil {
			device += " " + *line.StorageVariant
		}
		parts[0] = "new " + device
	}
	if model, ok := line.TradeModel(); ok {
		parts = append(parts, "trade "+string(model))
	}
	if line.PayoffBalance != nil && line.PayoffBalance.IsPositive() {
		parts = append(parts, "payoff "+tuistyles.FormatCurrency(*line.PayoffBalance))
	}
	if line.InsuranceElected {
		parts = append(parts, "protected")
	}
	return strings.Join(parts, ", ")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
