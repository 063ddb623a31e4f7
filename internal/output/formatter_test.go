package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func sampleQuote() *domain.QuoteResult {
	zero := 0
	switcher := domain.Scenario{
		Name:                   domain.ScenarioKeepAndSwitch.DisplayName(),
		Type:                   domain.ScenarioKeepAndSwitch,
		MonthlyService:         d("200"),
		MonthlyDeviceFinancing: d("0"),
		MonthlyTaxesAndFees:    d("48.35"),
		MonthlyTotal:           d("248.35"),
		UpfrontTotal:           d("278.35"),
		Reimbursements:         d("1600"),
		TotalCost:              d("4390.40"),
		FinancingTermMonths:    24,
		Plan:                   domain.PlanPrice{PlanID: "plan_x", LineCount: 3, BaseMonthly: d("230"), WithAutoPay: d("200"), AutopayDiscountTotal: d("30"), AutoPayApplied: true},
		Upfront:                domain.UpfrontBreakdown{ActivationFees: d("30"), FirstMonth: d("248.35"), Total: d("278.35")},
		PromotionsApplied: []domain.AppliedPromotion{
			{PromotionID: "switch-800", Kind: domain.PromotionSwitcher, TargetLineIndex: &zero, CreditAmount: d("800"), Description: "Keep & Switch"},
		},
		PerLineBreakdown: []domain.LineItemBreakdown{
			{Index: 0, Kind: domain.LinePhone, Label: "Line 1", MonthlyService: d("66.67"), CreditSource: domain.CreditSwitcher, Reimbursement: d("800")},
			{Index: 1, Kind: domain.LinePhone, Label: "Line 2", DeviceModel: domain.Model("phone_x"), MonthlyService: d("66.67"), MonthlyFinancing: d("41.63")},
		},
	}
	trade := domain.Scenario{
		Name:                domain.ScenarioTradeInAll.DisplayName(),
		Type:                domain.ScenarioTradeInAll,
		MonthlyTotal:        d("248.35"),
		UpfrontTotal:        d("278.35"),
		TotalCost:           d("5990.40"),
		FinancingTermMonths: 24,
		Warnings:            []domain.Warning{{Code: domain.WarnUnknownDevice, Message: "device ghost not found"}},
	}
	return &domain.QuoteResult{
		Scenarios:     []domain.Scenario{switcher, trade},
		Best:          &switcher,
		Warnings:      []domain.Warning{{Code: domain.WarnUnknownDevice, Message: "device ghost not found", Reference: "ghost"}},
		TablesVersion: "fixture-1",
		TablesHash:    strings.Repeat("ab", 32),
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range Formats {
		f, err := NewFormatter(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
	}

	f, err := NewFormatter("")
	require.NoError(t, err)
	assert.Equal(t, "table", f.Name())

	_, err = NewFormatter("xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestFormatterFunc(t *testing.T) {
	var received *domain.QuoteResult
	f := FormatterFunc{ID: "custom", F: func(q *domain.QuoteResult) ([]byte, error) {
		received = q
		return []byte("ok"), nil
	}}

	quote := sampleQuote()
	out, err := f.Format(quote)
	require.NoError(t, err)
	assert.Equal(t, "custom", f.Name())
	assert.Equal(t, []byte("ok"), out)
	assert.Same(t, quote, received)
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	f := FormatterFunc{ID: "txt", F: func(*domain.QuoteResult) ([]byte, error) { return []byte("content"), nil }}

	name, err := WriteFormatted(f, sampleQuote(), dir, "txt")
	require.NoError(t, err)
	assert.Contains(t, name, "quote_")
	assert.True(t, strings.HasSuffix(name, ".txt"))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	failing := FormatterFunc{ID: "bad", F: func(*domain.QuoteResult) ([]byte, error) { return nil, fmt.Errorf("formatter error") }}
	name, err = WriteFormatted(failing, sampleQuote(), dir, "txt")
	assert.ErrorContains(t, err, "formatter error")
	assert.Empty(t, name)
}

func TestTableFormatter(t *testing.T) {
	out, err := TableFormatter{}.Format(sampleQuote())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "WIRELESS DEAL QUOTE")
	assert.Contains(t, text, "Tables: fixture-1 (abababababab)")
	assert.Contains(t, text, "Best:   Keep & Switch at $4390.40 over 24 months")
	assert.Contains(t, text, "SCENARIO 1: Keep & Switch")
	assert.NotContains(t, text, "SCENARIO 2:")
	assert.Contains(t, text, "with AutoPay (-$30.00)")
	assert.Contains(t, text, "phone_x")
	assert.Contains(t, text, "switch-800")
	assert.Contains(t, text, "line 1")
	assert.Contains(t, text, "[unknown_device] device ghost not found")

	detail, err := TableFormatter{Detail: true}.Format(sampleQuote())
	require.NoError(t, err)
	assert.Contains(t, string(detail), "SCENARIO 2: Trade In Every Device")

	_, err = TableFormatter{}.Format(nil)
	assert.Error(t, err)
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(sampleQuote())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"1", "Keep & Switch", "keep-and-switch"}, records[1][:3])
	assert.Equal(t, "4390.40", records[1][11])
	assert.Equal(t, "1", records[2][12])
}

func TestCSVLineFormatter(t *testing.T) {
	out, err := CSVLineFormatter{}.Format(sampleQuote())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "keep-and-switch", records[1][0])
	assert.Equal(t, "", records[1][4])
	assert.Equal(t, "phone_x", records[2][4])
	assert.Equal(t, "41.63", records[2][9])
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(sampleQuote())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "fixture-1", decoded["tablesVersion"])
	assert.Len(t, decoded["scenarios"], 2)
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{Assumptions: PolicyAssumptions(domain.OptimisticDefaults())}.Format(sampleQuote())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<title>Wireless Deal Quote</title>")
	assert.Contains(t, html, "Keep &amp; Switch")
	assert.Contains(t, html, `<tr class="best">`)
	assert.Contains(t, html, "$4390.40")
	assert.Contains(t, html, "phone_x")
	assert.Contains(t, html, "device ghost not found")
	assert.Contains(t, html, "switcher-eligible")
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$12.50", FormatCurrency(d("12.5")))
	assert.Equal(t, "-$3.00", FormatCurrency(d("-3")))
}

func TestPolicyAssumptions(t *testing.T) {
	optimistic := PolicyAssumptions(domain.OptimisticDefaults())
	assert.Contains(t, optimistic, "AutoPay is assumed unless the customer declines it")

	conservative := PolicyAssumptions(domain.ConservativeDefaults())
	assert.Contains(t, conservative, "Switcher credits require a recorded eligible carrier")
	assert.Contains(t, conservative[0], `"standard"`)
}
