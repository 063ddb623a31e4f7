package compare

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// fakeQuoter prices a configuration with a simple fixed rule so comparisons are
// predictable: $50 per line per month, $10 off per line with autopay, $30 per
// insured line, $600 upfront per new device, over the financing term.
type fakeQuoter struct {
	calls int
	fail  map[int]bool
}

func (q *fakeQuoter) Optimize(cfg *domain.CustomerConfiguration) (*domain.QuoteResult, error) {
	q.calls++
	if q.fail[q.calls] {
		return nil, fmt.Errorf("quote %d failed", q.calls)
	}

	lines := decimal.NewFromInt(int64(cfg.Lines))
	perLine := decimal.NewFromInt(50)
	if cfg.AutoPay != nil && *cfg.AutoPay {
		perLine = decimal.NewFromInt(40)
	}
	monthly := perLine.Mul(lines)
	upfront := decimal.Zero
	for _, d := range cfg.Devices {
		if d.InsuranceElected {
			monthly = monthly.Add(decimal.NewFromInt(30))
		}
		if d.HasNewDevice() {
			upfront = upfront.Add(decimal.NewFromInt(600))
		}
	}
	term := cfg.FinancingTermMonths
	total := upfront.Add(monthly.Mul(decimal.NewFromInt(int64(term))))

	best := domain.Scenario{
		Name:                domain.ScenarioTradeInAll.DisplayName(),
		Type:                domain.ScenarioTradeInAll,
		MonthlyTotal:        monthly,
		UpfrontTotal:        upfront,
		TotalCost:           total,
		FinancingTermMonths: term,
	}
	var warnings []domain.Warning
	if cfg.Carrier == nil {
		warnings = append(warnings, domain.Warning{Code: domain.WarnAssumedCarrier, Message: "carrier unknown"})
	}
	return &domain.QuoteResult{
		Scenarios:     []domain.Scenario{best},
		Best:          &best,
		Warnings:      warnings,
		TablesVersion: "fake-1",
	}, nil
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func twoLineConfig() *domain.CustomerConfiguration {
	return &domain.CustomerConfiguration{
		Lines:        2,
		Carrier:      domain.String("Verizon"),
		SelectedPlan: "unlimited_plus",
		Devices: []domain.DeviceLine{
			{NewDeviceModel: domain.Model("iphone_16"), InsuranceElected: true},
			{},
		},
		FinancingTermMonths: 24,
		TaxJurisdiction:     "standard",
		AutoPay:             domain.Bool(false),
	}
}
