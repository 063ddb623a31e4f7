package calculation

import (
	"testing"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intRef(v int) *int { return &v }

func decRef(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

// planXTables is the three-line worked example: Plan X in X County with no
// devices, accessories or insurance involved
func planXTables() *catalog.Tables {
	return &catalog.Tables{
		Version: "fixture-1",
		Plans: []domain.Plan{{
			ID:                     "plan_x",
			Name:                   "Plan X",
			TotalPriceByLineCount:  map[int]decimal.Decimal{1: dec("105"), 2: dec("180"), 3: dec("230")},
			AutopayDiscountPerLine: dec("10"),
		}},
		Jurisdictions: []domain.TaxJurisdiction{{
			ID:                   "x_county",
			Name:                 "X County",
			ServiceTaxRate:       dec("0.1444"),
			DeviceTaxRate:        dec("0.07"),
			RegulatoryFeePerLine: dec("3.99"),
			SurchargePerLine:     dec("2.50"),
			ActivationFeePerLine: dec("10"),
			DeviceConnectionFee:  dec("15"),
		}},
		Devices: []domain.DeviceModel{
			{ID: "phone_x", Name: "Phone X", Kind: domain.DevicePhone, RetailPrice: dec("999")},
			{ID: "phone_y", Name: "Phone Y", Kind: domain.DevicePhone, RetailPrice: dec("599")},
			{ID: "watch_x", Name: "Watch X", Kind: domain.DeviceWatch, RetailPrice: dec("240")},
		},
		TradeInValues: map[domain.ModelID]decimal.Decimal{
			"old_x": dec("800"),
			"old_y": dec("150"),
		},
		InsuranceTiers: []domain.InsuranceTier{
			{ID: "basic", MonthlyPremium: dec("9")},
			{ID: "premium", MonthlyPremium: dec("17")},
		},
		InsuranceTierMap: map[domain.ModelID]domain.TierID{"phone_x": "premium"},
		DefaultTier:      "basic",
	}
}

func switcherPromotion() domain.Promotion {
	return domain.Promotion{
		ID:          "switch-800",
		Description: "Keep your phone, we pay it off",
		ValueAmount: dec("800"),
		MaxLines:    intRef(4),
		MaxPerLine:  decRef("800"),
		Eligibility: domain.Eligibility{CustomerStatus: domain.StatusNew},
		Terms:       domain.SwitcherTerms{EligibleCarriers: []string{"Verizon", "AT&T"}},
	}
}

func seal(t *testing.T, tables *catalog.Tables) *catalog.Snapshot {
	t.Helper()
	snap, err := catalog.NewSnapshot(tables)
	require.NoError(t, err)
	return snap
}

func bareLines(n int) []domain.DeviceLine {
	return make([]domain.DeviceLine, n)
}

func planXConfig(lines int) *domain.CustomerConfiguration {
	return &domain.CustomerConfiguration{
		Lines:               lines,
		IsExistingCustomer:  true,
		SelectedPlan:        "plan_x",
		Devices:             bareLines(lines),
		FinancingTermMonths: 24,
		TaxJurisdiction:     "x_county",
		AutoPay:             domain.Bool(true),
	}
}

// assertNonNegative walks every money figure a scenario carries
func assertNonNegative(t *testing.T, s domain.Scenario) {
	t.Helper()
	figures := map[string]decimal.Decimal{
		"monthlyService":         s.MonthlyService,
		"monthlyDeviceFinancing": s.MonthlyDeviceFinancing,
		"monthlyAccessory":       s.MonthlyAccessory,
		"monthlyInsurance":       s.MonthlyInsurance,
		"monthlyTaxesAndFees":    s.MonthlyTaxesAndFees,
		"monthlyTotal":           s.MonthlyTotal,
		"upfrontTotal":           s.UpfrontTotal,
		"totalCost":              s.TotalCost,
		"reimbursements":         s.Reimbursements,
		"serviceTaxes":           s.Taxes.ServiceTaxes,
		"autopayDiscount":        s.Plan.AutopayDiscountTotal,
	}
	for _, row := range s.PerLineBreakdown {
		figures[row.Label+" service"] = row.MonthlyService
		figures[row.Label+" line fee"] = row.MonthlyLineFee
		figures[row.Label+" financed"] = row.FinancedAmount
		figures[row.Label+" financing"] = row.MonthlyFinancing
		figures[row.Label+" tax"] = row.UpfrontDeviceTax
		figures[row.Label+" insurance"] = row.MonthlyInsurance
	}
	for _, p := range s.PromotionsApplied {
		figures[string(p.PromotionID)] = p.CreditAmount
	}
	for name, v := range figures {
		if v.IsNegative() {
			t.Errorf("%s %s is negative: %s", s.Type, name, v.StringFixed(2))
		}
	}
}
