package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot_DefaultTables(t *testing.T) {
	snap, err := NewSnapshot(DefaultTables())
	require.NoError(t, err)

	assert.Equal(t, "2026.10-demo", snap.Version())
	assert.Len(t, snap.Hash(), 64)

	plan, err := snap.Plan("unlimited_plus")
	require.NoError(t, err)
	assert.Equal(t, "Unlimited Plus", plan.Name)

	summary := snap.Summary()
	assert.Equal(t, 3, summary.Plans)
	assert.Equal(t, 6, summary.Promotions)
	assert.Equal(t, []domain.PlanID{"business_unlimited", "essentials", "unlimited_plus"}, snap.PlanIDs())
}

func TestNewSnapshot_HashIsContentAddressed(t *testing.T) {
	a, err := NewSnapshot(DefaultTables())
	require.NoError(t, err)
	b, err := NewSnapshot(DefaultTables())
	require.NoError(t, err)
	assert.Equal(t, a.Hash(), b.Hash())

	// order of table entries does not matter
	tables := DefaultTables()
	tables.Plans[0], tables.Plans[2] = tables.Plans[2], tables.Plans[0]
	c, err := NewSnapshot(tables)
	require.NoError(t, err)
	assert.Equal(t, a.Hash(), c.Hash())

	tables.Plans[0].AutopayDiscountPerLine = decimal.NewFromInt(7)
	e, err := NewSnapshot(tables)
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash(), e.Hash())
}

func TestNewSnapshot_IsolatedFromCaller(t *testing.T) {
	tables := DefaultTables()
	snap, err := NewSnapshot(tables)
	require.NoError(t, err)

	tables.Plans[0].TotalPriceByLineCount[1] = decimal.NewFromInt(1)
	tables.TradeInValues["iphone_15"] = decimal.NewFromInt(1)
	*tables.Promotions[0].MaxPerLine = decimal.NewFromInt(1)

	plan, err := snap.Plan("unlimited_plus")
	require.NoError(t, err)
	assert.True(t, plan.TotalPriceByLineCount[1].Equal(decimal.NewFromInt(90)))

	value, err := snap.TradeInValue("iphone_15")
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(650)))

	switcher := snap.PromotionsOfKind(domain.PromotionSwitcher)
	require.Len(t, switcher, 1)
	assert.True(t, switcher[0].MaxPerLine.Equal(decimal.NewFromInt(800)))
}

func TestSnapshot_LookupsReturnCopies(t *testing.T) {
	snap := DefaultSnapshot()

	plan, err := snap.Plan("unlimited_plus")
	require.NoError(t, err)
	plan.TotalPriceByLineCount[1] = decimal.NewFromInt(1)
	for _, table := range plan.QualificationPricing {
		table[1] = decimal.NewFromInt(1)
	}
	require.NotEmpty(t, plan.Features)
	plan.Features[0] = "rewritten"

	again, err := snap.Plan("unlimited_plus")
	require.NoError(t, err)
	assert.True(t, again.TotalPriceByLineCount[1].Equal(decimal.NewFromInt(90)))
	for category, table := range again.QualificationPricing {
		assert.False(t, table[1].Equal(decimal.NewFromInt(1)), "%s pricing was shared", category)
	}
	assert.NotContains(t, again.Features, "rewritten")

	device, err := snap.Device("iphone_16")
	require.NoError(t, err)
	for variant := range device.StorageVariants {
		device.StorageVariants[variant] = decimal.Zero
	}
	fresh, err := snap.Device("iphone_16")
	require.NoError(t, err)
	for variant, price := range fresh.StorageVariants {
		assert.True(t, price.IsPositive(), "variant %s was shared", variant)
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	snap := DefaultSnapshot()

	_, err := snap.Plan("nope")
	var refErr *domain.UnknownReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, domain.RefPlan, refErr.Kind)

	_, err = snap.Device("nokia_3310")
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, domain.RefDevice, refErr.Kind)

	_, err = snap.Jurisdiction("mars")
	assert.Error(t, err)

	assert.True(t, snap.HasTradeInValue("iphone_12"))
	assert.False(t, snap.HasTradeInValue("iphone_3g"))

	tier, err := snap.InsuranceTierFor(domain.Model("iphone_16_pro"))
	require.NoError(t, err)
	assert.Equal(t, domain.TierID("tier_3"), tier.ID)

	tier, err = snap.InsuranceTierFor(domain.Model("unmapped"))
	require.NoError(t, err)
	assert.Equal(t, domain.TierID("tier_1"), tier.ID)

	tier, err = snap.InsuranceTierFor(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TierID("tier_1"), tier.ID)

	assert.True(t, snap.AccessoryRates().SecondTabletDiscount.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, snap.Rules().SelectiveTradeThreshold.Equal(decimal.NewFromInt(400)))
}

func TestSnapshot_MissingDefaultTier(t *testing.T) {
	tables := DefaultTables()
	tables.DefaultTier = ""
	snap, err := NewSnapshot(tables)
	require.NoError(t, err)

	_, err = snap.InsuranceTierFor(nil)
	var refErr *domain.UnknownReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, domain.RefInsurance, refErr.Kind)
}

func TestSnapshot_MarshalJSON(t *testing.T) {
	snap := DefaultSnapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2026.10-demo", decoded["version"])
	assert.Contains(t, decoded, "accessoryRates")
}

func TestNewSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *Tables)
		table  string
	}{
		{"nil plan table", func(t *Tables) { t.Plans[0].TotalPriceByLineCount = nil }, "plans"},
		{"zero line tier", func(t *Tables) { t.Plans[0].TotalPriceByLineCount[0] = decimal.NewFromInt(5) }, "plans"},
		{"duplicate plan", func(t *Tables) { t.Plans[1].ID = t.Plans[0].ID }, "plans"},
		{"tax rate above one", func(t *Tables) { t.Jurisdictions[0].ServiceTaxRate = decimal.NewFromInt(2) }, "jurisdictions"},
		{"negative fee", func(t *Tables) { t.Jurisdictions[0].SurchargePerLine = decimal.NewFromInt(-1) }, "jurisdictions"},
		{"unknown device kind", func(t *Tables) { t.Devices[0].Kind = "pager" }, "devices"},
		{"negative trade value", func(t *Tables) { t.TradeInValues["iphone_12"] = decimal.NewFromInt(-1) }, "trade_in_values"},
		{"invalid promotion", func(t *Tables) { t.Promotions[0].MaxPerLine = nil }, "promotions"},
		{"unknown mapped tier", func(t *Tables) { t.InsuranceTierMap["pixel_9"] = "tier_9" }, "insurance_tier_map"},
		{"undefined default tier", func(t *Tables) { t.DefaultTier = "gold" }, "insurance_tiers"},
		{"discount above one", func(t *Tables) {
			rates := domain.DefaultAccessoryRates()
			rates.SecondTabletDiscount = decimal.NewFromFloat(1.5)
			t.AccessoryRates = &rates
		}, "accessory_rates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			tt.mutate(tables)

			_, err := NewSnapshot(tables)
			var tableErr *TableError
			require.True(t, errors.As(err, &tableErr), "expected TableError, got %v", err)
			assert.Equal(t, tt.table, tableErr.Table)
		})
	}

	_, err := NewSnapshot(nil)
	assert.Error(t, err)
}

func TestDecodeYAML(t *testing.T) {
	doc := `
version: test-1
plans:
  - id: plan_x
    name: Plan X
    total_price_by_line_count: {1: 105, 2: 180, 3: 230}
    autopay_discount_per_line: 10
jurisdictions:
  - id: x_county
    service_tax_rate: 0.1444
    device_tax_rate: 0.07
    regulatory_fee_per_line: 3.99
    surcharge_per_line: 2.50
    activation_fee_per_line: 10
trade_in_values:
  iphone_12: 200
promotions:
  - id: switch
    kind: switcher_credit
    value_amount: 800
    max_lines: 4
    max_per_line: 800
    terms:
      eligible_carriers: [Verizon]
insurance_tiers:
  - id: basic
    monthly_premium: 7
default_tier: basic
`
	tables, err := DecodeYAML([]byte(doc))
	require.NoError(t, err)

	snap, err := NewSnapshot(tables)
	require.NoError(t, err)

	plan, err := snap.Plan("plan_x")
	require.NoError(t, err)
	assert.True(t, plan.TotalPriceByLineCount[3].Equal(decimal.NewFromInt(230)))

	j, err := snap.Jurisdiction("x_county")
	require.NoError(t, err)
	assert.Equal(t, "0.1444", j.ServiceTaxRate.String())

	promos := snap.PromotionsOfKind(domain.PromotionSwitcher)
	require.Len(t, promos, 1)
	assert.Equal(t, []string{"Verizon"}, promos[0].Terms.(domain.SwitcherTerms).EligibleCarriers)

	// defaults fill the optional sections
	assert.True(t, snap.AccessoryRates().HomeInternetFee.Equal(decimal.NewFromInt(60)))

	_, err = DecodeYAML([]byte("plans: [unterminated"))
	var tableErr *TableError
	assert.True(t, errors.As(err, &tableErr))
}
