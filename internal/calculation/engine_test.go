package calculation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger records messages for assertions
type TestLogger struct {
	Messages []string
}

func (l *TestLogger) Debugf(format string, args ...interface{}) { l.Messages = append(l.Messages, format) }
func (l *TestLogger) Infof(format string, args ...interface{})  { l.Messages = append(l.Messages, format) }
func (l *TestLogger) Warnf(format string, args ...interface{})  { l.Messages = append(l.Messages, format) }
func (l *TestLogger) Errorf(format string, args ...interface{}) { l.Messages = append(l.Messages, format) }

func optimizerFor(t *testing.T, tables *catalog.Tables, policy domain.DefaultsPolicy) *DealOptimizer {
	t.Helper()
	return NewDealOptimizer(catalog.NewStore(seal(t, tables)), policy)
}

func TestDealOptimizer_SetLogger(t *testing.T) {
	engine := NewDealOptimizer(StaticSource{}, domain.OptimisticDefaults())
	assert.IsType(t, NopLogger{}, engine.Logger)

	custom := &TestLogger{}
	engine.SetLogger(custom)
	assert.Equal(t, custom, engine.Logger)

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestOptimize_EndToEndThreeLines(t *testing.T) {
	engine := optimizerFor(t, planXTables(), domain.OptimisticDefaults())
	logger := &TestLogger{}
	engine.SetLogger(logger)

	result, err := engine.Optimize(planXConfig(3))
	require.NoError(t, err)
	require.Len(t, result.Scenarios, 1, "only bundle-max applies without trade-ins or switcher offers")

	s := result.Scenarios[0]
	assert.Equal(t, domain.ScenarioBundleMax, s.Type)
	assert.True(t, s.Plan.BaseMonthly.Equal(dec("230")))
	assert.True(t, s.MonthlyService.Equal(dec("200")), "230 less 3 x 10 autopay")
	assert.True(t, s.Taxes.ServiceTaxes.Equal(dec("28.88")))
	assert.True(t, s.Taxes.RegulatoryFees.Equal(dec("11.97")))
	assert.True(t, s.Taxes.Surcharges.Equal(dec("7.50")))
	assert.True(t, s.MonthlyTotal.Equal(dec("248.35")), "got %s", s.MonthlyTotal)
	assert.True(t, s.Upfront.DeviceTaxes.IsZero())
	assert.True(t, s.Upfront.ActivationFees.Equal(dec("30")))
	assert.True(t, s.UpfrontTotal.Equal(dec("278.35")), "got %s", s.UpfrontTotal)
	assert.True(t, s.TotalCost.Equal(dec("5990.40")), "got %s", s.TotalCost)

	require.Len(t, s.PerLineBreakdown, 3)
	rowSum := decimal.Zero
	for _, row := range s.PerLineBreakdown {
		rowSum = rowSum.Add(row.MonthlyService)
	}
	assert.True(t, rowSum.Equal(s.MonthlyService), "rows add up to the scenario")

	assert.Equal(t, "fixture-1", result.TablesVersion)
	assert.Len(t, result.TablesHash, 64)
	require.NotNil(t, result.Best)
	assert.Equal(t, s.Type, result.Best.Type)
	assert.NotEmpty(t, logger.Messages)
}

func TestOptimize_KeepAndSwitchReimbursement(t *testing.T) {
	tables := planXTables()
	tables.Promotions = []domain.Promotion{switcherPromotion()}
	engine := optimizerFor(t, tables, domain.ConservativeDefaults())

	cfg := planXConfig(2)
	cfg.IsExistingCustomer = false
	cfg.Carrier = domain.String("Verizon")

	result, err := engine.Optimize(cfg)
	require.NoError(t, err)

	s, ok := result.Scenario(domain.ScenarioKeepAndSwitch)
	require.True(t, ok)
	assert.True(t, s.Reimbursements.Equal(dec("1600")))

	term := decimal.NewFromInt(int64(s.FinancingTermMonths - 1))
	want := s.UpfrontTotal.Add(s.MonthlyTotal.Mul(term)).Sub(dec("1600"))
	assert.True(t, s.TotalCost.Equal(want), "got %s want %s", s.TotalCost, want)

	require.Len(t, s.PromotionsApplied, 2)
	for i, p := range s.PromotionsApplied {
		assert.Equal(t, domain.PromotionSwitcher, p.Kind)
		assert.Equal(t, i, *p.TargetLineIndex)
	}
	for _, row := range s.PerLineBreakdown {
		assert.Equal(t, domain.CreditSwitcher, row.CreditSource)
		assert.True(t, row.TradeInCredit.IsZero())
	}
}

func TestOptimize_CarrierPolicy(t *testing.T) {
	tables := planXTables()
	tables.Promotions = []domain.Promotion{switcherPromotion()}
	cfg := planXConfig(2)
	cfg.IsExistingCustomer = false

	optimistic, err := optimizerFor(t, tables, domain.OptimisticDefaults()).Optimize(cfg)
	require.NoError(t, err)
	_, ok := optimistic.Scenario(domain.ScenarioKeepAndSwitch)
	assert.True(t, ok)
	codes := make([]domain.WarningCode, 0, len(optimistic.Warnings))
	for _, w := range optimistic.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, domain.WarnAssumedCarrier)

	conservative, err := optimizerFor(t, tables, domain.ConservativeDefaults()).Optimize(cfg)
	require.NoError(t, err)
	_, ok = conservative.Scenario(domain.ScenarioKeepAndSwitch)
	assert.False(t, ok)
	assert.Empty(t, conservative.Warnings)
}

func TestOptimize_TradeInTaxOnFullPrice(t *testing.T) {
	engine := optimizerFor(t, planXTables(), domain.OptimisticDefaults())
	cfg := planXConfig(1)
	cfg.Devices[0] = domain.DeviceLine{NewDeviceModel: domain.Model("phone_x"), TradeInDeviceModel: domain.Model("old_x")}

	result, err := engine.Optimize(cfg)
	require.NoError(t, err)

	s, ok := result.Scenario(domain.ScenarioTradeInAll)
	require.True(t, ok)
	row := s.PerLineBreakdown[0]
	assert.True(t, row.TradeInCredit.Equal(dec("800")))
	assert.True(t, row.UpfrontDeviceTax.Equal(dec("69.93")))
	assert.True(t, s.Upfront.DeviceTaxes.Equal(dec("69.93")))
	assert.True(t, s.MonthlyDeviceFinancing.Equal(dec("8.29")))
}

func TestOptimize_SelectiveTrade(t *testing.T) {
	engine := NewDealOptimizer(catalog.NewStore(catalog.DefaultSnapshot()), domain.OptimisticDefaults())
	cfg := &domain.CustomerConfiguration{
		Lines:        2,
		Carrier:      domain.String("Verizon"),
		SelectedPlan: "unlimited_plus",
		Devices: []domain.DeviceLine{
			{NewDeviceModel: domain.Model("iphone_16_pro"), TradeInDeviceModel: domain.Model("iphone_15_pro"), InsuranceElected: true},
			{NewDeviceModel: domain.Model("pixel_9"), TradeInDeviceModel: domain.Model("pixel_7")},
		},
		FinancingTermMonths: 24,
		TaxJurisdiction:     "tx_austin",
	}

	result, err := engine.Optimize(cfg)
	require.NoError(t, err)

	types := make([]domain.ScenarioType, 0, len(result.Scenarios))
	for _, s := range result.Scenarios {
		types = append(types, s.Type)
		assertNonNegative(t, s)
	}
	assert.ElementsMatch(t, []domain.ScenarioType{
		domain.ScenarioTradeInAll, domain.ScenarioKeepAndSwitch, domain.ScenarioSelectiveTrade, domain.ScenarioBundleMax,
	}, types)

	selective, ok := result.Scenario(domain.ScenarioSelectiveTrade)
	require.True(t, ok)
	assert.Equal(t, domain.CreditTradeIn, selective.PerLineBreakdown[0].CreditSource)
	assert.Equal(t, domain.CreditSwitcher, selective.PerLineBreakdown[1].CreditSource)
	assert.True(t, selective.Reimbursements.Equal(dec("800")))

	bundle, ok := result.Scenario(domain.ScenarioBundleMax)
	require.True(t, ok)
	assert.Equal(t, domain.CreditTradeIn, bundle.PerLineBreakdown[0].CreditSource)
	assert.Equal(t, domain.CreditSwitcher, bundle.PerLineBreakdown[1].CreditSource)

	// best is the cheapest and the list is ordered
	for i := 1; i < len(result.Scenarios); i++ {
		assert.True(t, result.Scenarios[i-1].TotalCost.LessThanOrEqual(result.Scenarios[i].TotalCost))
	}
	assert.Equal(t, result.Scenarios[0].Type, result.Best.Type)
}

func TestOptimize_TradeWithoutNewDeviceStaysOnSwitcher(t *testing.T) {
	tables := planXTables()
	tables.Promotions = []domain.Promotion{switcherPromotion()}
	engine := optimizerFor(t, tables, domain.OptimisticDefaults())

	cfg := planXConfig(3)
	cfg.IsExistingCustomer = false
	cfg.Carrier = domain.String("Verizon")
	cfg.Devices[0] = domain.DeviceLine{NewDeviceModel: domain.Model("phone_x"), TradeInDeviceModel: domain.Model("old_x")}
	// a valuable trade with nothing to apply it to
	cfg.Devices[1] = domain.DeviceLine{TradeInDeviceModel: domain.Model("old_x")}

	result, err := engine.Optimize(cfg)
	require.NoError(t, err)

	selective, ok := result.Scenario(domain.ScenarioSelectiveTrade)
	require.True(t, ok)
	sources := []domain.CreditSource{}
	for _, row := range selective.PerLineBreakdown[:3] {
		sources = append(sources, row.CreditSource)
	}
	assert.Equal(t, []domain.CreditSource{domain.CreditTradeIn, domain.CreditSwitcher, domain.CreditSwitcher}, sources)
	assert.True(t, selective.PerLineBreakdown[0].TradeInCredit.Equal(dec("800")))
	assert.True(t, selective.PerLineBreakdown[1].Reimbursement.Equal(dec("800")))
	assert.True(t, selective.Reimbursements.Equal(dec("1600")))

	tradeAll, ok := result.Scenario(domain.ScenarioTradeInAll)
	require.True(t, ok)
	assert.Equal(t, domain.CreditTradeIn, tradeAll.PerLineBreakdown[0].CreditSource)
	assert.Equal(t, domain.CreditNone, tradeAll.PerLineBreakdown[1].CreditSource)
}

func TestOptimize_FullAccountHasNoNegativeFigures(t *testing.T) {
	engine := NewDealOptimizer(catalog.NewStore(catalog.DefaultSnapshot()), domain.OptimisticDefaults())
	cfg := &domain.CustomerConfiguration{
		Lines:                 4,
		SelectedPlan:          "unlimited_plus",
		QualificationCategory: domain.QualificationMilitary,
		Devices: []domain.DeviceLine{
			{NewDeviceModel: domain.Model("iphone_16"), StorageVariant: domain.String("256gb"), TradeInDeviceModel: domain.Model("iphone_15_pro"), InsuranceElected: true},
			{NewDeviceModel: domain.Model("galaxy_s24"), TradeInDeviceModel: domain.Model("galaxy_s22")},
			{TradeInDeviceModel: domain.Model("no_trade"), InsuranceElected: true},
			{NewDeviceModel: domain.Model("mystery_phone"), PayoffBalance: decRef("120")},
		},
		AccessoryLines: domain.AccessoryLines{
			Watches:      []domain.WatchLine{{Device: domain.DeviceNew, Model: domain.Model("watch_s10")}, {Device: domain.DeviceBYOD}},
			Tablets:      []domain.TabletLine{{Device: domain.DeviceNew, Model: domain.Model("ipad_air"), DataType: domain.DataUnlimited}, {Device: domain.DeviceBYOD, DataType: domain.DataUnlimited}},
			HomeInternet: true,
		},
		FinancingTermMonths: 36,
		TaxJurisdiction:     "ca_los_angeles",
	}

	result, err := engine.Optimize(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, result.Scenarios)
	for _, s := range result.Scenarios {
		assertNonNegative(t, s)
		assert.Len(t, s.PerLineBreakdown, 4+5)
		assert.True(t, s.Upfront.ConnectionFees.Equal(dec("50")), "two watches, two tablets and home internet")
	}

	codes := map[domain.WarningCode]bool{}
	for _, w := range result.Warnings {
		codes[w.Code] = true
	}
	assert.True(t, codes[domain.WarnUnknownDevice])
	assert.True(t, codes[domain.WarnAssumedCarrier])
}

func TestOptimize_RebuildIsByteIdentical(t *testing.T) {
	engine := NewDealOptimizer(catalog.NewStore(catalog.DefaultSnapshot()), domain.OptimisticDefaults())
	cfg := &domain.CustomerConfiguration{
		Lines:        3,
		Carrier:      domain.String("AT&T"),
		SelectedPlan: "business_unlimited",
		Devices: []domain.DeviceLine{
			{NewDeviceModel: domain.Model("iphone_16_pro"), TradeInDeviceModel: domain.Model("iphone_14")},
			{NewDeviceModel: domain.Model("pixel_9")},
			{},
		},
		AccessoryLines:      domain.AccessoryLines{HomeInternet: true},
		FinancingTermMonths: 24,
		TaxJurisdiction:     "standard",
	}
	before := cfg.DeepCopy()

	first, err := engine.Optimize(cfg)
	require.NoError(t, err)
	second, err := engine.Optimize(cfg)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, before, cfg, "input is not modified")
}

func TestOptimize_UnknownPlanFallsBackToServiceOnly(t *testing.T) {
	engine := optimizerFor(t, planXTables(), domain.OptimisticDefaults())
	cfg := planXConfig(3)
	cfg.SelectedPlan = "ghost"

	result, err := engine.Optimize(cfg)
	require.NoError(t, err)
	require.Len(t, result.Scenarios, 1)

	s := result.Scenarios[0]
	assert.Equal(t, domain.ScenarioServiceOnly, s.Type)
	assert.True(t, s.MonthlyService.IsZero())
	assert.True(t, s.MonthlyTotal.Equal(dec("19.47")), "fees still apply, got %s", s.MonthlyTotal)
	assert.True(t, s.UpfrontTotal.Equal(dec("49.47")))

	codes := make([]domain.WarningCode, 0, len(s.Warnings))
	for _, w := range s.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, domain.WarnScenarioOmitted)
	assert.Contains(t, codes, domain.WarnUnknownPlan)
	assert.Contains(t, codes, domain.WarnServiceOnlyFallback)
	assert.Equal(t, s.Warnings, result.Warnings)
}

func TestOptimize_Errors(t *testing.T) {
	engine := optimizerFor(t, planXTables(), domain.OptimisticDefaults())

	cfg := planXConfig(2)
	cfg.Devices = bareLines(1)
	_, err := engine.Optimize(cfg)
	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "devices", validationErr.Field)

	_, err = engine.Optimize(nil)
	assert.True(t, errors.As(err, &validationErr))

	empty := NewDealOptimizer(catalog.NewStore(nil), domain.OptimisticDefaults())
	_, err = empty.Optimize(planXConfig(1))
	assert.ErrorContains(t, err, "no reference tables")
}

func TestOptimize_UsesOneSnapshot(t *testing.T) {
	store := catalog.NewStore(seal(t, planXTables()))
	engine := NewDealOptimizer(store, domain.OptimisticDefaults())

	first, err := engine.Optimize(planXConfig(3))
	require.NoError(t, err)

	updated := planXTables()
	updated.Version = "fixture-2"
	updated.Plans[0].TotalPriceByLineCount[3] = dec("260")
	store.Swap(seal(t, updated))

	second, err := engine.Optimize(planXConfig(3))
	require.NoError(t, err)
	assert.Equal(t, "fixture-2", second.TablesVersion)
	assert.NotEqual(t, first.TablesHash, second.TablesHash)
	assert.True(t, second.Scenarios[0].MonthlyService.Equal(dec("230")))
}
