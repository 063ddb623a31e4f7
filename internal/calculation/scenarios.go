package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// Strategies decides which scenario strategies apply to a configuration and fixes the
// credit source of every line for each of them
func (b *ScenarioBuilder) Strategies(cfg *domain.CustomerConfiguration) []ScenarioPlan {
	offer, offerWarnings := b.Promotions.SwitcherOffer(cfg)
	tradeEligible := b.Promotions.TradeInEligible(cfg)

	var plans []ScenarioPlan
	if tradeEligible {
		plans = append(plans, ScenarioPlan{
			Type:    domain.ScenarioTradeInAll,
			Sources: b.uniformSources(cfg, domain.CreditTradeIn),
		})
	}
	if offer != nil {
		plans = append(plans, ScenarioPlan{
			Type:     domain.ScenarioKeepAndSwitch,
			Sources:  b.uniformSources(cfg, domain.CreditSwitcher),
			Switcher: offer,
			Warnings: offerWarnings,
		})
	}
	if tradeEligible && offer != nil {
		if sources, mixed := b.selectiveSources(cfg, *offer); mixed {
			plans = append(plans, ScenarioPlan{
				Type:     domain.ScenarioSelectiveTrade,
				Sources:  sources,
				Switcher: offer,
				Warnings: offerWarnings,
			})
		}
	}

	bundle := ScenarioPlan{
		Type:     domain.ScenarioBundleMax,
		Sources:  b.bundleSources(cfg, offer),
		Switcher: offer,
		Bundles:  true,
	}
	if offer != nil {
		bundle.Warnings = offerWarnings
	}
	return append(plans, bundle)
}

func (b *ScenarioBuilder) uniformSources(cfg *domain.CustomerConfiguration, source domain.CreditSource) []domain.CreditSource {
	sources := make([]domain.CreditSource, cfg.Lines)
	for i, line := range cfg.Devices {
		sources[i] = domain.CreditNone
		switch source {
		case domain.CreditTradeIn:
			if _, trades := line.TradeModel(); trades && line.HasNewDevice() {
				sources[i] = domain.CreditTradeIn
			}
		case domain.CreditSwitcher:
			sources[i] = domain.CreditSwitcher
		}
	}
	return sources
}

// selectiveSources trades lines whose trade benefit beats the threshold and switches
// the rest while switch slots remain. mixed is false when every line lands on the
// same source, since the result would duplicate another scenario.
func (b *ScenarioBuilder) selectiveSources(cfg *domain.CustomerConfiguration, offer domain.Promotion) ([]domain.CreditSource, bool) {
	threshold := b.tables.Rules().SelectiveTradeThreshold
	slots := offer.LineLimit(cfg.Lines)
	sources := make([]domain.CreditSource, cfg.Lines)
	trades, switches := 0, 0
	for i := range cfg.Devices {
		switch {
		case b.tradeBenefit(cfg, i).GreaterThan(threshold):
			sources[i] = domain.CreditTradeIn
			trades++
		case switches < slots:
			sources[i] = domain.CreditSwitcher
			switches++
		default:
			sources[i] = domain.CreditNone
		}
	}
	return sources, trades > 0 && switches > 0
}

// bundleSources picks the larger benefit per line. Trade-in wins ties; switching is
// limited to the offer's line limit.
func (b *ScenarioBuilder) bundleSources(cfg *domain.CustomerConfiguration, offer *domain.Promotion) []domain.CreditSource {
	slots := 0
	if offer != nil {
		slots = offer.LineLimit(cfg.Lines)
	}
	sources := make([]domain.CreditSource, cfg.Lines)
	for i, line := range cfg.Devices {
		trade := b.tradeBenefit(cfg, i)
		switchValue := decimal.Zero
		if offer != nil && slots > 0 {
			switchValue = b.Promotions.SwitcherAmount(*offer, line)
		}

		switch {
		case trade.IsPositive() && trade.GreaterThanOrEqual(switchValue):
			sources[i] = domain.CreditTradeIn
		case switchValue.IsPositive():
			sources[i] = domain.CreditSwitcher
			slots--
		default:
			sources[i] = domain.CreditNone
		}
	}
	return sources
}

// tradeBenefit is what trading in line i is worth toward its new device: the table
// value plus any trade-in bonus, capped at the device price
func (b *ScenarioBuilder) tradeBenefit(cfg *domain.CustomerConfiguration, i int) decimal.Decimal {
	line := cfg.Devices[i]
	value, _ := b.Devices.TradeInValue(line)
	if !line.HasNewDevice() {
		return decimal.Zero
	}
	bonuses, _ := b.Promotions.TradeInCandidates(cfg, []int{i})
	for _, c := range Resolve(bonuses) {
		value = value.Add(c.CreditAmount)
	}
	full, _ := b.Devices.RetailPrice(*line.NewDeviceModel, line.StorageVariant)
	return decimal.Min(value, full)
}

// BuildAll prices every applicable scenario in build order. Scenarios that fail are
// omitted with a warning; when none survive a service-only fallback is returned.
func (b *ScenarioBuilder) BuildAll(cfg *domain.CustomerConfiguration) ([]domain.Scenario, []domain.Warning) {
	var scenarios []domain.Scenario
	var failures []domain.Warning
	for _, plan := range b.Strategies(cfg) {
		s, err := b.Build(cfg, plan)
		if err != nil {
			b.Logger.Warnf("omitting scenario %s: %v", plan.Type, err)
			failures = append(failures, omitted(plan.Type, err))
			continue
		}
		scenarios = append(scenarios, s)
	}

	if len(scenarios) == 0 {
		scenarios = append(scenarios, b.ServiceOnly(cfg, failures))
		return scenarios, nil
	}
	return scenarios, failures
}

func omitted(t domain.ScenarioType, err error) domain.Warning {
	w := domain.Warning{
		Code:    domain.WarnScenarioOmitted,
		Message: fmt.Sprintf("scenario %s omitted: %v", t, err),
	}
	var refErr *domain.UnknownReferenceError
	if errors.As(err, &refErr) {
		w.Reference = refErr.ID
	}
	return w
}

// ServiceOnly is the minimal scenario returned when no strategy could be priced:
// plan service with taxes and fees, no devices, no accessories. An unresolvable plan
// is priced at zero.
func (b *ScenarioBuilder) ServiceOnly(cfg *domain.CustomerConfiguration, failures []domain.Warning) domain.Scenario {
	warnings := append([]domain.Warning(nil), failures...)

	useAutoPay := cfg.UsesAutoPay(b.policy)
	price, err := b.Plans.Resolve(cfg.SelectedPlan, cfg.Lines, cfg.Category(), useAutoPay)
	if err != nil {
		var refErr *domain.UnknownReferenceError
		if errors.As(err, &refErr) {
			warnings = append(warnings, domain.WarningFromReference(domain.WarnUnknownPlan, refErr, "price 0.00"))
		} else {
			warnings = append(warnings, domain.Warning{Code: domain.WarnUnknownPlan, Message: err.Error()})
		}
		price = domain.PlanPrice{PlanID: cfg.SelectedPlan, LineCount: cfg.Lines, AutoPayApplied: useAutoPay}
	}
	warnings = append(warnings, domain.Warning{
		Code:    domain.WarnServiceOnlyFallback,
		Message: "no scenario could be priced, showing service only",
	})

	jurisdiction, jw := b.Taxes.Jurisdiction(cfg.TaxJurisdiction)
	warnings = append(warnings, jw...)

	shares := PerLineShares(price.Monthly(), cfg.Lines)
	rows := make([]domain.LineItemBreakdown, cfg.Lines)
	for i := range rows {
		rows[i] = domain.LineItemBreakdown{
			Index:          i,
			Kind:           domain.LinePhone,
			Label:          fmt.Sprintf("Line %d", i+1),
			CreditSource:   domain.CreditNone,
			MonthlyService: shares[i],
		}
	}

	taxes := b.Taxes.Calculate(jurisdiction, price.Monthly(), cfg.Lines)
	s := domain.Scenario{
		Name:                domain.ScenarioServiceOnly.DisplayName(),
		Type:                domain.ScenarioServiceOnly,
		MonthlyService:      price.Monthly(),
		MonthlyTaxesAndFees: taxes.Total,
		FinancingTermMonths: cfg.FinancingTermMonths,
		Plan:                price,
		Taxes:               taxes,
		PromotionsApplied:   []domain.AppliedPromotion{},
		PerLineBreakdown:    rows,
	}
	s.MonthlyTotal = s.MonthlyService.Add(s.MonthlyTaxesAndFees)
	s.Upfront = domain.UpfrontBreakdown{
		ActivationFees: ActivationFees(jurisdiction, cfg.Lines),
		FirstMonth:     s.MonthlyTotal,
	}
	s.Upfront.Total = s.Upfront.ActivationFees.Add(s.Upfront.FirstMonth)
	s.UpfrontTotal = s.Upfront.Total
	s.TotalCost = TotalCost(s.UpfrontTotal, s.MonthlyTotal, cfg.FinancingTermMonths, decimal.Zero)
	s.Warnings = domain.DedupeWarnings(warnings)
	return s
}
