package calculation

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// ScenarioPlan fixes the credit source of every phone line for one scenario
type ScenarioPlan struct {
	Type    domain.ScenarioType
	Sources []domain.CreditSource
	// Switcher is the switcher promotion used by switch lines
	Switcher *domain.Promotion
	// Bundles enables new-line and account bundle promotions
	Bundles bool
	// Warnings raised while choosing the plan, carried onto the scenario
	Warnings []domain.Warning
}

func (p ScenarioPlan) linesWith(source domain.CreditSource) []int {
	var out []int
	for i, s := range p.Sources {
		if s == source {
			out = append(out, i)
		}
	}
	return out
}

// ScenarioBuilder runs the pricing pipeline for one scenario at a time
type ScenarioBuilder struct {
	tables *catalog.Snapshot
	policy domain.DefaultsPolicy

	Plans       *PlanPricingResolver
	Devices     *DeviceFinancingCalculator
	Accessories *AccessoryLineCalculator
	Insurance   *InsuranceCalculator
	Taxes       *TaxAndFeeCalculator
	Promotions  *PromotionEligibilityEngine

	Logger Logger
}

// NewScenarioBuilder wires the calculators to one snapshot
func NewScenarioBuilder(tables *catalog.Snapshot, policy domain.DefaultsPolicy) *ScenarioBuilder {
	devices := NewDeviceFinancingCalculator(tables, policy)
	return &ScenarioBuilder{
		tables:      tables,
		policy:      policy,
		Plans:       NewPlanPricingResolver(tables),
		Devices:     devices,
		Accessories: NewAccessoryLineCalculator(devices, tables.AccessoryRates()),
		Insurance:   NewInsuranceCalculator(tables),
		Taxes:       NewTaxAndFeeCalculator(tables, policy),
		Promotions:  NewPromotionEligibilityEngine(tables, policy),
		Logger:      NopLogger{},
	}
}

// credits is the applied promotion list split by where each credit lands
type credits struct {
	device        []decimal.Decimal
	reimbursement []decimal.Decimal
	service       []decimal.Decimal
	homeInternet  bool
}

// splitCredits places every applied credit. Bundle service credits are limited to
// the service left on their lines, line-targeted ones first, and the applied
// list is rewritten to the amounts actually taken.
func (b *ScenarioBuilder) splitCredits(applied []domain.AppliedPromotion, shares []decimal.Decimal) ([]domain.AppliedPromotion, credits) {
	terms := make(map[domain.PromotionID]domain.BundleTerms)
	for _, p := range b.tables.PromotionsOfKind(domain.PromotionBundle) {
		terms[p.ID] = p.Terms.(domain.BundleTerms)
	}

	lines := len(shares)
	c := credits{
		device:        make([]decimal.Decimal, lines),
		reimbursement: make([]decimal.Decimal, lines),
		service:       make([]decimal.Decimal, lines),
	}
	remaining := append([]decimal.Decimal(nil), shares...)
	var accountWide []int
	for i, a := range applied {
		switch a.Kind {
		case domain.PromotionTradeIn, domain.PromotionNewLine:
			c.device[*a.TargetLineIndex] = c.device[*a.TargetLineIndex].Add(a.CreditAmount)
		case domain.PromotionSwitcher:
			c.reimbursement[*a.TargetLineIndex] = c.reimbursement[*a.TargetLineIndex].Add(a.CreditAmount)
		case domain.PromotionBundle:
			switch {
			case a.TargetLineIndex != nil:
				idx := *a.TargetLineIndex
				taken := decimal.Min(a.CreditAmount, remaining[idx])
				remaining[idx] = remaining[idx].Sub(taken)
				c.service[idx] = c.service[idx].Add(taken)
				applied[i].CreditAmount = taken
			case terms[a.PromotionID].Benefit == domain.BenefitFreeHomeInternet:
				c.homeInternet = true
			default:
				accountWide = append(accountWide, i)
			}
		}
	}

	for _, i := range accountWide {
		var open []int
		left := decimal.Zero
		for j, r := range remaining {
			if r.IsPositive() {
				open = append(open, j)
				left = left.Add(r)
			}
		}
		amount := applied[i].CreditAmount
		if t := terms[applied[i].PromotionID]; t.Benefit == domain.BenefitPercentOffService {
			amount = left.Mul(t.Percent).Round(2)
		}
		taken := decimal.Zero
		if len(open) > 0 {
			for k, share := range PerLineShares(decimal.Min(amount, left), len(open)) {
				j := open[k]
				share = decimal.Min(share, remaining[j])
				remaining[j] = remaining[j].Sub(share)
				c.service[j] = c.service[j].Add(share)
				taken = taken.Add(share)
			}
		}
		applied[i].CreditAmount = taken
	}

	kept := applied[:0]
	for _, a := range applied {
		if a.Kind == domain.PromotionBundle && !a.CreditAmount.IsPositive() && terms[a.PromotionID].Benefit != domain.BenefitFreeHomeInternet {
			continue
		}
		kept = append(kept, a)
	}
	return kept, c
}

// Build prices one scenario. It fails only when the plan cannot be resolved.
func (b *ScenarioBuilder) Build(cfg *domain.CustomerConfiguration, plan ScenarioPlan) (domain.Scenario, error) {
	useAutoPay := cfg.UsesAutoPay(b.policy)
	price, err := b.Plans.Resolve(cfg.SelectedPlan, cfg.Lines, cfg.Category(), useAutoPay)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("%s: %w", plan.Type, err)
	}
	planDef, err := b.tables.Plan(cfg.SelectedPlan)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("%s: %w", plan.Type, err)
	}

	warnings := append([]domain.Warning(nil), plan.Warnings...)
	jurisdiction, jw := b.Taxes.Jurisdiction(cfg.TaxJurisdiction)
	warnings = append(warnings, jw...)

	monthlyPlan := price.Monthly()
	shares := PerLineShares(monthlyPlan, cfg.Lines)

	// promotions
	candidates, tw := b.Promotions.TradeInCandidates(cfg, plan.linesWith(domain.CreditTradeIn))
	warnings = append(warnings, tw...)
	if plan.Switcher != nil {
		candidates = append(candidates, b.Promotions.SwitcherCandidates(cfg, *plan.Switcher, plan.linesWith(domain.CreditSwitcher))...)
	}
	if plan.Bundles {
		newLines, nw := b.Promotions.NewLineCandidates(cfg)
		candidates = append(candidates, newLines...)
		warnings = append(warnings, nw...)
		bundles, bw := b.Promotions.BundleCandidates(cfg, BundleContext{
			ServiceShares:        shares,
			MonthlyService:       monthlyPlan,
			HomeInternetFee:      b.tables.AccessoryRates().HomeInternetFee,
			HomeInternetIncluded: HomeInternetIncluded(cfg.Lines, planDef),
		})
		candidates = append(candidates, bundles...)
		warnings = append(warnings, bw...)
	}
	applied, credit := b.splitCredits(Resolve(candidates), shares)

	// phone lines
	insurance := b.Insurance.Calculate(cfg.Devices)
	warnings = append(warnings, insurance.Warnings...)

	rows := make([]domain.LineItemBreakdown, 0, cfg.Lines+cfg.AccessoryLines.Count())
	var service, financing, deviceTaxes, reimbursements decimal.Decimal
	for i, line := range cfg.Devices {
		source := plan.Sources[i]
		row := domain.LineItemBreakdown{
			Index:            i,
			Kind:             domain.LinePhone,
			Label:            fmt.Sprintf("Line %d", i+1),
			CreditSource:     source,
			MonthlyService:   clampZero(shares[i].Sub(credit.service[i])),
			InsuranceTier:    insurance.Lines[i].Tier,
			MonthlyInsurance: insurance.Lines[i].Premium,
			Reimbursement:    credit.reimbursement[i],
		}

		if line.HasNewDevice() {
			tradeValue := decimal.Zero
			if source == domain.CreditTradeIn {
				value, w := b.Devices.TradeInValue(line)
				if w != nil {
					warnings = append(warnings, *w)
				}
				tradeValue = value
			}
			charge, w := b.Devices.Finance(*line.NewDeviceModel, line.StorageVariant, tradeValue, credit.device[i], cfg.FinancingTermMonths, jurisdiction.DeviceTaxRate)
			if w != nil {
				warnings = append(warnings, *w)
			}
			model := charge.Model
			row.DeviceModel = &model
			row.FullRetailPrice = charge.FullRetailPrice
			row.TradeInCredit = charge.TradeInCredit
			row.PromotionCredit = charge.PromotionCredit
			row.FinancedAmount = charge.FinancedAmount
			row.MonthlyFinancing = charge.MonthlyFinancing
			row.UpfrontDeviceTax = charge.UpfrontDeviceTax
		}

		service = service.Add(row.MonthlyService)
		financing = financing.Add(row.MonthlyFinancing)
		deviceTaxes = deviceTaxes.Add(row.UpfrontDeviceTax)
		reimbursements = reimbursements.Add(row.Reimbursement)
		rows = append(rows, row)
	}

	// accessories, billed outside the service tax base
	accessories := b.Accessories.Calculate(cfg, planDef, jurisdiction.DeviceTaxRate, credit.homeInternet, cfg.Lines)
	warnings = append(warnings, accessories.Warnings...)
	rows = append(rows, accessories.Rows...)

	taxes := b.Taxes.Calculate(jurisdiction, service, cfg.Lines)

	s := domain.Scenario{
		Name:                   plan.Type.DisplayName(),
		Type:                   plan.Type,
		MonthlyService:         service,
		MonthlyDeviceFinancing: financing,
		MonthlyAccessory:       accessories.Monthly(),
		MonthlyInsurance:       insurance.Total,
		MonthlyTaxesAndFees:    taxes.Total,
		Reimbursements:         reimbursements,
		FinancingTermMonths:    cfg.FinancingTermMonths,
		Plan:                   price,
		Taxes:                  taxes,
		PromotionsApplied:      applied,
		PerLineBreakdown:       rows,
	}
	s.MonthlyTotal = s.MonthlyService.Add(s.MonthlyDeviceFinancing).Add(s.MonthlyAccessory).Add(s.MonthlyInsurance).Add(s.MonthlyTaxesAndFees)

	s.Upfront = domain.UpfrontBreakdown{
		DeviceTaxes:    deviceTaxes,
		AccessoryTaxes: accessories.UpfrontTax,
		ActivationFees: ActivationFees(jurisdiction, cfg.Lines),
		ConnectionFees: ConnectionFees(jurisdiction, accessories.Connections),
		FirstMonth:     s.MonthlyTotal,
	}
	s.Upfront.Total = s.Upfront.DeviceTaxes.Add(s.Upfront.AccessoryTaxes).Add(s.Upfront.ActivationFees).Add(s.Upfront.ConnectionFees).Add(s.Upfront.FirstMonth)
	s.UpfrontTotal = s.Upfront.Total
	net := netCost(s.UpfrontTotal, s.MonthlyTotal, cfg.FinancingTermMonths, s.Reimbursements)
	if net.IsNegative() {
		warnings = append(warnings, clampedTotal(net))
	}
	s.TotalCost = clampZero(net)
	s.Warnings = domain.DedupeWarnings(warnings)

	b.Logger.Debugf("built %s: monthly %s upfront %s total %s", plan.Type, s.MonthlyTotal.StringFixed(2), s.UpfrontTotal.StringFixed(2), s.TotalCost.StringFixed(2))
	return s, nil
}

// TotalCost is the cost of ownership over the term: upfront (which includes the
// first month) plus the remaining months, less lump-sum reimbursements
func TotalCost(upfront, monthly decimal.Decimal, term int, reimbursements decimal.Decimal) decimal.Decimal {
	return clampZero(netCost(upfront, monthly, term, reimbursements))
}

// netCost is TotalCost before the zero floor
func netCost(upfront, monthly decimal.Decimal, term int, reimbursements decimal.Decimal) decimal.Decimal {
	remaining := max(term-1, 0)
	return upfront.Add(monthly.Mul(decimal.NewFromInt(int64(remaining)))).Sub(reimbursements).Round(2)
}

func clampedTotal(net decimal.Decimal) domain.Warning {
	return domain.Warning{
		Code:    domain.WarnTotalClamped,
		Message: fmt.Sprintf("reimbursements exceed the cost of ownership by %s, total shown as 0.00", net.Neg().StringFixed(2)),
	}
}
