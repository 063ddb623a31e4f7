package domain

import (
	"github.com/shopspring/decimal"
)

// ScenarioType names a pricing strategy
type ScenarioType string

const (
	ScenarioTradeInAll     ScenarioType = "trade-in-all"
	ScenarioKeepAndSwitch  ScenarioType = "keep-and-switch"
	ScenarioSelectiveTrade ScenarioType = "selective-trade"
	ScenarioBundleMax      ScenarioType = "bundle-max"
	ScenarioServiceOnly    ScenarioType = "service-only"
)

// DisplayName returns the label shown to the agent
func (t ScenarioType) DisplayName() string {
	switch t {
	case ScenarioTradeInAll:
		return "Trade In Every Device"
	case ScenarioKeepAndSwitch:
		return "Keep & Switch"
	case ScenarioSelectiveTrade:
		return "Selective Trade"
	case ScenarioBundleMax:
		return "Maximum Bundle"
	case ScenarioServiceOnly:
		return "Service Only"
	default:
		return string(t)
	}
}

// CreditSource records where a line's device credit came from
type CreditSource string

const (
	CreditNone     CreditSource = "none"
	CreditTradeIn  CreditSource = "trade_in"
	CreditSwitcher CreditSource = "switcher"
)

// LineKind identifies the row type of a breakdown
type LineKind string

const (
	LinePhone        LineKind = "phone"
	LineWatch        LineKind = "watch"
	LineTablet       LineKind = "tablet"
	LineHomeInternet LineKind = "home_internet"
)

// PlanPrice is the resolved plan cost for a line count
type PlanPrice struct {
	PlanID               PlanID          `json:"planId"`
	LineCount            int             `json:"lineCount"`
	BaseMonthly          decimal.Decimal `json:"baseMonthly"`
	WithAutoPay          decimal.Decimal `json:"withAutoPay"`
	AutopayDiscountTotal decimal.Decimal `json:"autopayDiscountTotal"`
	AutoPayApplied       bool            `json:"autoPayApplied"`
}

// Monthly returns the plan cost actually billed
func (p PlanPrice) Monthly() decimal.Decimal {
	if p.AutoPayApplied {
		return p.WithAutoPay
	}
	return p.BaseMonthly
}

// TaxBreakdown is the recurring tax and fee detail
type TaxBreakdown struct {
	ServiceTaxes   decimal.Decimal `json:"serviceTaxes"`
	RegulatoryFees decimal.Decimal `json:"regulatoryFees"`
	Surcharges     decimal.Decimal `json:"surcharges"`
	Total          decimal.Decimal `json:"total"`
}

// UpfrontBreakdown is the detail of what is paid at signing
type UpfrontBreakdown struct {
	DeviceTaxes    decimal.Decimal `json:"deviceTaxes"`
	AccessoryTaxes decimal.Decimal `json:"accessoryTaxes"`
	ActivationFees decimal.Decimal `json:"activationFees"`
	ConnectionFees decimal.Decimal `json:"connectionFees"`
	FirstMonth     decimal.Decimal `json:"firstMonth"`
	Total          decimal.Decimal `json:"total"`
}

// AppliedPromotion is the audit record of one promotion credit
type AppliedPromotion struct {
	PromotionID     PromotionID     `json:"promotionId"`
	Kind            PromotionKind   `json:"kind"`
	TargetLineIndex *int            `json:"targetLineIndex"`
	CreditAmount    decimal.Decimal `json:"creditAmount"`
	Description     string          `json:"description"`
}

// LineItemBreakdown is one invoice row of a scenario
type LineItemBreakdown struct {
	Index int      `json:"index"`
	Kind  LineKind `json:"kind"`
	Label string   `json:"label"`

	DeviceModel      *ModelID        `json:"deviceModel,omitempty"`
	FullRetailPrice  decimal.Decimal `json:"fullRetailPrice"`
	TradeInCredit    decimal.Decimal `json:"tradeInCredit"`
	PromotionCredit  decimal.Decimal `json:"promotionCredit"`
	FinancedAmount   decimal.Decimal `json:"financedAmount"`
	MonthlyFinancing decimal.Decimal `json:"monthlyFinancing"`
	UpfrontDeviceTax decimal.Decimal `json:"upfrontDeviceTax"`
	CreditSource     CreditSource    `json:"creditSource"`

	MonthlyService   decimal.Decimal `json:"monthlyService"`
	MonthlyLineFee   decimal.Decimal `json:"monthlyLineFee"`
	InsuranceTier    TierID          `json:"insuranceTier,omitempty"`
	MonthlyInsurance decimal.Decimal `json:"monthlyInsurance"`
	Reimbursement    decimal.Decimal `json:"reimbursement"`
}

// MonthlyTotal is the recurring cost of the row before taxes
func (l LineItemBreakdown) MonthlyTotal() decimal.Decimal {
	return l.MonthlyService.Add(l.MonthlyLineFee).Add(l.MonthlyFinancing).Add(l.MonthlyInsurance)
}

// Scenario is one fully priced strategy. It is built once and never modified.
type Scenario struct {
	Name string       `json:"name"`
	Type ScenarioType `json:"type"`

	MonthlyService         decimal.Decimal `json:"monthlyService"`
	MonthlyDeviceFinancing decimal.Decimal `json:"monthlyDeviceFinancing"`
	MonthlyAccessory       decimal.Decimal `json:"monthlyAccessory"`
	MonthlyInsurance       decimal.Decimal `json:"monthlyInsurance"`
	MonthlyTaxesAndFees    decimal.Decimal `json:"monthlyTaxesAndFees"`
	MonthlyTotal           decimal.Decimal `json:"monthlyTotal"`
	UpfrontTotal           decimal.Decimal `json:"upfrontTotal"`
	TotalCost              decimal.Decimal `json:"total24MonthCost"`
	Reimbursements         decimal.Decimal `json:"reimbursements"`
	FinancingTermMonths    int             `json:"financingTermMonths"`

	Plan    PlanPrice        `json:"plan"`
	Taxes   TaxBreakdown     `json:"taxes"`
	Upfront UpfrontBreakdown `json:"upfront"`

	PromotionsApplied []AppliedPromotion  `json:"promotionsApplied"`
	PerLineBreakdown  []LineItemBreakdown `json:"perLineBreakdown"`
	Warnings          []Warning           `json:"warnings,omitempty"`
}

// EffectiveMonthly spreads the total cost evenly over the financing term
func (s Scenario) EffectiveMonthly() decimal.Decimal {
	if s.FinancingTermMonths <= 0 {
		return s.MonthlyTotal
	}
	return s.TotalCost.Div(decimal.NewFromInt(int64(s.FinancingTermMonths))).Round(2)
}

// QuoteResult is the ranked output of one optimization call
type QuoteResult struct {
	Scenarios     []Scenario `json:"scenarios"`
	Best          *Scenario  `json:"best"`
	Warnings      []Warning  `json:"warnings,omitempty"`
	TablesVersion string     `json:"tablesVersion"`
	TablesHash    string     `json:"tablesHash"`
}

// Scenario returns the scenario of the given type, if it was built
func (q *QuoteResult) Scenario(t ScenarioType) (Scenario, bool) {
	for _, s := range q.Scenarios {
		if s.Type == t {
			return s, true
		}
	}
	return Scenario{}, false
}

// DedupeWarnings drops repeated warnings while keeping first-seen order
func DedupeWarnings(warnings []Warning) []Warning {
	if len(warnings) == 0 {
		return nil
	}
	seen := make(map[Warning]bool, len(warnings))
	out := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
