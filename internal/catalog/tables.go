// Package catalog holds the versioned reference tables the engine prices against.
package catalog

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Tables is the plain, editable form of the reference data. It is sealed into a
// Snapshot before the engine sees it.
type Tables struct {
	Version          string                             `yaml:"version" json:"version"`
	Plans            []domain.Plan                      `yaml:"plans" json:"plans"`
	Jurisdictions    []domain.TaxJurisdiction           `yaml:"jurisdictions" json:"jurisdictions"`
	Devices          []domain.DeviceModel               `yaml:"devices" json:"devices"`
	TradeInValues    map[domain.ModelID]decimal.Decimal `yaml:"trade_in_values" json:"tradeInValues"`
	Promotions       []domain.Promotion                 `yaml:"promotions" json:"promotions"`
	InsuranceTiers   []domain.InsuranceTier             `yaml:"insurance_tiers" json:"insuranceTiers"`
	InsuranceTierMap map[domain.ModelID]domain.TierID   `yaml:"insurance_tier_map" json:"insuranceTierMap"`
	DefaultTier      domain.TierID                      `yaml:"default_tier" json:"defaultTier"`
	AccessoryRates   *domain.AccessoryRates             `yaml:"accessory_rates,omitempty" json:"accessoryRates,omitempty"`
	Rules            *domain.Rules                      `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// TableError reports invalid reference data
type TableError struct {
	Table  string
	ID     string
	Reason string
	Err    error
}

func (e *TableError) Error() string {
	msg := e.Table
	if e.ID != "" {
		msg += " " + e.ID
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// DecodeYAML parses a reference table document
func DecodeYAML(data []byte) (*Tables, error) {
	var tables Tables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, &TableError{Table: "tables", Reason: "failed to parse YAML", Err: err}
	}
	return &tables, nil
}

var one = decimal.NewFromInt(1)

func (t *Tables) validate() error {
	plans := make(map[domain.PlanID]bool, len(t.Plans))
	for _, p := range t.Plans {
		if p.ID == "" {
			return &TableError{Table: "plans", Reason: "plan id is required"}
		}
		if plans[p.ID] {
			return &TableError{Table: "plans", ID: string(p.ID), Reason: "duplicate plan id"}
		}
		plans[p.ID] = true

		if len(p.TotalPriceByLineCount) == 0 {
			return &TableError{Table: "plans", ID: string(p.ID), Reason: "total_price_by_line_count is empty"}
		}
		if err := validatePriceTable(p.TotalPriceByLineCount); err != nil {
			return &TableError{Table: "plans", ID: string(p.ID), Reason: err.Error()}
		}
		for category, table := range p.QualificationPricing {
			if err := validatePriceTable(table); err != nil {
				return &TableError{Table: "plans", ID: string(p.ID), Reason: fmt.Sprintf("%s pricing: %s", category, err)}
			}
		}
		if p.AutopayDiscountPerLine.IsNegative() {
			return &TableError{Table: "plans", ID: string(p.ID), Reason: "autopay_discount_per_line cannot be negative"}
		}
	}

	jurisdictions := make(map[domain.JurisdictionID]bool, len(t.Jurisdictions))
	for _, j := range t.Jurisdictions {
		if j.ID == "" {
			return &TableError{Table: "jurisdictions", Reason: "jurisdiction id is required"}
		}
		if jurisdictions[j.ID] {
			return &TableError{Table: "jurisdictions", ID: string(j.ID), Reason: "duplicate jurisdiction id"}
		}
		jurisdictions[j.ID] = true

		if !isRate(j.ServiceTaxRate) || !isRate(j.DeviceTaxRate) {
			return &TableError{Table: "jurisdictions", ID: string(j.ID), Reason: "tax rates must be between 0 and 1"}
		}
		for _, fee := range []decimal.Decimal{j.RegulatoryFeePerLine, j.SurchargePerLine, j.ActivationFeePerLine, j.DeviceConnectionFee} {
			if fee.IsNegative() {
				return &TableError{Table: "jurisdictions", ID: string(j.ID), Reason: "fees cannot be negative"}
			}
		}
	}

	devices := make(map[domain.ModelID]bool, len(t.Devices))
	for _, d := range t.Devices {
		if d.ID == "" {
			return &TableError{Table: "devices", Reason: "model id is required"}
		}
		if devices[d.ID] {
			return &TableError{Table: "devices", ID: string(d.ID), Reason: "duplicate model id"}
		}
		devices[d.ID] = true

		switch d.Kind {
		case domain.DevicePhone, domain.DeviceWatch, domain.DeviceTablet:
		default:
			return &TableError{Table: "devices", ID: string(d.ID), Reason: fmt.Sprintf("unknown kind %q", d.Kind)}
		}
		if d.RetailPrice.IsNegative() {
			return &TableError{Table: "devices", ID: string(d.ID), Reason: "retail_price cannot be negative"}
		}
		for variant, price := range d.StorageVariants {
			if price.IsNegative() {
				return &TableError{Table: "devices", ID: string(d.ID), Reason: fmt.Sprintf("variant %s price cannot be negative", variant)}
			}
		}
	}

	for model, value := range t.TradeInValues {
		if value.IsNegative() {
			return &TableError{Table: "trade_in_values", ID: string(model), Reason: "value cannot be negative"}
		}
	}

	promotions := make(map[domain.PromotionID]bool, len(t.Promotions))
	for i := range t.Promotions {
		p := &t.Promotions[i]
		if err := p.Validate(); err != nil {
			return &TableError{Table: "promotions", ID: string(p.ID), Reason: "invalid promotion", Err: err}
		}
		if promotions[p.ID] {
			return &TableError{Table: "promotions", ID: string(p.ID), Reason: "duplicate promotion id"}
		}
		promotions[p.ID] = true
	}

	tiers := make(map[domain.TierID]bool, len(t.InsuranceTiers))
	for _, tier := range t.InsuranceTiers {
		if tier.ID == "" {
			return &TableError{Table: "insurance_tiers", Reason: "tier id is required"}
		}
		if tiers[tier.ID] {
			return &TableError{Table: "insurance_tiers", ID: string(tier.ID), Reason: "duplicate tier id"}
		}
		if tier.MonthlyPremium.IsNegative() {
			return &TableError{Table: "insurance_tiers", ID: string(tier.ID), Reason: "monthly_premium cannot be negative"}
		}
		tiers[tier.ID] = true
	}
	for model, tier := range t.InsuranceTierMap {
		if !tiers[tier] {
			return &TableError{Table: "insurance_tier_map", ID: string(model), Reason: fmt.Sprintf("unknown tier %q", tier)}
		}
	}
	if t.DefaultTier != "" && !tiers[t.DefaultTier] {
		return &TableError{Table: "insurance_tiers", ID: string(t.DefaultTier), Reason: "default tier is not defined"}
	}

	if t.AccessoryRates != nil {
		r := t.AccessoryRates
		for _, fee := range []decimal.Decimal{r.WatchLineFee, r.WatchPromoLineFee, r.TabletUnlimitedFee, r.TabletPartialFee, r.HomeInternetFee} {
			if fee.IsNegative() {
				return &TableError{Table: "accessory_rates", Reason: "fees cannot be negative"}
			}
		}
		if !isRate(r.SecondTabletDiscount) {
			return &TableError{Table: "accessory_rates", Reason: "second_tablet_discount must be between 0 and 1"}
		}
	}
	if t.Rules != nil && t.Rules.SelectiveTradeThreshold.IsNegative() {
		return &TableError{Table: "rules", Reason: "selective_trade_threshold cannot be negative"}
	}

	return nil
}

func validatePriceTable(table map[int]decimal.Decimal) error {
	for lines, price := range table {
		if lines < 1 {
			return fmt.Errorf("line count %d must be at least 1", lines)
		}
		if price.IsNegative() {
			return fmt.Errorf("price for %d lines cannot be negative", lines)
		}
	}
	return nil
}

func isRate(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(one)
}
