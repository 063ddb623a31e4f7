package domain

import (
	"maps"
	"sort"

	"github.com/shopspring/decimal"
)

// TierID identifies an insurance coverage tier
type TierID string

// Plan is a rate plan priced by total line count
type Plan struct {
	ID   PlanID `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	// TotalPriceByLineCount is the TOTAL monthly price for that many lines, not a per-line rate
	TotalPriceByLineCount map[int]decimal.Decimal                           `yaml:"total_price_by_line_count" json:"totalPriceByLineCount"`
	QualificationPricing  map[QualificationCategory]map[int]decimal.Decimal `yaml:"qualification_pricing,omitempty" json:"qualificationPricing,omitempty"`

	AutopayDiscountPerLine decimal.Decimal `yaml:"autopay_discount_per_line" json:"autopayDiscountPerLine"`
	Features               []string        `yaml:"features,omitempty" json:"features,omitempty"`
	PromotionalEligible    bool            `yaml:"promotional_eligible" json:"promotionalEligible"`
	BundledAccessoryPromo  bool            `yaml:"bundled_accessory_promo" json:"bundledAccessoryPromo"`
}

// PricingTable returns the price-by-line-count table for a qualification category,
// falling back to the standard table
func (p Plan) PricingTable(category QualificationCategory) map[int]decimal.Decimal {
	if category != QualificationStandard {
		if table, ok := p.QualificationPricing[category]; ok && len(table) > 0 {
			return table
		}
	}
	return p.TotalPriceByLineCount
}

// DeepCopy returns a plan sharing no maps or slices with p
func (p Plan) DeepCopy() Plan {
	out := p
	out.TotalPriceByLineCount = maps.Clone(p.TotalPriceByLineCount)
	if p.QualificationPricing != nil {
		out.QualificationPricing = make(map[QualificationCategory]map[int]decimal.Decimal, len(p.QualificationPricing))
		for category, table := range p.QualificationPricing {
			out.QualificationPricing[category] = maps.Clone(table)
		}
	}
	out.Features = append([]string(nil), p.Features...)
	return out
}

// SortedTierKeys returns the line counts of a pricing table in ascending order
func SortedTierKeys(table map[int]decimal.Decimal) []int {
	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// TaxJurisdiction holds the tax and fee schedule for one location
type TaxJurisdiction struct {
	ID                   JurisdictionID  `yaml:"id" json:"id"`
	Name                 string          `yaml:"name" json:"name"`
	ServiceTaxRate       decimal.Decimal `yaml:"service_tax_rate" json:"serviceTaxRate"`
	DeviceTaxRate        decimal.Decimal `yaml:"device_tax_rate" json:"deviceTaxRate"`
	RegulatoryFeePerLine decimal.Decimal `yaml:"regulatory_fee_per_line" json:"regulatoryFeePerLine"`
	SurchargePerLine     decimal.Decimal `yaml:"surcharge_per_line" json:"surchargePerLine"`
	ActivationFeePerLine decimal.Decimal `yaml:"activation_fee_per_line" json:"activationFeePerLine"`
	DeviceConnectionFee  decimal.Decimal `yaml:"device_connection_fee" json:"deviceConnectionFee"`
}

// InsuranceTier is a device protection tier
type InsuranceTier struct {
	ID             TierID                     `yaml:"id" json:"id"`
	MonthlyPremium decimal.Decimal            `yaml:"monthly_premium" json:"monthlyPremium"`
	Deductibles    map[string]decimal.Decimal `yaml:"deductibles,omitempty" json:"deductibles,omitempty"`
}

// DeepCopy returns a tier sharing no maps with t
func (t InsuranceTier) DeepCopy() InsuranceTier {
	out := t
	out.Deductibles = maps.Clone(t.Deductibles)
	return out
}

// DeviceKind is the catalog category of a device
type DeviceKind string

const (
	DevicePhone  DeviceKind = "phone"
	DeviceWatch  DeviceKind = "watch"
	DeviceTablet DeviceKind = "tablet"
)

// DeviceModel is a catalog entry for a device that can be financed
type DeviceModel struct {
	ID              ModelID                    `yaml:"id" json:"id"`
	Name            string                     `yaml:"name" json:"name"`
	Kind            DeviceKind                 `yaml:"kind" json:"kind"`
	RetailPrice     decimal.Decimal            `yaml:"retail_price" json:"retailPrice"`
	StorageVariants map[string]decimal.Decimal `yaml:"storage_variants,omitempty" json:"storageVariants,omitempty"`
}

// DeepCopy returns a model sharing no maps with m
func (m DeviceModel) DeepCopy() DeviceModel {
	out := m
	out.StorageVariants = maps.Clone(m.StorageVariants)
	return out
}

// Price returns the retail price of a storage variant, or the base retail price
func (m DeviceModel) Price(variant *string) decimal.Decimal {
	if variant != nil {
		if price, ok := m.StorageVariants[*variant]; ok {
			return price
		}
	}
	return m.RetailPrice
}

// AccessoryRates prices the watch, tablet and home internet lines
type AccessoryRates struct {
	WatchLineFee         decimal.Decimal `yaml:"watch_line_fee" json:"watchLineFee"`
	WatchPromoLineFee    decimal.Decimal `yaml:"watch_promo_line_fee" json:"watchPromoLineFee"`
	TabletUnlimitedFee   decimal.Decimal `yaml:"tablet_unlimited_fee" json:"tabletUnlimitedFee"`
	TabletPartialFee     decimal.Decimal `yaml:"tablet_partial_fee" json:"tabletPartialFee"`
	SecondTabletDiscount decimal.Decimal `yaml:"second_tablet_discount" json:"secondTabletDiscount"`
	HomeInternetFee      decimal.Decimal `yaml:"home_internet_fee" json:"homeInternetFee"`
}

// Rules holds the scalar pricing rules that are not tied to a single table
type Rules struct {
	SelectiveTradeThreshold decimal.Decimal `yaml:"selective_trade_threshold" json:"selectiveTradeThreshold"`
}

// DefaultAccessoryRates returns the standard accessory pricing
func DefaultAccessoryRates() AccessoryRates {
	return AccessoryRates{
		WatchLineFee:         decimal.NewFromInt(12),
		WatchPromoLineFee:    decimal.NewFromInt(5),
		TabletUnlimitedFee:   decimal.NewFromInt(20),
		TabletPartialFee:     decimal.NewFromInt(10),
		SecondTabletDiscount: decimal.NewFromFloat(0.5),
		HomeInternetFee:      decimal.NewFromInt(60),
	}
}

// DefaultRules returns the standard pricing rules
func DefaultRules() Rules {
	return Rules{
		SelectiveTradeThreshold: decimal.NewFromInt(400),
	}
}
