package catalog

import (
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func prices(values ...string) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal, len(values))
	for i, v := range values {
		out[i+1] = d(v)
	}
	return out
}

func intPtr(v int) *int { return &v }

func decPtr(v string) *decimal.Decimal {
	x := d(v)
	return &x
}

// DefaultTables returns the demo reference tables shipped with the binary.
// Real deployments load their own file.
func DefaultTables() *Tables {
	return &Tables{
		Version: "2026.10-demo",
		Plans: []domain.Plan{
			{
				ID:                    "unlimited_plus",
				Name:                  "Unlimited Plus",
				TotalPriceByLineCount: prices("90", "160", "210", "240", "275"),
				QualificationPricing: map[domain.QualificationCategory]map[int]decimal.Decimal{
					domain.QualificationMilitary:       prices("70", "120", "150", "180"),
					domain.QualificationFirstResponder: prices("70", "120", "150", "180"),
					domain.QualificationSenior55:       prices("75", "130"),
				},
				AutopayDiscountPerLine: d("5"),
				Features:               []string{"premium_data", "hotspot_50gb", "streaming_bundle"},
				PromotionalEligible:    true,
				BundledAccessoryPromo:  true,
			},
			{
				ID:                     "essentials",
				Name:                   "Essentials",
				TotalPriceByLineCount:  prices("65", "120", "150", "160"),
				AutopayDiscountPerLine: d("5"),
				Features:               []string{"unlimited_talk_text"},
			},
			{
				ID:                    "business_unlimited",
				Name:                  "Business Unlimited",
				TotalPriceByLineCount: prices("85", "150", "195", "240", "280", "318"),
				QualificationPricing: map[domain.QualificationCategory]map[int]decimal.Decimal{
					domain.QualificationBusiness: prices("80", "140", "180", "220", "250", "282"),
				},
				AutopayDiscountPerLine: d("5"),
				Features:               []string{"priority_data", "hotspot_unlimited"},
				PromotionalEligible:    true,
			},
		},
		Jurisdictions: []domain.TaxJurisdiction{
			{
				ID:                   "standard",
				Name:                 "Standard",
				ServiceTaxRate:       d("0.10"),
				DeviceTaxRate:        d("0.0625"),
				RegulatoryFeePerLine: d("3.49"),
				SurchargePerLine:     d("1.99"),
				ActivationFeePerLine: d("35"),
				DeviceConnectionFee:  d("10"),
			},
			{
				ID:                   "ca_los_angeles",
				Name:                 "Los Angeles, CA",
				ServiceTaxRate:       d("0.1444"),
				DeviceTaxRate:        d("0.095"),
				RegulatoryFeePerLine: d("3.99"),
				SurchargePerLine:     d("2.50"),
				ActivationFeePerLine: d("35"),
				DeviceConnectionFee:  d("10"),
			},
			{
				ID:                   "tx_austin",
				Name:                 "Austin, TX",
				ServiceTaxRate:       d("0.1225"),
				DeviceTaxRate:        d("0.0825"),
				RegulatoryFeePerLine: d("3.49"),
				SurchargePerLine:     d("1.75"),
				ActivationFeePerLine: d("35"),
				DeviceConnectionFee:  d("10"),
			},
		},
		Devices: []domain.DeviceModel{
			{ID: "iphone_16", Name: "iPhone 16", Kind: domain.DevicePhone, RetailPrice: d("799"),
				StorageVariants: map[string]decimal.Decimal{"128gb": d("799"), "256gb": d("899"), "512gb": d("1099")}},
			{ID: "iphone_16_pro", Name: "iPhone 16 Pro", Kind: domain.DevicePhone, RetailPrice: d("999"),
				StorageVariants: map[string]decimal.Decimal{"128gb": d("999"), "256gb": d("1099"), "512gb": d("1299")}},
			{ID: "pixel_9", Name: "Pixel 9", Kind: domain.DevicePhone, RetailPrice: d("799")},
			{ID: "galaxy_s24", Name: "Galaxy S24", Kind: domain.DevicePhone, RetailPrice: d("799.99"),
				StorageVariants: map[string]decimal.Decimal{"256gb": d("859.99")}},
			{ID: "watch_s10", Name: "Watch Series 10", Kind: domain.DeviceWatch, RetailPrice: d("399")},
			{ID: "galaxy_watch7", Name: "Galaxy Watch7", Kind: domain.DeviceWatch, RetailPrice: d("299.99")},
			{ID: "ipad_air", Name: "iPad Air", Kind: domain.DeviceTablet, RetailPrice: d("599")},
			{ID: "galaxy_tab_s9", Name: "Galaxy Tab S9", Kind: domain.DeviceTablet, RetailPrice: d("799.99")},
		},
		TradeInValues: map[domain.ModelID]decimal.Decimal{
			"iphone_15_pro": d("800"),
			"iphone_15":     d("650"),
			"iphone_14":     d("500"),
			"iphone_13":     d("350"),
			"iphone_12":     d("200"),
			"pixel_8":       d("450"),
			"pixel_7":       d("250"),
			"galaxy_s23":    d("500"),
			"galaxy_s22":    d("300"),
		},
		Promotions: []domain.Promotion{
			{
				ID:          "switch-800",
				Description: "Keep & Switch: up to $800 per line toward your old phone",
				ValueAmount: d("800"),
				MaxLines:    intPtr(4),
				MaxPerLine:  decPtr("800"),
				Eligibility: domain.Eligibility{CustomerStatus: domain.StatusNew},
				Terms:       domain.SwitcherTerms{EligibleCarriers: []string{"Verizon", "AT&T", "US Cellular"}},
			},
			{
				ID:          "trade-bonus-16",
				Description: "Extra $200 trade-in credit on iPhone 16 family",
				ValueAmount: d("200"),
				Stackable:   true,
				Eligibility: domain.Eligibility{DeviceModels: []domain.ModelID{"iphone_16", "iphone_16_pro"}},
				Terms:       domain.TradeInTerms{Credit: d("200")},
			},
			{
				ID:          "third-line-free",
				Description: "Third line on us",
				ValueAmount: d("55"),
				Stackable:   true,
				Eligibility: domain.Eligibility{MinLines: 3},
				Terms:       domain.BundleTerms{Benefit: domain.BenefitFreeLine, LineNumber: 3},
			},
			{
				ID:          "home-internet-on-us",
				Description: "Home internet included with any voice line",
				ValueAmount: d("60"),
				Stackable:   true,
				Terms:       domain.BundleTerms{Benefit: domain.BenefitFreeHomeInternet},
			},
			{
				ID:          "new-customer-10",
				Description: "10% off service for new customers",
				ValueAmount: d("20"),
				Eligibility: domain.Eligibility{CustomerStatus: domain.StatusNew},
				Terms:       domain.BundleTerms{Benefit: domain.BenefitPercentOffService, Percent: d("0.10")},
			},
			{
				ID:          "new-line-100",
				Description: "$100 off a new phone on each new line",
				ValueAmount: d("100"),
				MaxLines:    intPtr(5),
				Eligibility: domain.Eligibility{CustomerStatus: domain.StatusNew},
				Terms:       domain.NewLineTerms{CreditPerLine: d("100")},
			},
		},
		InsuranceTiers: []domain.InsuranceTier{
			{ID: "tier_1", MonthlyPremium: d("9"), Deductibles: map[string]decimal.Decimal{"screen": d("29"), "damage": d("99")}},
			{ID: "tier_2", MonthlyPremium: d("13"), Deductibles: map[string]decimal.Decimal{"screen": d("29"), "damage": d("149")}},
			{ID: "tier_3", MonthlyPremium: d("18"), Deductibles: map[string]decimal.Decimal{"screen": d("29"), "damage": d("249")}},
		},
		InsuranceTierMap: map[domain.ModelID]domain.TierID{
			"iphone_16":     "tier_2",
			"iphone_16_pro": "tier_3",
			"pixel_9":       "tier_2",
			"galaxy_s24":    "tier_2",
		},
		DefaultTier: "tier_1",
	}
}

// DefaultSnapshot seals DefaultTables
func DefaultSnapshot() *Snapshot {
	snap, err := NewSnapshot(DefaultTables())
	if err != nil {
		panic("catalog: default tables are invalid: " + err.Error())
	}
	return snap
}
