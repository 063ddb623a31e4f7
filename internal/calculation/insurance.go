package calculation

import (
	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// LineInsurance is the coverage chosen for one phone line
type LineInsurance struct {
	Tier    domain.TierID
	Premium decimal.Decimal
}

// InsuranceCharges is the premium total plus the per-line detail
type InsuranceCharges struct {
	Lines    []LineInsurance
	Total    decimal.Decimal
	Warnings []domain.Warning
}

// InsuranceCalculator maps insured devices to coverage tiers
type InsuranceCalculator struct {
	tables *catalog.Snapshot
}

// NewInsuranceCalculator creates an insurance calculator
func NewInsuranceCalculator(tables *catalog.Snapshot) *InsuranceCalculator {
	return &InsuranceCalculator{tables: tables}
}

// Calculate sums premiums over the insured lines. A line without a new device is
// insured at the default tier; a missing default tier costs nothing and warns.
func (c *InsuranceCalculator) Calculate(devices []domain.DeviceLine) InsuranceCharges {
	out := InsuranceCharges{Lines: make([]LineInsurance, len(devices))}
	warned := false

	for i, line := range devices {
		if !line.InsuranceElected {
			continue
		}
		var model *domain.ModelID
		if line.HasNewDevice() {
			model = line.NewDeviceModel
		}

		tier, err := c.tables.InsuranceTierFor(model)
		if err != nil {
			if !warned {
				out.Warnings = append(out.Warnings, *unknownReference(domain.WarnMissingDefaultTier, err, "no premium"))
				warned = true
			}
			continue
		}

		premium := clampZero(tier.MonthlyPremium).Round(2)
		out.Lines[i] = LineInsurance{Tier: tier.ID, Premium: premium}
		out.Total = out.Total.Add(premium)
	}
	return out
}
