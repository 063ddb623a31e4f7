package calculation

import (
	"errors"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxAndFeeCalculator applies a jurisdiction's recurring taxes and per-line fees.
// The service tax base is the plan charge only; accessory line fees are billed
// separately and are not taxed here. Device tax is an upfront charge computed by
// the device calculator.
type TaxAndFeeCalculator struct {
	tables *catalog.Snapshot
	policy domain.DefaultsPolicy
}

// NewTaxAndFeeCalculator creates a tax calculator
func NewTaxAndFeeCalculator(tables *catalog.Snapshot, policy domain.DefaultsPolicy) *TaxAndFeeCalculator {
	return &TaxAndFeeCalculator{tables: tables, policy: policy}
}

// Jurisdiction resolves the configured jurisdiction, falling back to the policy
// default and then to a jurisdiction with no taxes or fees
func (c *TaxAndFeeCalculator) Jurisdiction(id domain.JurisdictionID) (domain.TaxJurisdiction, []domain.Warning) {
	j, err := c.tables.Jurisdiction(id)
	if err == nil {
		return j, nil
	}

	var refErr *domain.UnknownReferenceError
	if !errors.As(err, &refErr) {
		return domain.TaxJurisdiction{ID: id}, []domain.Warning{{Code: domain.WarnUnknownJurisdiction, Message: err.Error()}}
	}

	fallback, fbErr := c.tables.Jurisdiction(c.policy.DefaultJurisdiction)
	if fbErr != nil {
		w := domain.WarningFromReference(domain.WarnUnknownJurisdiction, refErr, "no taxes or fees")
		return domain.TaxJurisdiction{ID: id}, []domain.Warning{w}
	}
	w := domain.WarningFromReference(domain.WarnUnknownJurisdiction, refErr, "jurisdiction "+string(fallback.ID))
	return fallback, []domain.Warning{w}
}

// Calculate computes the recurring taxes on the service amount and the per-line fees
func (c *TaxAndFeeCalculator) Calculate(j domain.TaxJurisdiction, monthlyServiceAmount decimal.Decimal, lineCount int) domain.TaxBreakdown {
	if lineCount < 0 {
		lineCount = 0
	}
	lines := decimal.NewFromInt(int64(lineCount))

	out := domain.TaxBreakdown{
		ServiceTaxes:   clampZero(monthlyServiceAmount).Mul(clampZero(j.ServiceTaxRate)).Round(2),
		RegulatoryFees: lines.Mul(clampZero(j.RegulatoryFeePerLine)).Round(2),
		Surcharges:     lines.Mul(clampZero(j.SurchargePerLine)).Round(2),
	}
	out.Total = out.ServiceTaxes.Add(out.RegulatoryFees).Add(out.Surcharges)
	return out
}

// ActivationFees is the one-time activation charge for the phone lines
func ActivationFees(j domain.TaxJurisdiction, lineCount int) decimal.Decimal {
	return decimal.NewFromInt(int64(lineCount)).Mul(clampZero(j.ActivationFeePerLine)).Round(2)
}

// ConnectionFees is the one-time charge for connecting accessory devices
func ConnectionFees(j domain.TaxJurisdiction, connections int) decimal.Decimal {
	return decimal.NewFromInt(int64(connections)).Mul(clampZero(j.DeviceConnectionFee)).Round(2)
}
