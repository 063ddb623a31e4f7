package calculation

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// AccessoryCharges is the priced set of watch, tablet and home internet lines
type AccessoryCharges struct {
	Rows               []domain.LineItemBreakdown
	LineFees           decimal.Decimal
	Financing          decimal.Decimal
	UpfrontTax         decimal.Decimal
	Connections        int
	HomeInternetWaived bool
	Warnings           []domain.Warning
}

// Monthly is the recurring accessory cost: line fees plus device financing
func (a AccessoryCharges) Monthly() decimal.Decimal {
	return a.LineFees.Add(a.Financing)
}

// AccessoryLineCalculator prices the non-phone lines on an account
type AccessoryLineCalculator struct {
	devices *DeviceFinancingCalculator
	rates   domain.AccessoryRates
}

// NewAccessoryLineCalculator creates an accessory calculator. Device financing for
// new watches and tablets goes through the shared device calculator.
func NewAccessoryLineCalculator(devices *DeviceFinancingCalculator, rates domain.AccessoryRates) *AccessoryLineCalculator {
	return &AccessoryLineCalculator{devices: devices, rates: rates}
}

// HomeInternetIncluded reports whether the plan waives home internet for the account
func HomeInternetIncluded(lines int, plan domain.Plan) bool {
	return lines >= 2 && plan.PromotionalEligible
}

// WatchLineFee returns the monthly fee of one watch line on the plan
func (c *AccessoryLineCalculator) WatchLineFee(plan domain.Plan) decimal.Decimal {
	if plan.BundledAccessoryPromo {
		return c.rates.WatchPromoLineFee
	}
	return c.rates.WatchLineFee
}

// TabletLineFees prices tablets in arrival order. Only the second unlimited tablet
// is discounted, counting unlimited lines rather than tablets overall.
func (c *AccessoryLineCalculator) TabletLineFees(tablets []domain.TabletLine) []decimal.Decimal {
	fees := make([]decimal.Decimal, len(tablets))
	unlimited := 0
	for i, t := range tablets {
		if t.DataType == domain.DataPartial {
			fees[i] = c.rates.TabletPartialFee.Round(2)
			continue
		}
		fee := c.rates.TabletUnlimitedFee
		if unlimited == 1 {
			fee = fee.Mul(decimal.NewFromInt(1).Sub(c.rates.SecondTabletDiscount))
		}
		fees[i] = clampZero(fee).Round(2)
		unlimited++
	}
	return fees
}

// Calculate prices every accessory line. waiveHomeInternet is set when a bundle
// promotion covers home internet; the plan waiver applies regardless.
// Row indices continue from firstIndex.
func (c *AccessoryLineCalculator) Calculate(cfg *domain.CustomerConfiguration, plan domain.Plan, deviceTaxRate decimal.Decimal, waiveHomeInternet bool, firstIndex int) AccessoryCharges {
	var out AccessoryCharges
	term := cfg.FinancingTermMonths
	index := firstIndex

	addDevice := func(row *domain.LineItemBreakdown, choice domain.DeviceChoice, model *domain.ModelID) {
		if choice != domain.DeviceNew || model == nil {
			return
		}
		charge, warning := c.devices.Finance(*model, nil, decimal.Zero, decimal.Zero, term, deviceTaxRate)
		if warning != nil {
			out.Warnings = append(out.Warnings, *warning)
		}
		m := *model
		row.DeviceModel = &m
		row.FullRetailPrice = charge.FullRetailPrice
		row.FinancedAmount = charge.FinancedAmount
		row.MonthlyFinancing = charge.MonthlyFinancing
		row.UpfrontDeviceTax = charge.UpfrontDeviceTax
		out.Financing = out.Financing.Add(charge.MonthlyFinancing)
		out.UpfrontTax = out.UpfrontTax.Add(charge.UpfrontDeviceTax)
	}

	watchFee := c.WatchLineFee(plan).Round(2)
	for i, w := range cfg.AccessoryLines.Watches {
		row := domain.LineItemBreakdown{
			Index:          index,
			Kind:           domain.LineWatch,
			Label:          fmt.Sprintf("Watch %d", i+1),
			MonthlyLineFee: watchFee,
			CreditSource:   domain.CreditNone,
		}
		addDevice(&row, w.Device, w.Model)
		out.LineFees = out.LineFees.Add(watchFee)
		out.Rows = append(out.Rows, row)
		index++
	}

	tabletFees := c.TabletLineFees(cfg.AccessoryLines.Tablets)
	for i, t := range cfg.AccessoryLines.Tablets {
		row := domain.LineItemBreakdown{
			Index:          index,
			Kind:           domain.LineTablet,
			Label:          fmt.Sprintf("Tablet %d (%s)", i+1, t.DataType),
			MonthlyLineFee: tabletFees[i],
			CreditSource:   domain.CreditNone,
		}
		addDevice(&row, t.Device, t.Model)
		out.LineFees = out.LineFees.Add(tabletFees[i])
		out.Rows = append(out.Rows, row)
		index++
	}

	if cfg.AccessoryLines.HomeInternet {
		fee := c.rates.HomeInternetFee.Round(2)
		if waiveHomeInternet || HomeInternetIncluded(cfg.Lines, plan) {
			fee = decimal.Zero
			out.HomeInternetWaived = true
		}
		out.LineFees = out.LineFees.Add(fee)
		out.Rows = append(out.Rows, domain.LineItemBreakdown{
			Index:          index,
			Kind:           domain.LineHomeInternet,
			Label:          "Home Internet",
			MonthlyLineFee: fee,
			CreditSource:   domain.CreditNone,
		})
	}

	out.Connections = cfg.AccessoryLines.Count()
	return out
}
