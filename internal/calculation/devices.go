package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// DeviceCharge is the financing result for one device
type DeviceCharge struct {
	Model            domain.ModelID
	FullRetailPrice  decimal.Decimal
	TradeInCredit    decimal.Decimal
	PromotionCredit  decimal.Decimal
	FinancedAmount   decimal.Decimal
	MonthlyFinancing decimal.Decimal
	UpfrontDeviceTax decimal.Decimal
}

// DeviceFinancingCalculator prices and amortizes financed devices
type DeviceFinancingCalculator struct {
	tables *catalog.Snapshot
	policy domain.DefaultsPolicy
}

// NewDeviceFinancingCalculator creates a device calculator
func NewDeviceFinancingCalculator(tables *catalog.Snapshot, policy domain.DefaultsPolicy) *DeviceFinancingCalculator {
	return &DeviceFinancingCalculator{tables: tables, policy: policy}
}

// RetailPrice resolves the full price of a model. Unknown models are priced with
// the policy default and reported as a warning rather than failing the scenario.
func (c *DeviceFinancingCalculator) RetailPrice(model domain.ModelID, variant *string) (decimal.Decimal, *domain.Warning) {
	device, err := c.tables.Device(model)
	if err != nil {
		w := unknownReference(domain.WarnUnknownDevice, err, fmt.Sprintf("price %s", c.policy.UnknownDevicePrice.StringFixed(2)))
		return clampZero(c.policy.UnknownDevicePrice), w
	}
	return device.Price(variant), nil
}

// TradeInValue returns the table value of the line's trade-in device. Lines that
// trade nothing are worth zero; unrecognized models are worth zero with a warning.
func (c *DeviceFinancingCalculator) TradeInValue(line domain.DeviceLine) (decimal.Decimal, *domain.Warning) {
	model, ok := line.TradeModel()
	if !ok {
		return decimal.Zero, nil
	}
	value, err := c.tables.TradeInValue(model)
	if err != nil {
		return decimal.Zero, unknownReference(domain.WarnUnknownTradeIn, err, "no trade-in value")
	}
	return value, nil
}

// Finance prices one device. Credits are capped so the financed amount never goes
// below zero; device tax is always levied on the full retail price.
func (c *DeviceFinancingCalculator) Finance(model domain.ModelID, variant *string, tradeCredit, promoCredit decimal.Decimal, term int, deviceTaxRate decimal.Decimal) (DeviceCharge, *domain.Warning) {
	full, warning := c.RetailPrice(model, variant)
	full = full.Round(2)

	trade := decimal.Min(clampZero(tradeCredit), full).Round(2)
	promo := decimal.Min(clampZero(promoCredit), full.Sub(trade)).Round(2)
	financed := full.Sub(trade).Sub(promo)

	return DeviceCharge{
		Model:            model,
		FullRetailPrice:  full,
		TradeInCredit:    trade,
		PromotionCredit:  promo,
		FinancedAmount:   financed,
		MonthlyFinancing: Amortize(financed, term),
		UpfrontDeviceTax: DeviceTax(full, deviceTaxRate),
	}, warning
}

// Amortize spreads the financed amount evenly over the term
func Amortize(financed decimal.Decimal, term int) decimal.Decimal {
	if term <= 0 {
		return decimal.Zero
	}
	return clampZero(financed).Div(decimal.NewFromInt(int64(term))).Round(2)
}

// DeviceTax is the upfront tax on the pre-credit retail price
func DeviceTax(fullPrice, rate decimal.Decimal) decimal.Decimal {
	return clampZero(fullPrice).Mul(clampZero(rate)).Round(2)
}

func unknownReference(code domain.WarningCode, err error, fallback string) *domain.Warning {
	var refErr *domain.UnknownReferenceError
	if errors.As(err, &refErr) {
		w := domain.WarningFromReference(code, refErr, fallback)
		return &w
	}
	return &domain.Warning{Code: code, Message: err.Error()}
}
