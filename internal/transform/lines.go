package transform

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// SetNewDevice puts a new device on a line, or removes it when Model is empty.
// Lines are numbered from 1.
type SetNewDevice struct {
	Line    int
	Model   domain.ModelID
	Variant string
}

func (t *SetNewDevice) Name() string { return "set_device" }

func (t *SetNewDevice) Description() string {
	if t.Model == "" {
		return fmt.Sprintf("Keep the current phone on %s", lineLabel(t.Line))
	}
	if t.Variant != "" {
		return fmt.Sprintf("New %s %s on %s", t.Model, t.Variant, lineLabel(t.Line))
	}
	return fmt.Sprintf("New %s on %s", t.Model, lineLabel(t.Line))
}

func (t *SetNewDevice) Validate(base *domain.CustomerConfiguration) error {
	return checkLine(t.Name(), base, t.Line, false)
}

func (t *SetNewDevice) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	line := &modified.Devices[t.Line-1]
	line.NewDeviceModel = nil
	line.StorageVariant = nil
	if t.Model != "" {
		line.NewDeviceModel = domain.Model(string(t.Model))
		if t.Variant != "" {
			line.StorageVariant = domain.String(t.Variant)
		}
	}
	return modified, nil
}

// SetTradeIn sets the device traded in on a line. An empty model or no_trade
// keeps the old device.
type SetTradeIn struct {
	Line  int
	Model domain.ModelID
}

func (t *SetTradeIn) Name() string { return "set_trade_in" }

func (t *SetTradeIn) Description() string {
	if t.Model == "" || t.Model == domain.NoTrade {
		return fmt.Sprintf("No trade-in on %s", lineLabel(t.Line))
	}
	return fmt.Sprintf("Trade in %s on %s", t.Model, lineLabel(t.Line))
}

func (t *SetTradeIn) Validate(base *domain.CustomerConfiguration) error {
	return checkLine(t.Name(), base, t.Line, false)
}

func (t *SetTradeIn) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	model := t.Model
	if model == "" {
		model = domain.NoTrade
	}
	modified.Devices[t.Line-1].TradeInDeviceModel = domain.Model(string(model))
	return modified, nil
}

// SetInsurance elects or declines device protection. Line 0 means every line.
type SetInsurance struct {
	Line    int
	Elected bool
}

func (t *SetInsurance) Name() string { return "set_insurance" }

func (t *SetInsurance) Description() string {
	if t.Elected {
		return fmt.Sprintf("Add protection on %s", lineLabel(t.Line))
	}
	return fmt.Sprintf("Remove protection on %s", lineLabel(t.Line))
}

func (t *SetInsurance) Validate(base *domain.CustomerConfiguration) error {
	return checkLine(t.Name(), base, t.Line, true)
}

func (t *SetInsurance) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	eachLine(modified, t.Line, func(d *domain.DeviceLine) {
		d.InsuranceElected = t.Elected
	})
	return modified, nil
}

// SetPayoff records the prior carrier balance on a line; a nil amount clears it
type SetPayoff struct {
	Line   int
	Amount *decimal.Decimal
}

func (t *SetPayoff) Name() string { return "set_payoff" }

func (t *SetPayoff) Description() string {
	if t.Amount == nil {
		return fmt.Sprintf("Payoff unknown on %s", lineLabel(t.Line))
	}
	return fmt.Sprintf("Payoff $%s on %s", t.Amount.StringFixed(2), lineLabel(t.Line))
}

func (t *SetPayoff) Validate(base *domain.CustomerConfiguration) error {
	if err := checkLine(t.Name(), base, t.Line, false); err != nil {
		return err
	}
	if t.Amount != nil && t.Amount.IsNegative() {
		return NewTransformError(t.Name(), "validate", "payoff cannot be negative", nil)
	}
	return nil
}

func (t *SetPayoff) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	modified.Devices[t.Line-1].PayoffBalance = nil
	if t.Amount != nil {
		v := *t.Amount
		modified.Devices[t.Line-1].PayoffBalance = &v
	}
	return modified, nil
}

// AddLine appends a phone line, optionally with a new device
type AddLine struct {
	Model domain.ModelID
}

func (t *AddLine) Name() string { return "add_line" }

func (t *AddLine) Description() string {
	if t.Model == "" {
		return "Add a line (own phone)"
	}
	return fmt.Sprintf("Add a line with a new %s", t.Model)
}

func (t *AddLine) Validate(base *domain.CustomerConfiguration) error {
	return requireBase(t.Name(), base)
}

func (t *AddLine) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	line := domain.DeviceLine{}
	if t.Model != "" {
		line.NewDeviceModel = domain.Model(string(t.Model))
	}
	modified.Devices = append(modified.Devices, line)
	modified.Lines = len(modified.Devices)
	return modified, nil
}
