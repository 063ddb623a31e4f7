package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PlanID identifies a rate plan in the reference tables
type PlanID string

// ModelID identifies a device model (phone, watch or tablet)
type ModelID string

// JurisdictionID identifies a tax jurisdiction
type JurisdictionID string

// PromotionID identifies a promotion definition
type PromotionID string

// NoTrade is the trade-in sentinel meaning the customer keeps the old device
const NoTrade ModelID = "no_trade"

// QualificationCategory selects discounted plan pricing tables
type QualificationCategory string

const (
	QualificationStandard       QualificationCategory = "standard"
	QualificationMilitary       QualificationCategory = "military"
	QualificationFirstResponder QualificationCategory = "first_responder"
	QualificationSenior55       QualificationCategory = "senior55"
	QualificationBusiness       QualificationCategory = "business"
)

// CustomerConfiguration is one snapshot of what the intake wizard collected for a quote.
// The engine treats it as read-only.
type CustomerConfiguration struct {
	Lines                 int                   `yaml:"lines" json:"lines" validate:"gt=0"`
	IsExistingCustomer    bool                  `yaml:"is_existing_customer" json:"isExistingCustomer"`
	Carrier               *string               `yaml:"carrier,omitempty" json:"carrier,omitempty"`
	SelectedPlan          PlanID                `yaml:"selected_plan" json:"selectedPlan" validate:"required"`
	QualificationCategory QualificationCategory `yaml:"qualification_category" json:"qualificationCategory" validate:"omitempty,oneof=standard military first_responder senior55 business"`
	Devices               []DeviceLine          `yaml:"devices" json:"devices" validate:"dive"`
	AccessoryLines        AccessoryLines        `yaml:"accessory_lines" json:"accessoryLines"`
	FinancingTermMonths   int                   `yaml:"financing_term_months" json:"financingTermMonths" validate:"oneof=24 36"`
	TaxJurisdiction       JurisdictionID        `yaml:"tax_jurisdiction" json:"taxJurisdiction"`

	// AutoPay overrides DefaultsPolicy.AssumeAutoPay when set
	AutoPay *bool `yaml:"autopay,omitempty" json:"autoPay,omitempty"`
}

// DeviceLine describes the phone choices for one line
type DeviceLine struct {
	NewDeviceModel     *ModelID         `yaml:"new_device_model,omitempty" json:"newDeviceModel,omitempty"`
	StorageVariant     *string          `yaml:"storage_variant,omitempty" json:"storageVariant,omitempty"`
	TradeInDeviceModel *ModelID         `yaml:"trade_in_device_model,omitempty" json:"tradeInDeviceModel,omitempty"`
	InsuranceElected   bool             `yaml:"insurance_elected" json:"insuranceElected"`
	PayoffBalance      *decimal.Decimal `yaml:"payoff_balance,omitempty" json:"payoffBalance,omitempty"`
}

// HasNewDevice reports whether the line purchases a new device
func (d DeviceLine) HasNewDevice() bool {
	return d.NewDeviceModel != nil && *d.NewDeviceModel != ""
}

// TradeModel returns the trade-in model and whether the line trades anything in
func (d DeviceLine) TradeModel() (ModelID, bool) {
	if d.TradeInDeviceModel == nil || *d.TradeInDeviceModel == "" || *d.TradeInDeviceModel == NoTrade {
		return "", false
	}
	return *d.TradeInDeviceModel, true
}

// AccessoryLines groups the non-phone lines on the account
type AccessoryLines struct {
	Watches      []WatchLine  `yaml:"watches,omitempty" json:"watches,omitempty" validate:"dive"`
	Tablets      []TabletLine `yaml:"tablets,omitempty" json:"tablets,omitempty" validate:"dive"`
	HomeInternet bool         `yaml:"home_internet" json:"homeInternet"`
}

// Count returns the number of accessory connections (home internet counts as one)
func (a AccessoryLines) Count() int {
	n := len(a.Watches) + len(a.Tablets)
	if a.HomeInternet {
		n++
	}
	return n
}

// DeviceChoice distinguishes a financed new accessory from bring-your-own
type DeviceChoice string

const (
	DeviceNew  DeviceChoice = "new"
	DeviceBYOD DeviceChoice = "byod"
)

// DataType is the data allowance of a tablet line
type DataType string

const (
	DataUnlimited DataType = "unlimited"
	DataPartial   DataType = "partial"
)

// WatchLine is a connected watch line
type WatchLine struct {
	Device DeviceChoice `yaml:"device" json:"device" validate:"oneof=new byod"`
	Model  *ModelID     `yaml:"model,omitempty" json:"model,omitempty" validate:"required_if=Device new"`
}

// TabletLine is a connected tablet line
type TabletLine struct {
	Device   DeviceChoice `yaml:"device" json:"device" validate:"oneof=new byod"`
	Model    *ModelID     `yaml:"model,omitempty" json:"model,omitempty" validate:"required_if=Device new"`
	DataType DataType     `yaml:"data_type" json:"dataType" validate:"oneof=unlimited partial"`
}

// Category returns the qualification category, treating empty as standard
func (c *CustomerConfiguration) Category() QualificationCategory {
	if c.QualificationCategory == "" {
		return QualificationStandard
	}
	return c.QualificationCategory
}

// CarrierName returns the normalized previous carrier and whether one is known
func (c *CustomerConfiguration) CarrierName() (string, bool) {
	if c.Carrier == nil {
		return "", false
	}
	name := strings.TrimSpace(*c.Carrier)
	if name == "" {
		return "", false
	}
	return name, true
}

// UsesAutoPay resolves the autopay election against the policy default
func (c *CustomerConfiguration) UsesAutoPay(policy DefaultsPolicy) bool {
	if c.AutoPay != nil {
		return *c.AutoPay
	}
	return policy.AssumeAutoPay
}

// DeepCopy creates a deep copy of the configuration
func (c *CustomerConfiguration) DeepCopy() *CustomerConfiguration {
	if c == nil {
		return nil
	}

	copied := *c
	copied.Carrier = copyString(c.Carrier)
	copied.AutoPay = copyBool(c.AutoPay)

	if c.Devices != nil {
		copied.Devices = make([]DeviceLine, len(c.Devices))
		for i, d := range c.Devices {
			copied.Devices[i] = d.DeepCopy()
		}
	}

	if c.AccessoryLines.Watches != nil {
		copied.AccessoryLines.Watches = make([]WatchLine, len(c.AccessoryLines.Watches))
		for i, w := range c.AccessoryLines.Watches {
			copied.AccessoryLines.Watches[i] = WatchLine{Device: w.Device, Model: copyModel(w.Model)}
		}
	}
	if c.AccessoryLines.Tablets != nil {
		copied.AccessoryLines.Tablets = make([]TabletLine, len(c.AccessoryLines.Tablets))
		for i, t := range c.AccessoryLines.Tablets {
			copied.AccessoryLines.Tablets[i] = TabletLine{Device: t.Device, Model: copyModel(t.Model), DataType: t.DataType}
		}
	}

	return &copied
}

// DeepCopy creates a deep copy of the device line
func (d DeviceLine) DeepCopy() DeviceLine {
	out := DeviceLine{
		NewDeviceModel:     copyModel(d.NewDeviceModel),
		StorageVariant:     copyString(d.StorageVariant),
		TradeInDeviceModel: copyModel(d.TradeInDeviceModel),
		InsuranceElected:   d.InsuranceElected,
	}
	if d.PayoffBalance != nil {
		v := *d.PayoffBalance
		out.PayoffBalance = &v
	}
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func copyModel(m *ModelID) *ModelID {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}

// Model returns a pointer to the model id, convenient for literals
func Model(id string) *ModelID {
	m := ModelID(id)
	return &m
}

// String returns a pointer to s
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b
func Bool(b bool) *bool {
	return &b
}
