package domain

import "github.com/shopspring/decimal"

// DefaultsPolicy centralizes every default the engine falls back on when an input
// or a reference is missing
type DefaultsPolicy struct {
	// AssumeEligibleWhenCarrierUnknown treats a new customer with no recorded carrier
	// as eligible for switcher credits
	AssumeEligibleWhenCarrierUnknown bool `yaml:"assume_eligible_when_carrier_unknown" json:"assumeEligibleWhenCarrierUnknown"`
	// DefaultJurisdiction is used when the configured jurisdiction is not in the tables
	DefaultJurisdiction JurisdictionID `yaml:"default_jurisdiction" json:"defaultJurisdiction"`
	// UnknownDevicePrice is the retail price used for models missing from the catalog
	UnknownDevicePrice decimal.Decimal `yaml:"unknown_device_price" json:"unknownDevicePrice"`
	// AssumeAutoPay applies when the configuration does not say
	AssumeAutoPay bool `yaml:"assume_autopay" json:"assumeAutoPay"`
}

// OptimisticDefaults mirrors how agents quote at the counter
func OptimisticDefaults() DefaultsPolicy {
	return DefaultsPolicy{
		AssumeEligibleWhenCarrierUnknown: true,
		DefaultJurisdiction:              "standard",
		UnknownDevicePrice:               decimal.Zero,
		AssumeAutoPay:                    true,
	}
}

// ConservativeDefaults never grants a credit or discount the customer has not confirmed
func ConservativeDefaults() DefaultsPolicy {
	return DefaultsPolicy{
		AssumeEligibleWhenCarrierUnknown: false,
		DefaultJurisdiction:              "standard",
		UnknownDevicePrice:               decimal.Zero,
		AssumeAutoPay:                    false,
	}
}

// PolicyByName resolves the policy names accepted on the command line and in settings
func PolicyByName(name string) (DefaultsPolicy, bool) {
	switch name {
	case "", "optimistic":
		return OptimisticDefaults(), true
	case "conservative":
		return ConservativeDefaults(), true
	default:
		return DefaultsPolicy{}, false
	}
}
