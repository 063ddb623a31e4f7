package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/logging"
	"github.com/shopspring/decimal"
)

// DefaultSettingsFile is looked up in the working directory when no path is given
const DefaultSettingsFile = "dealopt.yaml"

// Settings is the application settings file
type Settings struct {
	Logging logging.Config `yaml:"logging"`

	// DefaultsPolicy names the base policy: optimistic or conservative
	DefaultsPolicy string `yaml:"defaults_policy"`

	// PolicyOverrides adjusts individual fields of the named policy
	PolicyOverrides PolicyOverrides `yaml:"policy_overrides"`

	// Tables is the reference table file; empty uses the built-in demo tables
	Tables string `yaml:"tables"`

	// WatchTables reloads the table file when it changes (viewer only)
	WatchTables bool `yaml:"watch_tables"`
}

// PolicyOverrides holds optional replacements for DefaultsPolicy fields
type PolicyOverrides struct {
	AssumeEligibleWhenCarrierUnknown *bool                  `yaml:"assume_eligible_when_carrier_unknown"`
	DefaultJurisdiction              *domain.JurisdictionID `yaml:"default_jurisdiction"`
	UnknownDevicePrice               *decimal.Decimal       `yaml:"unknown_device_price"`
	AssumeAutoPay                    *bool                  `yaml:"assume_autopay"`
}

// DefaultSettings is what the tools run with when no settings file exists
func DefaultSettings() Settings {
	return Settings{
		Logging:        logging.DefaultConfig(),
		DefaultsPolicy: "optimistic",
	}
}

// LoadSettings reads the settings file. An empty path tries DefaultSettingsFile and
// falls back to DefaultSettings when it does not exist; an explicit path must exist.
func (ip *InputParser) LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	if err := ip.decode(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if _, err := settings.Policy(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Policy resolves the named policy and applies the overrides
func (s Settings) Policy() (domain.DefaultsPolicy, error) {
	policy, ok := domain.PolicyByName(s.DefaultsPolicy)
	if !ok {
		return domain.DefaultsPolicy{}, fmt.Errorf("unknown defaults policy %q (expected optimistic or conservative)", s.DefaultsPolicy)
	}
	return s.PolicyOverrides.Apply(policy)
}

// Apply returns policy with every set override replacing its field
func (o PolicyOverrides) Apply(policy domain.DefaultsPolicy) (domain.DefaultsPolicy, error) {
	if o.AssumeEligibleWhenCarrierUnknown != nil {
		policy.AssumeEligibleWhenCarrierUnknown = *o.AssumeEligibleWhenCarrierUnknown
	}
	if o.DefaultJurisdiction != nil {
		policy.DefaultJurisdiction = *o.DefaultJurisdiction
	}
	if o.UnknownDevicePrice != nil {
		if o.UnknownDevicePrice.IsNegative() {
			return policy, fmt.Errorf("unknown_device_price cannot be negative")
		}
		policy.UnknownDevicePrice = *o.UnknownDevicePrice
	}
	if o.AssumeAutoPay != nil {
		policy.AssumeAutoPay = *o.AssumeAutoPay
	}
	return policy, nil
}
