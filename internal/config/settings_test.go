package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	settings, err := NewInputParser().LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)

	policy, err := settings.Policy()
	require.NoError(t, err)
	assert.Equal(t, domain.OptimisticDefaults(), policy)
}

func TestLoadSettings_File(t *testing.T) {
	path := writeFile(t, "dealopt.yaml", `
logging:
  level: debug
defaults_policy: conservative
policy_overrides:
  assume_autopay: true
  unknown_device_price: 499.99
  default_jurisdiction: tx_austin
tables: tables.yaml
watch_tables: true
`)

	settings, err := NewInputParser().LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.Logging.Level)
	assert.Equal(t, "console", settings.Logging.Format, "unset keys keep their defaults")
	assert.Equal(t, "tables.yaml", settings.Tables)
	assert.True(t, settings.WatchTables)

	policy, err := settings.Policy()
	require.NoError(t, err)
	assert.True(t, policy.AssumeAutoPay)
	assert.False(t, policy.AssumeEligibleWhenCarrierUnknown)
	assert.Equal(t, "499.99", policy.UnknownDevicePrice.String())
	assert.Equal(t, domain.JurisdictionID("tx_austin"), policy.DefaultJurisdiction)
}

func TestLoadSettings_Errors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read settings")

	_, err = parser.LoadSettings(writeFile(t, "bad.yaml", "defaults_policy: reckless\n"))
	assert.ErrorContains(t, err, "unknown defaults policy")

	_, err = parser.LoadSettings(writeFile(t, "neg.yaml", "policy_overrides:\n  unknown_device_price: -5\n"))
	assert.ErrorContains(t, err, "cannot be negative")

	_, err = parser.LoadSettings(writeFile(t, "typo.yaml", "defaults_polcy: optimistic\n"))
	assert.ErrorContains(t, err, "failed to parse settings")
}
