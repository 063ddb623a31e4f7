package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerYAML = `
lines: 2
is_existing_customer: false
carrier: Verizon
selected_plan: unlimited_plus
devices:
  - new_device_model: iphone_16
    trade_in_device_model: iphone_13
    insurance_elected: true
  - trade_in_device_model: no_trade
financing_term_months: 24
tax_jurisdiction: standard
autopay: false
`

const settingsYAML = `
logging:
  level: error
  format: console
  output: stderr
defaults_policy: optimistic
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// resetFlags puts every flag back to its default; rootCmd is shared between tests
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	settings := writeFile(t, "settings.yaml", settingsYAML)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--settings", settings))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "dealopt", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommand_Help(t *testing.T) {
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--help"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "quote")
	assert.Contains(t, buf.String(), "whatif")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"quote", "validate", "whatif", "transforms", "tables", "breakeven", "version"}

	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %s should be registered", name)
	}
}

func TestQuoteCommand(t *testing.T) {
	customer := writeFile(t, "customer.yaml", customerYAML)

	out, err := execute(t, "quote", customer)
	require.NoError(t, err)
	assert.Contains(t, out, "WIRELESS DEAL QUOTE")
	assert.Contains(t, out, "2026.10-demo")
}

func TestQuoteCommand_JSON(t *testing.T) {
	customer := writeFile(t, "customer.yaml", customerYAML)

	out, err := execute(t, "quote", customer, "--format", "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "2026.10-demo", decoded["tablesVersion"])
	assert.NotEmpty(t, decoded["scenarios"])
}

func TestQuoteCommand_OutputDir(t *testing.T) {
	customer := writeFile(t, "customer.yaml", customerYAML)
	dir := t.TempDir()

	out, err := execute(t, "quote", customer, "--format", "csv", "--output-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Quote written to")

	files, err := filepath.Glob(filepath.Join(dir, "quote_*.csv"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestQuoteCommand_Errors(t *testing.T) {
	customer := writeFile(t, "customer.yaml", customerYAML)

	_, err := execute(t, "quote", customer, "--format", "pdf")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "quote", customer, "--policy", "reckless")
	assert.ErrorContains(t, err, "unknown defaults policy")

	_, err = execute(t, "quote", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read file")

	invalid := writeFile(t, "invalid.yaml", "lines: 0\nselected_plan: unlimited_plus\nfinancing_term_months: 24\n")
	_, err = execute(t, "quote", invalid)
	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestValidateCommand(t *testing.T) {
	customer := writeFile(t, "customer.yaml", customerYAML)

	out, err := execute(t, "validate", customer)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "Lines: 2, plan: unlimited_plus, term: 24 months")
}

func TestTablesShowCommand(t *testing.T) {
	out, err := execute(t, "tables", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "built-in demo tables")
	assert.Contains(t, out, "unlimited_plus")

	out, err = execute(t, "tables", "show", "--json")
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, float64(3), summary["plans"])
}

func TestTablesValidateCommand(t *testing.T) {
	out, err := execute(t, "tables", "validate", filepath.Join("..", "..", "examples", "tables.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "are valid")
	assert.Contains(t, out, "Version: 2026.10-example")

	_, err = execute(t, "tables", "validate", writeFile(t, "tables.yaml", "trade_in_values:\n  iphone_12: -1\n"))
	assert.ErrorContains(t, err, "trade_in_values")
}

func TestQuoteCommand_ExampleFiles(t *testing.T) {
	out, err := execute(t, "quote", filepath.Join("..", "..", "examples", "customer.yaml"),
		"--tables", filepath.Join("..", "..", "examples", "tables.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "2026.10-example")
}

func TestWhatIfCommand(t *testing.T) {
	customer := writeFile(t, "customer.yaml", customerYAML)

	out, err := execute(t, "whatif", customer, "--with", "autopay_on,term_36")
	require.NoError(t, err)
	assert.Contains(t, out, "WHAT-IF QUOTE COMPARISON")
	assert.Contains(t, out, "autopay_on")
	assert.Contains(t, out, "term_36")

	out, err = execute(t, "whatif", customer, "--edit", "set_autopay:enabled=true+set_insurance:line=all,elected=false", "--format", "json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "current", decoded["baseName"])
}

func TestWhatIfCommand_Errors(t *testing.T) {
	customer := writeFile(t, "customer.yaml", customerYAML)

	_, err := execute(t, "whatif", customer)
	assert.ErrorContains(t, err, "nothing to compare")

	_, err = execute(t, "whatif", customer, "--with", "no_such_template")
	assert.ErrorContains(t, err, "template no_such_template not found")

	_, err = execute(t, "whatif", customer, "--edit", "bogus:x=1")
	assert.ErrorContains(t, err, "invalid edit")

	_, err = execute(t, "whatif", "--with", "autopay_on")
	assert.ErrorContains(t, err, "customer configuration file is required")
}

func TestWhatIfCommand_ListTemplates(t *testing.T) {
	out, err := execute(t, "whatif", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, out, "lowest_monthly")
}

func TestTransformsCommand(t *testing.T) {
	out, err := execute(t, "transforms")
	require.NoError(t, err)
	assert.Contains(t, out, "set_autopay")
	assert.Contains(t, out, "insure_all")
}

func TestBreakevenCommand(t *testing.T) {
	customer := writeFile(t, "customer.yaml", customerYAML)

	out, err := execute(t, "breakeven", customer)
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN AGAINST THE BEST SCENARIO")

	out, err = execute(t, "breakeven", customer, "--format", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	out, err = execute(t, "breakeven", customer, "--payoff-line", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN PAYOFF")
	assert.Contains(t, out, "Keep & Switch")
}

func TestBreakevenCommand_Errors(t *testing.T) {
	customer := writeFile(t, "customer.yaml", customerYAML)

	_, err := execute(t, "breakeven", customer, "--payoff-line", "5")
	assert.ErrorContains(t, err, "line is out of range")

	_, err = execute(t, "breakeven", customer, "--max-payoff", "lots", "--payoff-line", "1")
	assert.ErrorContains(t, err, "invalid --max-payoff")

	_, err = execute(t, "breakeven", customer, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dealopt dev")
}
