package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComparison() *ComparisonSet {
	return &ComparisonSet{
		BaseName:      "current",
		ConfigPath:    "/path/to/customer.yaml",
		TablesVersion: "2026.10-demo",
		BaseResult: &ComparisonResult{
			Name:         "current",
			BestScenario: domain.ScenarioTradeInAll,
			MonthlyTotal: dec("130"),
			UpfrontTotal: dec("600"),
			TotalCost:    dec("3720"),
		},
		AlternativeResults: []ComparisonResult{
			{
				Name:                "autopay_on",
				Description:         "Enroll every line in AutoPay",
				BestScenario:        domain.ScenarioKeepAndSwitch,
				MonthlyTotal:        dec("110"),
				UpfrontTotal:        dec("600"),
				TotalCost:           dec("3240"),
				TotalDiffFromBase:   dec("-480"),
				TotalPctFromBase:    dec("-12.90"),
				MonthlyDiffFromBase: dec("-20"),
			},
		},
		Recommendations: []string{"Lowest Total: autopay_on saves $480.00 over the term versus current"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleComparison())

	assert.Contains(t, out, "WHAT-IF QUOTE COMPARISON")
	assert.Contains(t, out, "Base: current")
	assert.Contains(t, out, "Configuration: /path/to/customer.yaml")
	assert.Contains(t, out, "Tables: 2026.10-demo")
	assert.Contains(t, out, "current (base)")
	assert.Contains(t, out, "keep-and-switch")
	assert.Contains(t, out, "$3240.00")
	assert.Contains(t, out, "Total Cost:    -$480.00 (saves) (-12.9%)")
	assert.Contains(t, out, "Monthly:       -$20.00 (saves)")
	assert.NotContains(t, out, "Upfront:       ")
	assert.Contains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	compSet := sampleComparison()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil
	compSet.ConfigPath = ""

	out := (&TableFormatter{}).Format(compSet)
	assert.Contains(t, out, "current (base)")
	assert.NotContains(t, out, "COMPARISON TO BASE")
	assert.NotContains(t, out, "RECOMMENDATIONS")
	assert.NotContains(t, out, "Configuration:")
}

func TestTableFormatter_formatDelta(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "+$12.50", tf.formatDelta(dec("12.5")))
	assert.Equal(t, "-$3.00 (saves)", tf.formatDelta(dec("-3")))
	assert.Equal(t, "no change", tf.formatDelta(dec("0")))
	assert.Equal(t, "abcdefg...", tf.truncate("abcdefghijklmnop", 10))
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	compSet := sampleComparison()
	compSet.AlternativeResults = append(compSet.AlternativeResults,
		ComparisonResult{Name: "term_36", TotalDiffFromBase: dec("1560")},
		ComparisonResult{Name: "same"},
	)

	out := (&TableFormatter{}).FormatCompact(compSet)
	assert.Equal(t, "Base: current $3720.00 | autopay_on: -$480.00 | term_36: +$1560.00 | same: =", out)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleComparison())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Alternative", records[0][0])
	assert.Equal(t, []string{"current", "base"}, records[1][:2])
	assert.Equal(t, "autopay_on", records[2][0])
	assert.Equal(t, "3240.00", records[2][6])
	assert.Equal(t, "-480.00", records[2][9])
	for _, r := range records {
		assert.Len(t, r, len(records[0]))
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := (&JSONFormatter{Pretty: true}).Format(sampleComparison())
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"baseName\": \"current\"")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "alternativeResults")
	assert.Contains(t, decoded, "recommendations")

	alt := decoded["alternativeResults"].([]any)[0].(map[string]any)
	assert.Equal(t, "3240", alt["totalCost"])
	assert.NotContains(t, alt, "Quote")
}

func TestJSONFormatter_Format_EmptyLists(t *testing.T) {
	compSet := sampleComparison()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil

	out, err := (&JSONFormatter{}).Format(compSet)
	require.NoError(t, err)
	assert.Contains(t, out, `"alternativeResults":[]`)
	assert.Contains(t, out, `"recommendations":[]`)
	assert.Nil(t, compSet.Recommendations)
}
