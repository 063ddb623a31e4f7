package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareEngine_Templates(t *testing.T) {
	quoter := &fakeQuoter{}
	engine := NewCompareEngine(quoter)
	base := twoLineConfig()

	compSet, err := engine.Compare(base, CompareOptions{Templates: []string{"autopay_on", "term_36", "no_insurance"}})
	require.NoError(t, err)
	assert.Equal(t, 4, quoter.calls)

	assert.Equal(t, "current", compSet.BaseName)
	assert.Equal(t, "fake-1", compSet.TablesVersion)
	require.NotNil(t, compSet.BaseResult)
	assert.Equal(t, "3720.00", compSet.BaseResult.TotalCost.StringFixed(2))

	require.Len(t, compSet.AlternativeResults, 3)
	autopay := compSet.AlternativeResults[0]
	assert.Equal(t, "autopay_on", autopay.Name)
	assert.Equal(t, "-480.00", autopay.TotalDiffFromBase.StringFixed(2))
	assert.Equal(t, "-12.90", autopay.TotalPctFromBase.StringFixed(2))

	term := compSet.AlternativeResults[1]
	assert.Equal(t, "5280.00", term.TotalCost.StringFixed(2))
	assert.True(t, term.MonthlyDiffFromBase.IsZero())

	noIns := compSet.AlternativeResults[2]
	assert.Equal(t, "-720.00", noIns.TotalDiffFromBase.StringFixed(2))

	assert.Equal(t, []string{
		"Lowest Total: no_insurance saves $720.00 over the term versus current",
		"Lowest Monthly: no_insurance lowers the bill by $30.00/mo",
	}, compSet.Recommendations)

	// the base configuration is never edited
	assert.Equal(t, twoLineConfig(), base)
}

func TestCompareEngine_Edits(t *testing.T) {
	engine := NewCompareEngine(&fakeQuoter{})

	compSet, err := engine.Compare(twoLineConfig(), CompareOptions{
		BaseName: "as entered",
		Edits:    []string{"set_autopay:enabled=true+set_insurance:line=all,elected=false", "set_carrier:"},
	})
	require.NoError(t, err)
	assert.Equal(t, "as entered", compSet.BaseName)
	require.Len(t, compSet.AlternativeResults, 2)

	both := compSet.AlternativeResults[0]
	assert.Equal(t, "Enroll in AutoPay; Remove protection on every line", both.Description)
	assert.Equal(t, "2520.00", both.TotalCost.StringFixed(2))

	carrier := compSet.AlternativeResults[1]
	assert.Equal(t, 1, carrier.WarningCount)
	assert.Contains(t, compSet.Recommendations[len(compSet.Recommendations)-1], "set_carrier: relies on 1 assumption(s)")
}

func TestCompareEngine_Errors(t *testing.T) {
	engine := NewCompareEngine(&fakeQuoter{})

	_, err := engine.Compare(twoLineConfig(), CompareOptions{Templates: []string{"postpone_1yr"}})
	assert.ErrorContains(t, err, "template postpone_1yr not found")

	_, err = engine.Compare(twoLineConfig(), CompareOptions{Edits: []string{"set_lines:lines=many"}})
	assert.ErrorContains(t, err, "invalid edit")

	_, err = engine.Compare(twoLineConfig(), CompareOptions{Edits: []string{"set_device:line=9,model=pixel_9"}})
	assert.ErrorContains(t, err, "failed to apply")

	_, err = engine.Compare(nil, CompareOptions{})
	assert.Error(t, err)

	failing := NewCompareEngine(&fakeQuoter{fail: map[int]bool{1: true}})
	_, err = failing.Compare(twoLineConfig(), CompareOptions{})
	assert.ErrorContains(t, err, "failed to quote base configuration")

	failing = NewCompareEngine(&fakeQuoter{fail: map[int]bool{2: true}})
	_, err = failing.Compare(twoLineConfig(), CompareOptions{Templates: []string{"term_36"}})
	assert.ErrorContains(t, err, "failed to quote term_36")
}
