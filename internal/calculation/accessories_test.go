package calculation

import (
	"testing"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabletLineFees_SecondUnlimitedDiscount(t *testing.T) {
	calc := NewAccessoryLineCalculator(nil, domain.DefaultAccessoryRates())

	tests := []struct {
		name string
		data []domain.DataType
		want []string
	}{
		{"unlimited unlimited partial", []domain.DataType{domain.DataUnlimited, domain.DataUnlimited, domain.DataPartial}, []string{"20", "10", "10"}},
		{"partial first", []domain.DataType{domain.DataPartial, domain.DataUnlimited, domain.DataUnlimited}, []string{"10", "20", "10"}},
		{"third unlimited full price", []domain.DataType{domain.DataUnlimited, domain.DataUnlimited, domain.DataUnlimited}, []string{"20", "10", "20"}},
		{"single", []domain.DataType{domain.DataUnlimited}, []string{"20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tablets := make([]domain.TabletLine, len(tt.data))
			for i, dt := range tt.data {
				tablets[i] = domain.TabletLine{Device: domain.DeviceBYOD, DataType: dt}
			}
			fees := calc.TabletLineFees(tablets)
			require.Len(t, fees, len(tt.want))
			for i, want := range tt.want {
				assert.True(t, fees[i].Equal(dec(want)), "tablet %d: got %s want %s", i, fees[i], want)
			}
		})
	}
}

func TestAccessoryLineCalculator_Calculate(t *testing.T) {
	snap := catalog.DefaultSnapshot()
	devices := NewDeviceFinancingCalculator(snap, domain.OptimisticDefaults())
	calc := NewAccessoryLineCalculator(devices, snap.AccessoryRates())
	plan, err := snap.Plan("unlimited_plus")
	require.NoError(t, err)

	cfg := &domain.CustomerConfiguration{
		Lines:        1,
		SelectedPlan: "unlimited_plus",
		Devices:      bareLines(1),
		AccessoryLines: domain.AccessoryLines{
			Watches:      []domain.WatchLine{{Device: domain.DeviceNew, Model: domain.Model("watch_s10")}},
			Tablets:      []domain.TabletLine{{Device: domain.DeviceBYOD, DataType: domain.DataUnlimited}},
			HomeInternet: true,
		},
		FinancingTermMonths: 24,
	}

	charges := calc.Calculate(cfg, plan, dec("0.0625"), false, 1)
	require.Len(t, charges.Rows, 3)
	assert.Empty(t, charges.Warnings)

	watch := charges.Rows[0]
	assert.Equal(t, 1, watch.Index)
	assert.Equal(t, "Watch 1", watch.Label)
	assert.True(t, watch.MonthlyLineFee.Equal(dec("5")), "bundled accessory promo rate")
	assert.True(t, watch.MonthlyFinancing.Equal(dec("16.63")))
	assert.True(t, watch.UpfrontDeviceTax.Equal(dec("24.94")))

	assert.Equal(t, "Tablet 1 (unlimited)", charges.Rows[1].Label)
	assert.Equal(t, domain.LineHomeInternet, charges.Rows[2].Kind)
	assert.False(t, charges.HomeInternetWaived, "one line does not qualify for the plan waiver")

	assert.True(t, charges.LineFees.Equal(dec("85")))
	assert.True(t, charges.Monthly().Equal(dec("101.63")))
	assert.Equal(t, 3, charges.Connections)

	// a promotion waiver zeroes the fee but keeps the connection
	waived := calc.Calculate(cfg, plan, dec("0.0625"), true, 1)
	assert.True(t, waived.HomeInternetWaived)
	assert.True(t, waived.LineFees.Equal(dec("25")))
	assert.Equal(t, 3, waived.Connections)
}

func TestHomeInternetIncluded(t *testing.T) {
	eligible := domain.Plan{PromotionalEligible: true}
	assert.True(t, HomeInternetIncluded(2, eligible))
	assert.False(t, HomeInternetIncluded(1, eligible))
	assert.False(t, HomeInternetIncluded(4, domain.Plan{}))
}
