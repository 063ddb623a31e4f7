package calculation

import (
	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// PlanPricingResolver turns a plan and line count into a total monthly price
type PlanPricingResolver struct {
	tables *catalog.Snapshot
}

// NewPlanPricingResolver creates a resolver over one snapshot
func NewPlanPricingResolver(tables *catalog.Snapshot) *PlanPricingResolver {
	return &PlanPricingResolver{tables: tables}
}

// Resolve prices lineCount lines of the plan. The price tables hold TOTAL prices,
// so the result is a lookup, not a per-line multiply.
func (r *PlanPricingResolver) Resolve(planID domain.PlanID, lineCount int, category domain.QualificationCategory, useAutoPay bool) (domain.PlanPrice, error) {
	plan, err := r.tables.Plan(planID)
	if err != nil {
		return domain.PlanPrice{}, err
	}
	return PricePlan(plan, lineCount, category, useAutoPay), nil
}

// PricePlan prices an already resolved plan
func PricePlan(plan domain.Plan, lineCount int, category domain.QualificationCategory, useAutoPay bool) domain.PlanPrice {
	if lineCount < 1 {
		lineCount = 1
	}

	base := TotalForLines(plan.PricingTable(category), lineCount)
	price := domain.PlanPrice{
		PlanID:         plan.ID,
		LineCount:      lineCount,
		BaseMonthly:    base,
		WithAutoPay:    base,
		AutoPayApplied: useAutoPay,
	}

	if useAutoPay {
		discount := plan.AutopayDiscountPerLine.Mul(decimal.NewFromInt(int64(lineCount)))
		price.WithAutoPay = clampZero(base.Sub(discount)).Round(2)
		price.AutopayDiscountTotal = base.Sub(price.WithAutoPay)
	}
	return price
}

// TotalForLines looks up the total price for lineCount lines. Counts past the largest
// tier add the last tier's per-line rate for each extra line; counts below the
// smallest tier use that tier's per-line rate; gaps between tiers are interpolated.
func TotalForLines(table map[int]decimal.Decimal, lineCount int) decimal.Decimal {
	if len(table) == 0 || lineCount < 1 {
		return decimal.Zero
	}
	if total, ok := table[lineCount]; ok {
		return clampZero(total).Round(2)
	}

	keys := domain.SortedTierKeys(table)
	first, last := keys[0], keys[len(keys)-1]

	var total decimal.Decimal
	switch {
	case lineCount > last:
		total = table[last].Add(lastTierRate(table, keys).Mul(decimal.NewFromInt(int64(lineCount - last))))
	case lineCount < first:
		rate := table[first].Div(decimal.NewFromInt(int64(first)))
		total = rate.Mul(decimal.NewFromInt(int64(lineCount)))
	default:
		lo, hi := first, last
		for _, k := range keys {
			if k < lineCount {
				lo = k
			} else {
				hi = k
				break
			}
		}
		step := table[hi].Sub(table[lo]).Div(decimal.NewFromInt(int64(hi - lo)))
		total = table[lo].Add(step.Mul(decimal.NewFromInt(int64(lineCount - lo))))
	}
	return clampZero(total).Round(2)
}

// lastTierRate is the per-line increment of the top tier
func lastTierRate(table map[int]decimal.Decimal, keys []int) decimal.Decimal {
	last := keys[len(keys)-1]
	if len(keys) == 1 {
		return table[last].Div(decimal.NewFromInt(int64(last)))
	}
	prev := keys[len(keys)-2]
	return table[last].Sub(table[prev]).Div(decimal.NewFromInt(int64(last - prev)))
}

// PerLineShares splits a monthly amount across lines in cents. Shares are truncated
// and the last line takes the remainder, so they sum to the total and none is negative.
func PerLineShares(total decimal.Decimal, lines int) []decimal.Decimal {
	if lines < 1 {
		return nil
	}
	shares := make([]decimal.Decimal, lines)
	share := total.Div(decimal.NewFromInt(int64(lines))).Truncate(2)
	allocated := decimal.Zero
	for i := 0; i < lines-1; i++ {
		shares[i] = share
		allocated = allocated.Add(share)
	}
	shares[lines-1] = total.Sub(allocated)
	return shares
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
