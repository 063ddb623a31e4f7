package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/dealopt/internal/compare"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/transform"
)

// Solver answers break-even questions about a quote
type Solver struct {
	Quoter  compare.Quoter
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(quoter compare.Quoter, options SolverOptions) *Solver {
	return &Solver{
		Quoter:  quoter,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(quoter compare.Quoter) *Solver {
	return NewSolver(quoter, DefaultSolverOptions())
}

// cumulative is what the customer has paid by the end of month m
func cumulative(s domain.Scenario, m int) decimal.Decimal {
	return s.UpfrontTotal.Sub(s.Reimbursements).Add(s.MonthlyTotal.Mul(decimal.NewFromInt(int64(m - 1))))
}

// FindCrossover reports the first month at which from has cost no more than to
// in total. Months past the financing term are extrapolated.
func FindCrossover(from, to domain.Scenario) Crossover {
	c := Crossover{
		From:        from.Type,
		To:          to.Type,
		FromCost:    from.TotalCost,
		ToCost:      to.TotalCost,
		MonthlyDiff: from.MonthlyTotal.Sub(to.MonthlyTotal),
	}

	term := max(from.FinancingTermMonths, to.FinancingTermMonths, 1)
	for m := 1; m <= term; m++ {
		if cumulative(from, m).LessThanOrEqual(cumulative(to, m)) {
			c.Month = m
			return c
		}
	}

	// still behind at the end of the term: it only catches up if it is cheaper per month
	if !c.MonthlyDiff.IsNegative() {
		c.Never = true
		return c
	}
	gap := cumulative(from, 1).Sub(cumulative(to, 1))
	months := gap.Div(c.MonthlyDiff.Neg()).Ceil().IntPart()
	c.Month = int(months) + 1
	return c
}

// Crossovers compares every scenario in q against the best one
func Crossovers(q *domain.QuoteResult) []Crossover {
	if q == nil || q.Best == nil {
		return nil
	}
	var out []Crossover
	for _, s := range q.Scenarios {
		if s.Type == q.Best.Type {
			continue
		}
		out = append(out, FindCrossover(s, *q.Best))
	}
	return out
}

// FindBreakEvenPayoff searches for the smallest payoff balance on req.Line at
// which req.Target ranks first. The search assumes a larger payoff never makes
// the target more expensive, which holds because payoffs are reimbursed.
func (s *Solver) FindBreakEvenPayoff(ctx context.Context, req PayoffRequest) (*PayoffResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Target == "" {
		req.Target = domain.ScenarioKeepAndSwitch
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}
	if req.MaxAmount.IsZero() {
		req.MaxAmount = s.Options.MaxAmount
	}

	result := &PayoffResult{Request: req, Line: req.Line, Target: req.Target}

	low, lowQuote, err := s.evaluate(req, req.MinAmount)
	if err != nil {
		return nil, err
	}
	result.Iterations++
	result.Baseline = lowQuote.Best
	if low {
		amount := req.MinAmount
		result.Success = true
		result.BreakEvenPayoff = &amount
		result.AtBreakEven = lowQuote.Best
		result.ConvergenceInfo = fmt.Sprintf("%s is already cheapest at a $%s payoff", req.Target.DisplayName(), amount.StringFixed(2))
		return result, nil
	}

	high, highQuote, err := s.evaluate(req, req.MaxAmount)
	if err != nil {
		return nil, err
	}
	result.Iterations++
	if !high {
		result.ConvergenceInfo = fmt.Sprintf("%s is not cheapest at any payoff up to $%s", req.Target.DisplayName(), req.MaxAmount.StringFixed(2))
		return result, nil
	}

	lo, hi := req.MinAmount, req.MaxAmount
	best := highQuote.Best
	two := decimal.NewFromInt(2)

	for result.Iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(req.Tolerance) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(two).Round(2)
		ok, q, err := s.evaluate(req, mid)
		if err != nil {
			return nil, err
		}
		result.Iterations++
		if ok {
			hi = mid
			best = q.Best
		} else {
			lo = mid
		}
	}

	amount := hi
	result.Success = true
	result.BreakEvenPayoff = &amount
	result.AtBreakEven = best
	if hi.Sub(lo).GreaterThan(req.Tolerance) {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	} else {
		result.ConvergenceInfo = fmt.Sprintf("Converged within $%s", req.Tolerance.StringFixed(2))
	}
	return result, nil
}

// evaluate quotes the configuration with the payoff set and reports whether the target ranks first
func (s *Solver) evaluate(req PayoffRequest, amount decimal.Decimal) (bool, *domain.QuoteResult, error) {
	cfg, err := transform.ApplyTransforms(req.Config, []transform.ConfigTransform{
		&transform.SetPayoff{Line: req.Line, Amount: &amount},
	})
	if err != nil {
		return false, nil, &BreakEvenError{Operation: "find_payoff", Message: "failed to apply payoff", Cause: err}
	}

	q, err := s.Quoter.Optimize(cfg)
	if err != nil {
		return false, nil, &BreakEvenError{Operation: "find_payoff", Message: "failed to quote configuration", Cause: err}
	}
	if q.Best == nil {
		return false, q, nil
	}
	return q.Best.Type == req.Target, q, nil
}
