package breakeven

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// Crossover describes when a scenario with a higher upfront cost catches up with
// another through lower monthly payments. Month is 1-based; the first bill is month 1.
type Crossover struct {
	From        domain.ScenarioType `json:"from"`
	To          domain.ScenarioType `json:"to"`
	Month       int                 `json:"month,omitempty"`
	Never       bool                `json:"never"`
	FromCost    decimal.Decimal     `json:"fromCostAtTerm"`
	ToCost      decimal.Decimal     `json:"toCostAtTerm"`
	MonthlyDiff decimal.Decimal     `json:"monthlyDiff"`
}

// WithinTerm reports whether the crossover happens before the financing term ends
func (c Crossover) WithinTerm(term int) bool {
	return !c.Never && c.Month > 0 && c.Month <= term
}

// PayoffRequest asks for the smallest payoff balance on one line at which the
// target scenario becomes the cheapest
type PayoffRequest struct {
	Config *domain.CustomerConfiguration
	// Line is 1-based, like the transforms
	Line      int
	Target    domain.ScenarioType
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	// Tolerance is the search resolution in dollars; zero uses the solver default
	Tolerance     decimal.Decimal
	MaxIterations int
}

// PayoffResult is the outcome of a payoff search
type PayoffResult struct {
	Request         PayoffRequest       `json:"-"`
	Line            int                 `json:"line"`
	Target          domain.ScenarioType `json:"target"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergenceInfo"`

	// BreakEvenPayoff is the smallest payoff at which Target ranks first
	BreakEvenPayoff *decimal.Decimal `json:"breakEvenPayoff,omitempty"`

	// Best at the break-even payoff, and the best at MinAmount for reference
	AtBreakEven *domain.Scenario `json:"atBreakEven,omitempty"`
	Baseline    *domain.Scenario `json:"baseline,omitempty"`
}

// SolverOptions configures the payoff search
type SolverOptions struct {
	Tolerance     decimal.Decimal
	MaxIterations int
	MaxAmount     decimal.Decimal
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1),
		MaxIterations: 40,
		MaxAmount:     decimal.NewFromInt(2000),
	}
}

// Validate checks the request before any quote is run
func (r *PayoffRequest) Validate() error {
	if r.Config == nil {
		return &BreakEvenError{Operation: "validate_request", Message: "configuration is required"}
	}
	if r.Line < 1 || r.Line > len(r.Config.Devices) {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "line is out of range",
		}
	}
	if r.MinAmount.IsNegative() {
		return &BreakEvenError{Operation: "validate_request", Message: "min amount cannot be negative"}
	}
	if !r.MaxAmount.IsZero() && r.MinAmount.GreaterThan(r.MaxAmount) {
		return &BreakEvenError{Operation: "validate_request", Message: "min amount cannot be greater than max amount"}
	}
	if r.Tolerance.IsNegative() {
		return &BreakEvenError{Operation: "validate_request", Message: "tolerance cannot be negative"}
	}
	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
