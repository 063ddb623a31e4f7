package calculation

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/compare"
	"github.com/rgehrsitz/dealopt/internal/domain"
)

// TableSource supplies the reference tables in effect. *catalog.Store satisfies it.
type TableSource interface {
	Current() *catalog.Snapshot
}

// StaticSource serves one fixed snapshot
type StaticSource struct {
	Snapshot *catalog.Snapshot
}

// Current returns the fixed snapshot
func (s StaticSource) Current() *catalog.Snapshot { return s.Snapshot }

// DealOptimizer is the entry point of the pricing engine. It validates a customer
// configuration, builds every applicable scenario against one table snapshot and
// ranks them by total cost.
type DealOptimizer struct {
	source TableSource
	policy domain.DefaultsPolicy
	Logger Logger
}

// NewDealOptimizer creates an optimizer reading tables from source
func NewDealOptimizer(source TableSource, policy domain.DefaultsPolicy) *DealOptimizer {
	return &DealOptimizer{
		source: source,
		policy: policy,
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the optimizer; nil disables logging
func (o *DealOptimizer) SetLogger(l Logger) {
	if l == nil {
		o.Logger = NopLogger{}
		return
	}
	o.Logger = l
}

// Policy returns the defaults policy the optimizer applies
func (o *DealOptimizer) Policy() domain.DefaultsPolicy {
	return o.policy
}

// Optimize prices cfg. A malformed configuration returns a *domain.ValidationError
// before any scenario is built; data problems are reported as warnings on the result.
// cfg is never modified.
func (o *DealOptimizer) Optimize(cfg *domain.CustomerConfiguration) (*domain.QuoteResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// one snapshot for the whole quote, so a concurrent reload cannot mix tables
	tables := o.source.Current()
	if tables == nil {
		return nil, fmt.Errorf("no reference tables loaded")
	}

	builder := NewScenarioBuilder(tables, o.policy)
	builder.Logger = o.Logger
	scenarios, failures := builder.BuildAll(cfg)

	ranking := compare.Rank(scenarios)
	result := &domain.QuoteResult{
		Scenarios:     ranking.All(),
		TablesVersion: tables.Version(),
		TablesHash:    tables.Hash(),
	}
	if best, ok := ranking.Best(); ok {
		result.Best = &best
	}

	warnings := append([]domain.Warning(nil), failures...)
	for _, s := range result.Scenarios {
		warnings = append(warnings, s.Warnings...)
	}
	result.Warnings = domain.DedupeWarnings(warnings)

	o.Logger.Infof("quoted %d scenarios against tables %s", len(result.Scenarios), tables.Version())
	return result, nil
}
