package compare

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/transform"
)

// Quoter prices a customer configuration. calculation.DealOptimizer satisfies it.
type Quoter interface {
	Optimize(cfg *domain.CustomerConfiguration) (*domain.QuoteResult, error)
}

// CompareEngine orchestrates what-if comparisons
type CompareEngine struct {
	Quoter            Quoter
	MetricsCalculator *MetricsCalculator
	TransformRegistry *transform.TransformRegistry
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine with the built-in transforms and templates
func NewCompareEngine(quoter Quoter) *CompareEngine {
	return &CompareEngine{
		Quoter:            quoter,
		MetricsCalculator: NewMetricsCalculator(),
		TransformRegistry: transform.NewTransformRegistry(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseName  string   // label of the unedited quote
	Templates []string // template names, one alternative each
	Edits     []string // transform chains ("spec+spec"), one alternative each
}

// Alternative is one edited variant of the base configuration
type Alternative struct {
	Name        string
	Description string
	Transforms  []transform.ConfigTransform
}

// Alternatives resolves template names and edit chains into alternatives
func (ce *CompareEngine) Alternatives(options CompareOptions) ([]Alternative, error) {
	var alternatives []Alternative

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}
		alternatives = append(alternatives, Alternative{
			Name:        template.Name,
			Description: template.Description,
			Transforms:  template.Transforms,
		})
	}

	for _, edit := range options.Edits {
		transforms, err := ce.TransformRegistry.ParseTransformChain(edit)
		if err != nil {
			return nil, fmt.Errorf("invalid edit %q: %w", edit, err)
		}
		alternatives = append(alternatives, Alternative{
			Name:        edit,
			Description: transform.Describe(transforms),
			Transforms:  transforms,
		})
	}

	return alternatives, nil
}

// Compare quotes the base configuration and every alternative named by options
func (ce *CompareEngine) Compare(cfg *domain.CustomerConfiguration, options CompareOptions) (*ComparisonSet, error) {
	alternatives, err := ce.Alternatives(options)
	if err != nil {
		return nil, err
	}
	return ce.CompareAlternatives(cfg, options.BaseName, alternatives)
}

// CompareAlternatives quotes the base configuration and each edited copy of it.
// The base configuration is never modified.
func (ce *CompareEngine) CompareAlternatives(cfg *domain.CustomerConfiguration, baseName string, alternatives []Alternative) (*ComparisonSet, error) {
	if cfg == nil {
		return nil, fmt.Errorf("base configuration cannot be nil")
	}
	if baseName == "" {
		baseName = "current"
	}

	baseQuote, err := ce.Quoter.Optimize(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to quote base configuration: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseName, baseQuote)
	baseResult.Description = "Configuration as entered"

	results := []ComparisonResult{}
	for _, alt := range alternatives {
		edited, err := transform.ApplyTransforms(cfg, alt.Transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", alt.Name, err)
		}

		quote, err := ce.Quoter.Optimize(edited)
		if err != nil {
			return nil, fmt.Errorf("failed to quote %s: %w", alt.Name, err)
		}

		result := ce.MetricsCalculator.CalculateMetrics(alt.Name, quote)
		result.Description = alt.Description
		results = append(results, ce.MetricsCalculator.CalculateComparison(result, baseResult))
	}

	compSet := &ComparisonSet{
		BaseName:           baseName,
		BaseResult:         &baseResult,
		AlternativeResults: results,
		TablesVersion:      baseQuote.TablesVersion,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
