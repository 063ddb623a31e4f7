package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []ConfigTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names in alphabetical order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	categoryBilling     = "Billing"
	categoryProtection  = "Protection"
	categoryLines       = "Lines"
	categoryCombination = "Combination"
)

var templateCategories = []string{categoryBilling, categoryProtection, categoryLines, categoryCombination}

// CreateBuiltInTemplates creates a template registry with the common deal adjustments
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "autopay_on",
		Category:    categoryBilling,
		Description: "Enroll every line in AutoPay",
		Transforms:  []ConfigTransform{&SetAutoPay{Enabled: true}},
	})
	registry.Register(Template{
		Name:        "autopay_off",
		Category:    categoryBilling,
		Description: "Quote without the AutoPay discount",
		Transforms:  []ConfigTransform{&SetAutoPay{Enabled: false}},
	})
	registry.Register(Template{
		Name:        "term_24",
		Category:    categoryBilling,
		Description: "Finance devices over 24 months",
		Transforms:  []ConfigTransform{&SetFinancingTerm{Months: 24}},
	})
	registry.Register(Template{
		Name:        "term_36",
		Category:    categoryBilling,
		Description: "Finance devices over 36 months (lower monthly, same device cost)",
		Transforms:  []ConfigTransform{&SetFinancingTerm{Months: 36}},
	})

	registry.Register(Template{
		Name:        "insure_all",
		Category:    categoryProtection,
		Description: "Add device protection to every phone line",
		Transforms:  []ConfigTransform{&SetInsurance{Line: 0, Elected: true}},
	})
	registry.Register(Template{
		Name:        "no_insurance",
		Category:    categoryProtection,
		Description: "Decline device protection on every phone line",
		Transforms:  []ConfigTransform{&SetInsurance{Line: 0, Elected: false}},
	})

	registry.Register(Template{
		Name:        "add_line",
		Category:    categoryLines,
		Description: "Add one phone line bringing its own phone",
		Transforms:  []ConfigTransform{&AddLine{}},
	})
	registry.Register(Template{
		Name:        "add_home_internet",
		Category:    categoryLines,
		Description: "Add home internet to the account",
		Transforms:  []ConfigTransform{&SetHomeInternet{Enabled: true}},
	})
	registry.Register(Template{
		Name:        "add_watch",
		Category:    categoryLines,
		Description: "Add a watch line bringing its own watch",
		Transforms:  []ConfigTransform{&AddWatch{}},
	})
	registry.Register(Template{
		Name:        "clear_accessories",
		Category:    categoryLines,
		Description: "Remove every watch, tablet and home internet line",
		Transforms:  []ConfigTransform{&ClearAccessories{}},
	})

	registry.Register(Template{
		Name:        "lowest_monthly",
		Category:    categoryCombination,
		Description: "AutoPay on, 36 month financing, no protection",
		Transforms: []ConfigTransform{
			&SetAutoPay{Enabled: true},
			&SetFinancingTerm{Months: 36},
			&SetInsurance{Line: 0, Elected: false},
		},
	})
	registry.Register(Template{
		Name:        "phones_only",
		Category:    categoryCombination,
		Description: "AutoPay on and accessory lines removed",
		Transforms: []ConfigTransform{
			&SetAutoPay{Enabled: true},
			&ClearAccessories{},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base configuration
func ApplyTemplate(base *domain.CustomerConfiguration, template Template) (*domain.CustomerConfiguration, error) {
	if base == nil {
		return nil, fmt.Errorf("base configuration cannot be nil")
	}
	if len(template.Transforms) == 0 {
		return base.DeepCopy(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	byCategory := make(map[string][]Template)
	for _, name := range registry.List() {
		t := registry.templates[name]
		category := t.Category
		if category == "" {
			category = categoryCombination
		}
		byCategory[category] = append(byCategory[category], t)
	}

	for _, category := range templateCategories {
		templates := byCategory[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  dealopt whatif customer.yaml --with autopay_off,term_36\n")
	sb.WriteString("  dealopt whatif customer.yaml --edit set_device:line=2,model=pixel_9\n")

	return sb.String()
}
