package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ConfigTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	// account
	registry.Register("set_lines", createSetLineCount)
	registry.Register("set_plan", createSetPlan)
	registry.Register("set_autopay", createSetAutoPay)
	registry.Register("set_term", createSetFinancingTerm)
	registry.Register("set_carrier", createSetCarrier)
	registry.Register("set_jurisdiction", createSetJurisdiction)
	registry.Register("set_qualification", createSetQualification)

	// phone lines
	registry.Register("set_device", createSetNewDevice)
	registry.Register("set_trade_in", createSetTradeIn)
	registry.Register("set_insurance", createSetInsurance)
	registry.Register("set_payoff", createSetPayoff)
	registry.Register("add_line", func(params map[string]string) (ConfigTransform, error) {
		return &AddLine{Model: domain.ModelID(params["model"])}, nil
	})

	// accessories
	registry.Register("add_watch", createAddWatch)
	registry.Register("add_tablet", createAddTablet)
	registry.Register("set_home_internet", createSetHomeInternet)
	registry.Register("clear_accessories", func(map[string]string) (ConfigTransform, error) {
		return &ClearAccessories{}, nil
	})

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ConfigTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms in alphabetical order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_device:line=2,model=pixel_9"
// Transforms without parameters may omit the colon.
func (r *TransformRegistry) ParseTransformSpec(spec string) (ConfigTransform, error) {
	parts := strings.SplitN(strings.TrimSpace(spec), ":", 2)
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		for _, paramPair := range strings.Split(parts[1], ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformChain parses several specs separated by "+" into one chain,
// e.g. "set_autopay:enabled=false+set_term:months=36"
func (r *TransformRegistry) ParseTransformChain(chain string) ([]ConfigTransform, error) {
	var transforms []ConfigTransform
	for _, spec := range strings.Split(chain, "+") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	if len(transforms) == 0 {
		return nil, fmt.Errorf("empty transform chain")
	}
	return transforms, nil
}

// Factory functions for each transform

func requireParam(transform string, params map[string]string, key string) (string, error) {
	value, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return value, nil
}

func parseBool(transform string, params map[string]string, key string) (bool, error) {
	value, err := requireParam(transform, params, key)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(value) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s value: %s", key, value)
}

// parseLine reads a 1-based line number. "all" maps to 0 where allowed.
func parseLine(transform string, params map[string]string, allowAll bool) (int, error) {
	value, err := requireParam(transform, params, "line")
	if err != nil {
		return 0, err
	}
	if allowAll && strings.EqualFold(value, "all") {
		return 0, nil
	}
	line, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid line value: %w", err)
	}
	return line, nil
}

func createSetLineCount(params map[string]string) (ConfigTransform, error) {
	value, err := requireParam("set_lines", params, "lines")
	if err != nil {
		return nil, err
	}
	lines, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid lines value: %w", err)
	}
	return &SetLineCount{Lines: lines}, nil
}

func createSetPlan(params map[string]string) (ConfigTransform, error) {
	plan, err := requireParam("set_plan", params, "plan")
	if err != nil {
		return nil, err
	}
	return &SetPlan{Plan: domain.PlanID(plan)}, nil
}

func createSetAutoPay(params map[string]string) (ConfigTransform, error) {
	enabled, err := parseBool("set_autopay", params, "enabled")
	if err != nil {
		return nil, err
	}
	return &SetAutoPay{Enabled: enabled}, nil
}

func createSetFinancingTerm(params map[string]string) (ConfigTransform, error) {
	value, err := requireParam("set_term", params, "months")
	if err != nil {
		return nil, err
	}
	months, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid months value: %w", err)
	}
	return &SetFinancingTerm{Months: months}, nil
}

func createSetCarrier(params map[string]string) (ConfigTransform, error) {
	return &SetCarrier{Carrier: params["carrier"]}, nil
}

func createSetJurisdiction(params map[string]string) (ConfigTransform, error) {
	id, err := requireParam("set_jurisdiction", params, "id")
	if err != nil {
		return nil, err
	}
	return &SetJurisdiction{Jurisdiction: domain.JurisdictionID(id)}, nil
}

func createSetQualification(params map[string]string) (ConfigTransform, error) {
	category, err := requireParam("set_qualification", params, "category")
	if err != nil {
		return nil, err
	}
	return &SetQualification{Category: domain.QualificationCategory(category)}, nil
}

func createSetNewDevice(params map[string]string) (ConfigTransform, error) {
	line, err := parseLine("set_device", params, false)
	if err != nil {
		return nil, err
	}
	return &SetNewDevice{
		Line:    line,
		Model:   domain.ModelID(params["model"]),
		Variant: params["variant"],
	}, nil
}

func createSetTradeIn(params map[string]string) (ConfigTransform, error) {
	line, err := parseLine("set_trade_in", params, false)
	if err != nil {
		return nil, err
	}
	return &SetTradeIn{Line: line, Model: domain.ModelID(params["model"])}, nil
}

func createSetInsurance(params map[string]string) (ConfigTransform, error) {
	line, err := parseLine("set_insurance", params, true)
	if err != nil {
		return nil, err
	}
	elected, err := parseBool("set_insurance", params, "elected")
	if err != nil {
		return nil, err
	}
	return &SetInsurance{Line: line, Elected: elected}, nil
}

func createSetPayoff(params map[string]string) (ConfigTransform, error) {
	line, err := parseLine("set_payoff", params, false)
	if err != nil {
		return nil, err
	}
	t := &SetPayoff{Line: line}
	if value, ok := params["amount"]; ok && value != "" {
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid amount value: %w", err)
		}
		t.Amount = &amount
	}
	return t, nil
}

func createAddWatch(params map[string]string) (ConfigTransform, error) {
	return &AddWatch{Model: domain.ModelID(params["model"])}, nil
}

func createAddTablet(params map[string]string) (ConfigTransform, error) {
	return &AddTablet{
		Model:    domain.ModelID(params["model"]),
		DataType: domain.DataType(params["data"]),
	}, nil
}

func createSetHomeInternet(params map[string]string) (ConfigTransform, error) {
	enabled, err := parseBool("set_home_internet", params, "enabled")
	if err != nil {
		return nil, err
	}
	return &SetHomeInternet{Enabled: enabled}, nil
}
