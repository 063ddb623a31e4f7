package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// ConfigTransform is one what-if edit of a customer configuration. Transforms are
// pure: Apply returns an edited copy and never touches its input, so the base
// quote and the edited quote can be computed side by side.
type ConfigTransform interface {
	// Apply returns the edited configuration
	Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error)

	// Name returns the registry identifier (e.g. "set_autopay")
	Name() string

	// Description is a short human-readable summary of the edit
	Description() string

	// Validate checks the parameters against the configuration without applying
	Validate(base *domain.CustomerConfiguration) error
}

// ApplyTransforms applies transforms in order, each receiving the output of the
// previous one. The base is never modified.
func ApplyTransforms(base *domain.CustomerConfiguration, transforms []ConfigTransform) (*domain.CustomerConfiguration, error) {
	if base == nil {
		return nil, fmt.Errorf("base configuration cannot be nil")
	}

	current := base.DeepCopy()
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}
		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}
	return current, nil
}

// Describe joins the descriptions of a transform chain
func Describe(transforms []ConfigTransform) string {
	parts := make([]string, len(transforms))
	for i, t := range transforms {
		parts[i] = t.Description()
	}
	return strings.Join(parts, "; ")
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

func requireBase(name string, base *domain.CustomerConfiguration) error {
	if base == nil {
		return NewTransformError(name, "validate", "base configuration cannot be nil", nil)
	}
	return nil
}

// checkLine validates a 1-based line number; 0 means every line when allowAll is set
func checkLine(name string, base *domain.CustomerConfiguration, line int, allowAll bool) error {
	if err := requireBase(name, base); err != nil {
		return err
	}
	if line == 0 && allowAll {
		return nil
	}
	if line < 1 || line > len(base.Devices) {
		return NewTransformError(name, "validate", fmt.Sprintf("line %d out of range 1-%d", line, len(base.Devices)), nil)
	}
	return nil
}

// eachLine runs fn on the selected line, or on all lines for line 0
func eachLine(cfg *domain.CustomerConfiguration, line int, fn func(*domain.DeviceLine)) {
	if line == 0 {
		for i := range cfg.Devices {
			fn(&cfg.Devices[i])
		}
		return
	}
	fn(&cfg.Devices[line-1])
}

func lineLabel(line int) string {
	if line == 0 {
		return "every line"
	}
	return fmt.Sprintf("line %d", line)
}
