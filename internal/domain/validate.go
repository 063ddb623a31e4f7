package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// report yaml field names so errors match the input file
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks the configuration before any scenario is built
func (c *CustomerConfiguration) Validate() error {
	if c == nil {
		return &ValidationError{Reason: "configuration is required"}
	}

	if err := configValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldValidationError(fieldErrs[0])
		}
		return &ValidationError{Reason: err.Error()}
	}

	if len(c.Devices) != c.Lines {
		return &ValidationError{
			Field:  "devices",
			Reason: fmt.Sprintf("expected %d device lines for %d lines, got %d", c.Lines, c.Lines, len(c.Devices)),
		}
	}

	for i, d := range c.Devices {
		if d.PayoffBalance != nil && d.PayoffBalance.IsNegative() {
			return &ValidationError{
				Field:  fmt.Sprintf("devices[%d].payoff_balance", i),
				Reason: "cannot be negative",
			}
		}
	}

	return nil
}

func fieldValidationError(fe validator.FieldError) *ValidationError {
	field := strings.TrimPrefix(fe.Namespace(), "CustomerConfiguration.")

	var reason string
	switch fe.Tag() {
	case "required", "required_if":
		reason = "is required"
	case "gt":
		reason = "must be greater than " + fe.Param()
	case "oneof":
		reason = "must be one of: " + fe.Param()
	default:
		reason = "is invalid"
	}
	return &ValidationError{Field: field, Reason: reason}
}
