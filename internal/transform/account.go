package transform

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// SetLineCount resizes the account. New lines start with no device; removed lines
// are dropped from the end.
type SetLineCount struct {
	Lines int
}

func (t *SetLineCount) Name() string { return "set_lines" }

func (t *SetLineCount) Description() string {
	return fmt.Sprintf("Change to %d lines", t.Lines)
}

func (t *SetLineCount) Validate(base *domain.CustomerConfiguration) error {
	if err := requireBase(t.Name(), base); err != nil {
		return err
	}
	if t.Lines < 1 {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("lines must be at least 1, got %d", t.Lines), nil)
	}
	return nil
}

func (t *SetLineCount) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	if t.Lines < len(modified.Devices) {
		modified.Devices = modified.Devices[:t.Lines]
	}
	for len(modified.Devices) < t.Lines {
		modified.Devices = append(modified.Devices, domain.DeviceLine{})
	}
	modified.Lines = t.Lines
	return modified, nil
}

// SetPlan switches the rate plan
type SetPlan struct {
	Plan domain.PlanID
}

func (t *SetPlan) Name() string { return "set_plan" }

func (t *SetPlan) Description() string {
	return fmt.Sprintf("Switch plan to %s", t.Plan)
}

func (t *SetPlan) Validate(base *domain.CustomerConfiguration) error {
	if err := requireBase(t.Name(), base); err != nil {
		return err
	}
	if t.Plan == "" {
		return NewTransformError(t.Name(), "validate", "plan cannot be empty", nil)
	}
	return nil
}

func (t *SetPlan) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	modified.SelectedPlan = t.Plan
	return modified, nil
}

// SetAutoPay enrolls or unenrolls the account from automatic payment
type SetAutoPay struct {
	Enabled bool
}

func (t *SetAutoPay) Name() string { return "set_autopay" }

func (t *SetAutoPay) Description() string {
	if t.Enabled {
		return "Enroll in AutoPay"
	}
	return "Pay without AutoPay"
}

func (t *SetAutoPay) Validate(base *domain.CustomerConfiguration) error {
	return requireBase(t.Name(), base)
}

func (t *SetAutoPay) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	modified.AutoPay = domain.Bool(t.Enabled)
	return modified, nil
}

// SetFinancingTerm changes the device financing term
type SetFinancingTerm struct {
	Months int
}

func (t *SetFinancingTerm) Name() string { return "set_term" }

func (t *SetFinancingTerm) Description() string {
	return fmt.Sprintf("Finance devices over %d months", t.Months)
}

func (t *SetFinancingTerm) Validate(base *domain.CustomerConfiguration) error {
	if err := requireBase(t.Name(), base); err != nil {
		return err
	}
	if t.Months != 24 && t.Months != 36 {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("term must be 24 or 36 months, got %d", t.Months), nil)
	}
	return nil
}

func (t *SetFinancingTerm) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	modified.FinancingTermMonths = t.Months
	return modified, nil
}

// SetCarrier sets the previous carrier; an empty name clears it
type SetCarrier struct {
	Carrier string
}

func (t *SetCarrier) Name() string { return "set_carrier" }

func (t *SetCarrier) Description() string {
	if t.Carrier == "" {
		return "Previous carrier unknown"
	}
	return fmt.Sprintf("Switching from %s", t.Carrier)
}

func (t *SetCarrier) Validate(base *domain.CustomerConfiguration) error {
	return requireBase(t.Name(), base)
}

func (t *SetCarrier) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	modified.Carrier = nil
	if t.Carrier != "" {
		modified.Carrier = domain.String(t.Carrier)
	}
	return modified, nil
}

// SetJurisdiction moves the quote to another tax jurisdiction
type SetJurisdiction struct {
	Jurisdiction domain.JurisdictionID
}

func (t *SetJurisdiction) Name() string { return "set_jurisdiction" }

func (t *SetJurisdiction) Description() string {
	return fmt.Sprintf("Tax as %s", t.Jurisdiction)
}

func (t *SetJurisdiction) Validate(base *domain.CustomerConfiguration) error {
	if err := requireBase(t.Name(), base); err != nil {
		return err
	}
	if t.Jurisdiction == "" {
		return NewTransformError(t.Name(), "validate", "jurisdiction cannot be empty", nil)
	}
	return nil
}

func (t *SetJurisdiction) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	modified.TaxJurisdiction = t.Jurisdiction
	return modified, nil
}

// SetQualification changes the discount qualification category
type SetQualification struct {
	Category domain.QualificationCategory
}

func (t *SetQualification) Name() string { return "set_qualification" }

func (t *SetQualification) Description() string {
	return fmt.Sprintf("Qualify as %s", t.Category)
}

func (t *SetQualification) Validate(base *domain.CustomerConfiguration) error {
	if err := requireBase(t.Name(), base); err != nil {
		return err
	}
	switch t.Category {
	case domain.QualificationStandard, domain.QualificationMilitary, domain.QualificationFirstResponder,
		domain.QualificationSenior55, domain.QualificationBusiness:
		return nil
	}
	return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown category %q", t.Category), nil)
}

func (t *SetQualification) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	modified.QualificationCategory = t.Category
	return modified, nil
}
