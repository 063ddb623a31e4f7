package domain

import "fmt"

// ValidationError reports a malformed customer configuration. It is fatal for the quote.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// ReferenceKind names the table an unresolved id belongs to
type ReferenceKind string

const (
	RefPlan         ReferenceKind = "plan"
	RefDevice       ReferenceKind = "device"
	RefTradeIn      ReferenceKind = "trade_in"
	RefJurisdiction ReferenceKind = "jurisdiction"
	RefInsurance    ReferenceKind = "insurance_tier"
)

// UnknownReferenceError reports an id that is not present in the reference tables
type UnknownReferenceError struct {
	Kind ReferenceKind
	ID   string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.ID)
}

// WarningCode classifies data-quality warnings
type WarningCode string

const (
	WarnUnknownPlan         WarningCode = "unknown_plan"
	WarnUnknownDevice       WarningCode = "unknown_device"
	WarnUnknownTradeIn      WarningCode = "unknown_trade_in"
	WarnUnknownJurisdiction WarningCode = "unknown_jurisdiction"
	WarnMissingDefaultTier  WarningCode = "missing_default_tier"
	WarnAssumedCarrier      WarningCode = "assumed_carrier_eligibility"
	WarnScenarioOmitted     WarningCode = "scenario_omitted"
	WarnServiceOnlyFallback WarningCode = "service_only_fallback"
	WarnTotalClamped        WarningCode = "total_clamped_to_zero"
)

// Warning is a recovered data-quality problem attached to a scenario
type Warning struct {
	Code      WarningCode `json:"code"`
	Message   string      `json:"message"`
	Reference string      `json:"reference,omitempty"`
}

// WarningFromReference converts a recovered lookup failure into a warning
func WarningFromReference(code WarningCode, err *UnknownReferenceError, fallback string) Warning {
	msg := err.Error()
	if fallback != "" {
		msg = fmt.Sprintf("%s, using %s", msg, fallback)
	}
	return Warning{Code: code, Message: msg, Reference: err.ID}
}
