package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PromotionKind discriminates the promotion variants
type PromotionKind string

const (
	PromotionTradeIn  PromotionKind = "trade_in"
	PromotionSwitcher PromotionKind = "switcher_credit"
	PromotionBundle   PromotionKind = "bundle"
	PromotionNewLine  PromotionKind = "new_line"
)

// CustomerStatus restricts a promotion to new or existing customers
type CustomerStatus string

const (
	StatusAny      CustomerStatus = ""
	StatusNew      CustomerStatus = "new"
	StatusExisting CustomerStatus = "existing"
)

// Eligibility is the declarative predicate over (carrier, customer status, device line)
type Eligibility struct {
	CustomerStatus CustomerStatus `yaml:"customer_status,omitempty" json:"customerStatus,omitempty"`
	Carriers       []string       `yaml:"carriers,omitempty" json:"carriers,omitempty"`
	DeviceModels   []ModelID      `yaml:"device_models,omitempty" json:"deviceModels,omitempty"`
	MinLines       int            `yaml:"min_lines,omitempty" json:"minLines,omitempty"`
}

// AllowsCustomer checks the status restriction
func (e Eligibility) AllowsCustomer(isExisting bool) bool {
	switch e.CustomerStatus {
	case StatusNew:
		return !isExisting
	case StatusExisting:
		return isExisting
	default:
		return true
	}
}

// AllowsCarrier checks the carrier restriction; an empty list allows any carrier
func (e Eligibility) AllowsCarrier(carrier string, known bool) bool {
	if len(e.Carriers) == 0 {
		return true
	}
	if !known {
		return false
	}
	return ContainsFold(e.Carriers, carrier)
}

// AllowsDevice checks the new device restriction; an empty list allows any line
func (e Eligibility) AllowsDevice(line DeviceLine) bool {
	if len(e.DeviceModels) == 0 {
		return true
	}
	if !line.HasNewDevice() {
		return false
	}
	for _, m := range e.DeviceModels {
		if m == *line.NewDeviceModel {
			return true
		}
	}
	return false
}

// PromotionTerms is implemented by each promotion variant
type PromotionTerms interface {
	Kind() PromotionKind
	validate(p *Promotion) error
}

// TradeInTerms grants a bonus credit on a line that trades in a device
type TradeInTerms struct {
	Credit              decimal.Decimal `yaml:"credit" json:"credit"`
	EligibleTradeModels []ModelID       `yaml:"eligible_trade_models,omitempty" json:"eligibleTradeModels,omitempty"`
}

func (TradeInTerms) Kind() PromotionKind { return PromotionTradeIn }

func (t TradeInTerms) validate(_ *Promotion) error {
	if !t.Credit.IsPositive() {
		return fmt.Errorf("trade-in credit must be positive")
	}
	return nil
}

// AcceptsTrade reports whether the traded model qualifies
func (t TradeInTerms) AcceptsTrade(model ModelID) bool {
	if len(t.EligibleTradeModels) == 0 {
		return true
	}
	for _, m := range t.EligibleTradeModels {
		if m == model {
			return true
		}
	}
	return false
}

// SwitcherTerms reimburses a switching customer's prior-carrier device payoff as a lump sum
type SwitcherTerms struct {
	EligibleCarriers []string `yaml:"eligible_carriers,omitempty" json:"eligibleCarriers,omitempty"`
}

func (SwitcherTerms) Kind() PromotionKind { return PromotionSwitcher }

func (SwitcherTerms) validate(p *Promotion) error {
	if p.MaxPerLine == nil || !p.MaxPerLine.IsPositive() {
		return fmt.Errorf("switcher credit requires a positive max_per_line")
	}
	return nil
}

// BundleBenefit selects what a bundle promotion gives
type BundleBenefit string

const (
	BenefitFreeLine          BundleBenefit = "free_line"
	BenefitFreeHomeInternet  BundleBenefit = "free_home_internet"
	BenefitPercentOffService BundleBenefit = "percent_off_service"
)

// BundleTerms are the account-level bundle benefits
type BundleTerms struct {
	Benefit    BundleBenefit   `yaml:"benefit" json:"benefit"`
	LineNumber int             `yaml:"line_number,omitempty" json:"lineNumber,omitempty"`
	Percent    decimal.Decimal `yaml:"percent,omitempty" json:"percent,omitempty"`
}

func (BundleTerms) Kind() PromotionKind { return PromotionBundle }

func (b BundleTerms) validate(_ *Promotion) error {
	switch b.Benefit {
	case BenefitFreeLine:
		if b.LineNumber < 1 {
			return fmt.Errorf("free_line bundle requires line_number >= 1")
		}
	case BenefitFreeHomeInternet:
	case BenefitPercentOffService:
		if !b.Percent.IsPositive() || b.Percent.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("percent_off_service requires 0 < percent <= 1")
		}
	default:
		return fmt.Errorf("unknown bundle benefit %q", b.Benefit)
	}
	return nil
}

// NewLineTerms credits each new-device line opened by a new customer
type NewLineTerms struct {
	CreditPerLine decimal.Decimal `yaml:"credit_per_line" json:"creditPerLine"`
}

func (NewLineTerms) Kind() PromotionKind { return PromotionNewLine }

func (n NewLineTerms) validate(_ *Promotion) error {
	if !n.CreditPerLine.IsPositive() {
		return fmt.Errorf("new line credit_per_line must be positive")
	}
	return nil
}

// Promotion is one promotion definition. Terms carries the variant-specific fields.
type Promotion struct {
	ID          PromotionID      `yaml:"id" json:"id"`
	Description string           `yaml:"description" json:"description"`
	ValueAmount decimal.Decimal  `yaml:"value_amount" json:"valueAmount"`
	Stackable   bool             `yaml:"stackable" json:"stackable"`
	MaxLines    *int             `yaml:"max_lines,omitempty" json:"maxLines,omitempty"`
	MaxPerLine  *decimal.Decimal `yaml:"max_per_line,omitempty" json:"maxPerLine,omitempty"`
	Eligibility Eligibility      `yaml:"eligibility" json:"eligibility"`
	Terms       PromotionTerms   `yaml:"-" json:"terms"`
}

// Kind returns the variant of the promotion
func (p Promotion) Kind() PromotionKind {
	if p.Terms == nil {
		return ""
	}
	return p.Terms.Kind()
}

// Validate checks the common fields and the variant-specific requirements
func (p *Promotion) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("promotion id is required")
	}
	if p.Terms == nil {
		return fmt.Errorf("promotion %s: terms are required", p.ID)
	}
	if p.ValueAmount.IsNegative() {
		return fmt.Errorf("promotion %s: value_amount cannot be negative", p.ID)
	}
	if p.MaxLines != nil && *p.MaxLines < 1 {
		return fmt.Errorf("promotion %s: max_lines must be at least 1", p.ID)
	}
	if p.MaxPerLine != nil && p.MaxPerLine.IsNegative() {
		return fmt.Errorf("promotion %s: max_per_line cannot be negative", p.ID)
	}
	if err := p.Terms.validate(p); err != nil {
		return fmt.Errorf("promotion %s: %w", p.ID, err)
	}
	return nil
}

// LineLimit returns MaxLines or the given default when unbounded
func (p Promotion) LineLimit(lines int) int {
	if p.MaxLines != nil && *p.MaxLines < lines {
		return *p.MaxLines
	}
	return lines
}

// CapPerLine applies MaxPerLine to a per-line amount
func (p Promotion) CapPerLine(amount decimal.Decimal) decimal.Decimal {
	if p.MaxPerLine != nil && amount.GreaterThan(*p.MaxPerLine) {
		return *p.MaxPerLine
	}
	return amount
}

// DeepCopy returns a promotion that shares no memory with p
func (p Promotion) DeepCopy() Promotion {
	out := p
	if p.MaxLines != nil {
		v := *p.MaxLines
		out.MaxLines = &v
	}
	if p.MaxPerLine != nil {
		v := *p.MaxPerLine
		out.MaxPerLine = &v
	}
	out.Eligibility.Carriers = append([]string(nil), p.Eligibility.Carriers...)
	out.Eligibility.DeviceModels = append([]ModelID(nil), p.Eligibility.DeviceModels...)

	switch t := p.Terms.(type) {
	case TradeInTerms:
		t.EligibleTradeModels = append([]ModelID(nil), t.EligibleTradeModels...)
		out.Terms = t
	case SwitcherTerms:
		t.EligibleCarriers = append([]string(nil), t.EligibleCarriers...)
		out.Terms = t
	}
	return out
}

type promotionDocument struct {
	ID          PromotionID      `yaml:"id"`
	Kind        PromotionKind    `yaml:"kind"`
	Description string           `yaml:"description"`
	ValueAmount decimal.Decimal  `yaml:"value_amount"`
	Stackable   bool             `yaml:"stackable"`
	MaxLines    *int             `yaml:"max_lines"`
	MaxPerLine  *decimal.Decimal `yaml:"max_per_line"`
	Eligibility Eligibility      `yaml:"eligibility"`
	Terms       yaml.Node        `yaml:"terms"`
}

// UnmarshalYAML decodes the terms block according to the kind field
func (p *Promotion) UnmarshalYAML(value *yaml.Node) error {
	var doc promotionDocument
	if err := value.Decode(&doc); err != nil {
		return err
	}

	var terms PromotionTerms
	switch doc.Kind {
	case PromotionTradeIn:
		var t TradeInTerms
		if err := decodeTerms(&doc.Terms, &t); err != nil {
			return fmt.Errorf("promotion %s: %w", doc.ID, err)
		}
		terms = t
	case PromotionSwitcher:
		var t SwitcherTerms
		if err := decodeTerms(&doc.Terms, &t); err != nil {
			return fmt.Errorf("promotion %s: %w", doc.ID, err)
		}
		terms = t
	case PromotionBundle:
		var t BundleTerms
		if err := decodeTerms(&doc.Terms, &t); err != nil {
			return fmt.Errorf("promotion %s: %w", doc.ID, err)
		}
		terms = t
	case PromotionNewLine:
		var t NewLineTerms
		if err := decodeTerms(&doc.Terms, &t); err != nil {
			return fmt.Errorf("promotion %s: %w", doc.ID, err)
		}
		terms = t
	default:
		return fmt.Errorf("promotion %s: unknown kind %q", doc.ID, doc.Kind)
	}

	*p = Promotion{
		ID:          doc.ID,
		Description: doc.Description,
		ValueAmount: doc.ValueAmount,
		Stackable:   doc.Stackable,
		MaxLines:    doc.MaxLines,
		MaxPerLine:  doc.MaxPerLine,
		Eligibility: doc.Eligibility,
		Terms:       terms,
	}
	return p.Validate()
}

func decodeTerms(node *yaml.Node, out any) error {
	if node.Kind == 0 {
		return nil
	}
	if err := node.Decode(out); err != nil {
		return fmt.Errorf("invalid terms: %w", err)
	}
	return nil
}

// MarshalJSON includes the kind so encoded tables stay self-describing
func (p Promotion) MarshalJSON() ([]byte, error) {
	type plain Promotion
	return json.Marshal(struct {
		Kind PromotionKind `json:"kind"`
		plain
	}{Kind: p.Kind(), plain: plain(p)})
}

// ContainsFold reports whether list contains s, ignoring case and surrounding space
func ContainsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), s) {
			return true
		}
	}
	return false
}
