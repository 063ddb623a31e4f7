package calculation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// Candidate is a promotion that qualifies for a target, with its credit resolved
type Candidate struct {
	Promotion domain.Promotion
	// Account marks account-level promotions, which all compete for one target
	Account bool
	// Line is the phone line the credit relates to, or -1
	Line   int
	Amount decimal.Decimal
}

func (c Candidate) target() int {
	if c.Account {
		return -1
	}
	return c.Line
}

// BundleContext carries the figures bundle credits are computed from
type BundleContext struct {
	ServiceShares        []decimal.Decimal
	MonthlyService       decimal.Decimal
	HomeInternetFee      decimal.Decimal
	HomeInternetIncluded bool
}

// PromotionEligibilityEngine decides which promotions apply to a configuration
type PromotionEligibilityEngine struct {
	tables *catalog.Snapshot
	policy domain.DefaultsPolicy
}

// NewPromotionEligibilityEngine creates an eligibility engine
func NewPromotionEligibilityEngine(tables *catalog.Snapshot, policy domain.DefaultsPolicy) *PromotionEligibilityEngine {
	return &PromotionEligibilityEngine{tables: tables, policy: policy}
}

// carrierAllowed checks a carrier list. An unknown carrier passes only when the
// policy assumes eligibility, and assumed reports that it did.
func (e *PromotionEligibilityEngine) carrierAllowed(carriers []string, cfg *domain.CustomerConfiguration) (allowed, assumed bool) {
	if len(carriers) == 0 {
		return true, false
	}
	name, known := cfg.CarrierName()
	if !known {
		return e.policy.AssumeEligibleWhenCarrierUnknown, e.policy.AssumeEligibleWhenCarrierUnknown
	}
	return domain.ContainsFold(carriers, name), false
}

// Eligible evaluates the account-level predicate of a promotion: customer status,
// carriers and minimum lines
func (e *PromotionEligibilityEngine) Eligible(p domain.Promotion, cfg *domain.CustomerConfiguration) (bool, []domain.Warning) {
	if !p.Eligibility.AllowsCustomer(cfg.IsExistingCustomer) {
		return false, nil
	}
	if p.Eligibility.MinLines > 0 && cfg.Lines < p.Eligibility.MinLines {
		return false, nil
	}
	allowed, assumed := e.carrierAllowed(p.Eligibility.Carriers, cfg)
	if !allowed {
		return false, nil
	}
	if assumed {
		return true, []domain.Warning{assumedCarrier(p)}
	}
	return true, nil
}

func assumedCarrier(p domain.Promotion) domain.Warning {
	return domain.Warning{
		Code:      domain.WarnAssumedCarrier,
		Message:   fmt.Sprintf("previous carrier unknown, assuming eligible for %s", p.ID),
		Reference: string(p.ID),
	}
}

// SwitcherOffer returns the switcher promotion a new customer qualifies for, if any.
// When several qualify the highest value wins, ties going to the lower id.
func (e *PromotionEligibilityEngine) SwitcherOffer(cfg *domain.CustomerConfiguration) (*domain.Promotion, []domain.Warning) {
	if cfg.IsExistingCustomer {
		return nil, nil
	}

	var best *domain.Promotion
	var bestWarnings []domain.Warning
	for _, p := range e.tables.PromotionsOfKind(domain.PromotionSwitcher) {
		ok, warnings := e.Eligible(p, cfg)
		if !ok {
			continue
		}
		terms := p.Terms.(domain.SwitcherTerms)
		allowed, assumed := e.carrierAllowed(terms.EligibleCarriers, cfg)
		if !allowed {
			continue
		}
		if assumed && len(warnings) == 0 {
			warnings = append(warnings, assumedCarrier(p))
		}
		if best == nil || outranks(p, *best) {
			promo := p
			best = &promo
			bestWarnings = warnings
		}
	}
	return best, bestWarnings
}

// TradeInEligible reports whether any line trades in a model the trade-in table knows
func (e *PromotionEligibilityEngine) TradeInEligible(cfg *domain.CustomerConfiguration) bool {
	for _, line := range cfg.Devices {
		if model, ok := line.TradeModel(); ok && e.tables.HasTradeInValue(model) {
			return true
		}
	}
	return false
}

// SwitcherAmount is the reimbursement one line can receive: the per-line cap, or
// the known payoff balance when that is lower
func (e *PromotionEligibilityEngine) SwitcherAmount(p domain.Promotion, line domain.DeviceLine) decimal.Decimal {
	if !p.Eligibility.AllowsDevice(line) {
		return decimal.Zero
	}
	amount := decimal.Zero
	if p.MaxPerLine != nil {
		amount = *p.MaxPerLine
	}
	if line.PayoffBalance != nil {
		amount = decimal.Min(amount, *line.PayoffBalance)
	}
	return clampZero(p.CapPerLine(amount)).Round(2)
}

// SwitcherCandidates reimburses the given lines, in line order, up to MaxLines lines
func (e *PromotionEligibilityEngine) SwitcherCandidates(cfg *domain.CustomerConfiguration, offer domain.Promotion, lines []int) []Candidate {
	limit := offer.LineLimit(cfg.Lines)
	var out []Candidate
	for _, i := range lines {
		if len(out) >= limit {
			break
		}
		amount := e.SwitcherAmount(offer, cfg.Devices[i])
		if !amount.IsPositive() {
			continue
		}
		out = append(out, Candidate{Promotion: offer, Line: i, Amount: amount})
	}
	return out
}

// TradeInCandidates finds trade-in bonus credits for lines that trade a device toward a new one
func (e *PromotionEligibilityEngine) TradeInCandidates(cfg *domain.CustomerConfiguration, lines []int) ([]Candidate, []domain.Warning) {
	var out []Candidate
	var warnings []domain.Warning
	for _, p := range e.tables.PromotionsOfKind(domain.PromotionTradeIn) {
		ok, w := e.Eligible(p, cfg)
		if !ok {
			continue
		}
		terms := p.Terms.(domain.TradeInTerms)
		limit := p.LineLimit(cfg.Lines)
		count := 0
		for _, i := range lines {
			if count >= limit {
				break
			}
			line := cfg.Devices[i]
			model, trades := line.TradeModel()
			if !trades || !line.HasNewDevice() || !terms.AcceptsTrade(model) || !p.Eligibility.AllowsDevice(line) {
				continue
			}
			out = append(out, Candidate{Promotion: p, Line: i, Amount: p.CapPerLine(terms.Credit).Round(2)})
			count++
		}
		if count > 0 {
			warnings = append(warnings, w...)
		}
	}
	return out, warnings
}

// NewLineCandidates credits new-device lines opened by a new customer
func (e *PromotionEligibilityEngine) NewLineCandidates(cfg *domain.CustomerConfiguration) ([]Candidate, []domain.Warning) {
	if cfg.IsExistingCustomer {
		return nil, nil
	}
	var out []Candidate
	var warnings []domain.Warning
	for _, p := range e.tables.PromotionsOfKind(domain.PromotionNewLine) {
		ok, w := e.Eligible(p, cfg)
		if !ok {
			continue
		}
		terms := p.Terms.(domain.NewLineTerms)
		limit := p.LineLimit(cfg.Lines)
		count := 0
		for i, line := range cfg.Devices {
			if count >= limit {
				break
			}
			if !line.HasNewDevice() || !p.Eligibility.AllowsDevice(line) {
				continue
			}
			out = append(out, Candidate{Promotion: p, Line: i, Amount: p.CapPerLine(terms.CreditPerLine).Round(2)})
			count++
		}
		if count > 0 {
			warnings = append(warnings, w...)
		}
	}
	return out, warnings
}

// BundleCandidates evaluates the account-level bundle promotions
func (e *PromotionEligibilityEngine) BundleCandidates(cfg *domain.CustomerConfiguration, bc BundleContext) ([]Candidate, []domain.Warning) {
	var out []Candidate
	var warnings []domain.Warning
	for _, p := range e.tables.PromotionsOfKind(domain.PromotionBundle) {
		ok, w := e.Eligible(p, cfg)
		if !ok {
			continue
		}

		terms := p.Terms.(domain.BundleTerms)
		candidate := Candidate{Promotion: p, Account: true, Line: -1}
		switch terms.Benefit {
		case domain.BenefitFreeLine:
			if terms.LineNumber > len(bc.ServiceShares) {
				continue
			}
			candidate.Line = terms.LineNumber - 1
			candidate.Amount = p.CapPerLine(bc.ServiceShares[candidate.Line])
		case domain.BenefitFreeHomeInternet:
			if !cfg.AccessoryLines.HomeInternet || bc.HomeInternetIncluded {
				continue
			}
			candidate.Amount = bc.HomeInternetFee
		case domain.BenefitPercentOffService:
			candidate.Amount = bc.MonthlyService.Mul(terms.Percent)
		}

		candidate.Amount = clampZero(candidate.Amount).Round(2)
		if candidate.Amount.IsPositive() {
			out = append(out, candidate)
			warnings = append(warnings, w...)
		}
	}
	return out, warnings
}

// outranks orders conflicting promotions: higher value first, then lower id
func outranks(a, b domain.Promotion) bool {
	if !a.ValueAmount.Equal(b.ValueAmount) {
		return a.ValueAmount.GreaterThan(b.ValueAmount)
	}
	return a.ID < b.ID
}

// Resolve applies the stacking rule. Candidates are grouped by target (phone line,
// or the account); within a group one non-stackable promotion survives and every
// stackable one applies. Output is ordered by line, account last, then by promotion id.
func Resolve(candidates []Candidate) []domain.AppliedPromotion {
	groups := make(map[int][]Candidate)
	for _, c := range candidates {
		if !c.Amount.IsPositive() {
			continue
		}
		groups[c.target()] = append(groups[c.target()], c)
	}

	targets := make([]int, 0, len(groups))
	for t := range groups {
		targets = append(targets, t)
	}
	// account (-1) sorts after every line
	sort.Slice(targets, func(i, j int) bool {
		a, b := targets[i], targets[j]
		if a == -1 || b == -1 {
			return b == -1 && a != -1
		}
		return a < b
	})

	applied := make([]domain.AppliedPromotion, 0, len(candidates))
	for _, t := range targets {
		var exclusive *Candidate
		var winners []Candidate
		for _, c := range groups[t] {
			if c.Promotion.Stackable {
				winners = append(winners, c)
				continue
			}
			if exclusive == nil || outranks(c.Promotion, exclusive.Promotion) {
				chosen := c
				exclusive = &chosen
			}
		}
		if exclusive != nil {
			winners = append(winners, *exclusive)
		}
		sort.SliceStable(winners, func(i, j int) bool {
			return winners[i].Promotion.ID < winners[j].Promotion.ID
		})

		for _, c := range winners {
			applied = append(applied, toApplied(c))
		}
	}
	return applied
}

func toApplied(c Candidate) domain.AppliedPromotion {
	description := c.Promotion.Description
	if description == "" {
		description = string(c.Promotion.ID)
	}
	out := domain.AppliedPromotion{
		PromotionID:  c.Promotion.ID,
		Kind:         c.Promotion.Kind(),
		CreditAmount: c.Amount,
		Description:  description,
	}
	if c.Line >= 0 {
		line := c.Line
		out.TargetLineIndex = &line
	}
	return out
}
