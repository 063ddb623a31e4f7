package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// Snapshot is IMMUTABLE after creation. Every lookup of one quote goes through the
// same snapshot, so a reload mid-computation is never observed.
type Snapshot struct {
	version  string
	hash     string
	document []byte

	plans         map[domain.PlanID]domain.Plan
	jurisdictions map[domain.JurisdictionID]domain.TaxJurisdiction
	devices       map[domain.ModelID]domain.DeviceModel
	tradeIn       map[domain.ModelID]decimal.Decimal
	promotions    []domain.Promotion
	tiers         map[domain.TierID]domain.InsuranceTier
	tierMap       map[domain.ModelID]domain.TierID
	defaultTier   domain.TierID
	accessory     domain.AccessoryRates
	rules         domain.Rules
}

// NewSnapshot validates the tables and seals them. The caller may keep editing
// its Tables value afterwards without affecting the snapshot.
func NewSnapshot(tables *Tables) (*Snapshot, error) {
	if tables == nil {
		return nil, &TableError{Table: "tables", Reason: "no tables provided"}
	}
	if err := tables.validate(); err != nil {
		return nil, err
	}

	// canonical encoding doubles as a deep copy of the caller's data
	canonical := *tables
	canonical.Plans = sortedCopy(tables.Plans, func(p domain.Plan) string { return string(p.ID) })
	canonical.Jurisdictions = sortedCopy(tables.Jurisdictions, func(j domain.TaxJurisdiction) string { return string(j.ID) })
	canonical.Devices = sortedCopy(tables.Devices, func(d domain.DeviceModel) string { return string(d.ID) })
	canonical.Promotions = sortedCopy(tables.Promotions, func(p domain.Promotion) string { return string(p.ID) })
	for i := range canonical.Promotions {
		canonical.Promotions[i] = canonical.Promotions[i].DeepCopy()
	}
	canonical.InsuranceTiers = sortedCopy(tables.InsuranceTiers, func(t domain.InsuranceTier) string { return string(t.ID) })
	if canonical.AccessoryRates == nil {
		rates := domain.DefaultAccessoryRates()
		canonical.AccessoryRates = &rates
	}
	if canonical.Rules == nil {
		rules := domain.DefaultRules()
		canonical.Rules = &rules
	}

	document, err := json.Marshal(canonical)
	if err != nil {
		return nil, &TableError{Table: "tables", Reason: "failed to encode", Err: err}
	}
	sum := sha256.Sum256(document)

	var sealed sealedTables
	if err := json.Unmarshal(document, &sealed); err != nil {
		return nil, &TableError{Table: "tables", Reason: "failed to copy", Err: err}
	}

	snap := &Snapshot{
		version:       tables.Version,
		hash:          hex.EncodeToString(sum[:]),
		document:      document,
		plans:         make(map[domain.PlanID]domain.Plan, len(sealed.Plans)),
		jurisdictions: make(map[domain.JurisdictionID]domain.TaxJurisdiction, len(sealed.Jurisdictions)),
		devices:       make(map[domain.ModelID]domain.DeviceModel, len(sealed.Devices)),
		tradeIn:       sealed.TradeInValues,
		promotions:    canonical.Promotions,
		tiers:         make(map[domain.TierID]domain.InsuranceTier, len(sealed.InsuranceTiers)),
		tierMap:       sealed.InsuranceTierMap,
		defaultTier:   sealed.DefaultTier,
		accessory:     sealed.AccessoryRates,
		rules:         sealed.Rules,
	}
	for _, p := range sealed.Plans {
		snap.plans[p.ID] = p
	}
	for _, j := range sealed.Jurisdictions {
		snap.jurisdictions[j.ID] = j
	}
	for _, d := range sealed.Devices {
		snap.devices[d.ID] = d
	}
	for _, t := range sealed.InsuranceTiers {
		snap.tiers[t.ID] = t
	}
	return snap, nil
}

// sealedTables mirrors Tables without the promotion union, which is copied separately
type sealedTables struct {
	Plans            []domain.Plan                      `json:"plans"`
	Jurisdictions    []domain.TaxJurisdiction           `json:"jurisdictions"`
	Devices          []domain.DeviceModel               `json:"devices"`
	TradeInValues    map[domain.ModelID]decimal.Decimal `json:"tradeInValues"`
	InsuranceTiers   []domain.InsuranceTier             `json:"insuranceTiers"`
	InsuranceTierMap map[domain.ModelID]domain.TierID   `json:"insuranceTierMap"`
	DefaultTier      domain.TierID                      `json:"defaultTier"`
	AccessoryRates   domain.AccessoryRates              `json:"accessoryRates"`
	Rules            domain.Rules                       `json:"rules"`
}

func sortedCopy[T any](items []T, key func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

// Version returns the version label of the tables
func (s *Snapshot) Version() string { return s.version }

// Hash returns the sha256 of the canonical table encoding
func (s *Snapshot) Hash() string { return s.hash }

// MarshalJSON returns the canonical encoding the hash was computed over
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := make([]byte, len(s.document))
	copy(out, s.document)
	return out, nil
}

// Plan looks up a rate plan. The result is a copy.
func (s *Snapshot) Plan(id domain.PlanID) (domain.Plan, error) {
	p, ok := s.plans[id]
	if !ok {
		return domain.Plan{}, &domain.UnknownReferenceError{Kind: domain.RefPlan, ID: string(id)}
	}
	return p.DeepCopy(), nil
}

// Jurisdiction looks up a tax jurisdiction
func (s *Snapshot) Jurisdiction(id domain.JurisdictionID) (domain.TaxJurisdiction, error) {
	j, ok := s.jurisdictions[id]
	if !ok {
		return domain.TaxJurisdiction{}, &domain.UnknownReferenceError{Kind: domain.RefJurisdiction, ID: string(id)}
	}
	return j, nil
}

// Device looks up a catalog device of any kind
func (s *Snapshot) Device(id domain.ModelID) (domain.DeviceModel, error) {
	d, ok := s.devices[id]
	if !ok {
		return domain.DeviceModel{}, &domain.UnknownReferenceError{Kind: domain.RefDevice, ID: string(id)}
	}
	return d.DeepCopy(), nil
}

// TradeInValue looks up the trade-in table value of a model
func (s *Snapshot) TradeInValue(id domain.ModelID) (decimal.Decimal, error) {
	v, ok := s.tradeIn[id]
	if !ok {
		return decimal.Zero, &domain.UnknownReferenceError{Kind: domain.RefTradeIn, ID: string(id)}
	}
	return v, nil
}

// HasTradeInValue reports whether the model is in the trade-in table
func (s *Snapshot) HasTradeInValue(id domain.ModelID) bool {
	_, ok := s.tradeIn[id]
	return ok
}

// InsuranceTierFor maps a device to its coverage tier. Unmapped models and lines
// without a model get the default tier.
func (s *Snapshot) InsuranceTierFor(model *domain.ModelID) (domain.InsuranceTier, error) {
	if model != nil {
		if id, ok := s.tierMap[*model]; ok {
			return s.tier(id)
		}
	}
	return s.tier(s.defaultTier)
}

func (s *Snapshot) tier(id domain.TierID) (domain.InsuranceTier, error) {
	tier, ok := s.tiers[id]
	if !ok {
		return domain.InsuranceTier{}, &domain.UnknownReferenceError{Kind: domain.RefInsurance, ID: string(id)}
	}
	return tier.DeepCopy(), nil
}

// Promotions returns the promotion definitions ordered by id
func (s *Snapshot) Promotions() []domain.Promotion {
	out := make([]domain.Promotion, len(s.promotions))
	for i, p := range s.promotions {
		out[i] = p.DeepCopy()
	}
	return out
}

// PromotionsOfKind filters Promotions by variant
func (s *Snapshot) PromotionsOfKind(kind domain.PromotionKind) []domain.Promotion {
	var out []domain.Promotion
	for _, p := range s.promotions {
		if p.Kind() == kind {
			out = append(out, p.DeepCopy())
		}
	}
	return out
}

// AccessoryRates returns the accessory line pricing
func (s *Snapshot) AccessoryRates() domain.AccessoryRates { return s.accessory }

// Rules returns the scalar pricing rules
func (s *Snapshot) Rules() domain.Rules { return s.rules }

// Summary counts the entries of each table
type Summary struct {
	Version       string `json:"version"`
	Hash          string `json:"hash"`
	Plans         int    `json:"plans"`
	Jurisdictions int    `json:"jurisdictions"`
	Devices       int    `json:"devices"`
	TradeInModels int    `json:"tradeInModels"`
	Promotions    int    `json:"promotions"`
	Tiers         int    `json:"insuranceTiers"`
}

// Summary describes the snapshot for display
func (s *Snapshot) Summary() Summary {
	return Summary{
		Version:       s.version,
		Hash:          s.hash,
		Plans:         len(s.plans),
		Jurisdictions: len(s.jurisdictions),
		Devices:       len(s.devices),
		TradeInModels: len(s.tradeIn),
		Promotions:    len(s.promotions),
		Tiers:         len(s.tiers),
	}
}

// PlanIDs lists the plan ids in order
func (s *Snapshot) PlanIDs() []domain.PlanID {
	ids := make([]domain.PlanID, 0, len(s.plans))
	for id := range s.plans {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
