// Package domain contains the core types shared across the trade-up engine.
// The domain layer is pure: no infrastructure dependencies.
package domain

// Strategy selects which search strategy the engine runs.
type Strategy string

const (
	StrategyHierarchical Strategy = "hierarchical"
	StrategyCustom       Strategy = "custom"
	StrategyRange        Strategy = "range"
)

// TermPriority controls the order in which loan terms are tried.
type TermPriority string

const (
	TermPriorityStandard     TermPriority = "standard"
	TermPriorityShorterFirst TermPriority = "shorter_first"
	TermPriorityLongerFirst  TermPriority = "longer_first"
)

// Tier names, in priority order. The order is load-bearing: overlapping tier
// boundaries are resolved by the first matching tier in this order.
const (
	TierRefresh    = "refresh"
	TierUpgrade    = "upgrade"
	TierMaxUpgrade = "max_upgrade"
)

// TierOrder is the canonical tier iteration and emission order.
var TierOrder = []string{TierRefresh, TierUpgrade, TierMaxUpgrade}

// Customer is the current loan and equity position of one customer.
// Immutable within a request.
type Customer struct {
	ID                    string  `json:"id"`
	CurrentMonthlyPayment float64 `json:"current_monthly_payment"`
	VehicleEquity         float64 `json:"vehicle_equity"` // may be <= 0
	OutstandingBalance    float64 `json:"outstanding_balance"`
	CurrentCarPrice       float64 `json:"current_car_price"`
	RiskProfile           string  `json:"risk_profile"`
	RiskIndex             int     `json:"risk_index"`
}

// InventoryItem is one replacement vehicle candidate. The metadata fields are
// informational only; they never affect offer math.
type InventoryItem struct {
	CarID      string  `json:"car_id"`
	Model      string  `json:"model"`
	SalesPrice float64 `json:"sales_price"`
	Region     string  `json:"region,omitempty"`
	Kilometers int     `json:"kilometers,omitempty"`
	Color      string  `json:"color,omitempty"`
	Promotion  string  `json:"promotion,omitempty"`
}

// FeeSet is one concrete fee parameterization tried by a strategy.
//
// ServiceFeePct and CXAPct are fractions of the car sales price. CACBonus and
// KavakTotalAmount are absolute amounts. InsuranceOverride, when non-nil,
// replaces the risk-table insurance amount (a zero override is meaningful and
// disables the insurance bucket). GPS fees are pre-tax; the installation fee is
// one-time and never financed, the monthly fee is added to every payment.
type FeeSet struct {
	ServiceFeePct     float64  `json:"service_fee_pct"`
	CXAPct            float64  `json:"cxa_pct"`
	CACBonus          float64  `json:"cac_bonus"`
	KavakTotalAmount  float64  `json:"kavak_total_amount"`
	InsuranceOverride *float64 `json:"insurance_override,omitempty"`
	GPSInstallFee     float64  `json:"gps_install_fee"`
	GPSMonthlyFee     float64  `json:"gps_monthly_fee"`
}

// Interval is a closed interval [Min, Max] on the signed payment-delta ratio.
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether d falls inside the interval (inclusive ends).
func (iv Interval) Contains(d float64) bool {
	return d >= iv.Min && d <= iv.Max
}

// TierBoundaries holds the payment-delta intervals for the three tiers.
type TierBoundaries struct {
	Refresh    Interval `json:"refresh"`
	Upgrade    Interval `json:"upgrade"`
	MaxUpgrade Interval `json:"max_upgrade"`
}

// ByName returns the interval for a tier name in TierOrder.
func (tb TierBoundaries) ByName(name string) (Interval, bool) {
	switch name {
	case TierRefresh:
		return tb.Refresh, true
	case TierUpgrade:
		return tb.Upgrade, true
	case TierMaxUpgrade:
		return tb.MaxUpgrade, true
	}
	return Interval{}, false
}

// ParamRange is an inclusive [Min, Max] sweep with a positive Step.
type ParamRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// RangeConfig parameterizes the range-optimization strategy.
type RangeConfig struct {
	ServiceFeePct     ParamRange `json:"service_fee_pct"`
	CXAPct            ParamRange `json:"cxa_pct"`
	CACBonus          ParamRange `json:"cac_bonus"`
	MaxOffersPerTier  int        `json:"max_offers_per_tier"`
	MaxCombinations   int        `json:"max_combinations_to_test"`
	EarlyStopOnOffers int        `json:"early_stop_on_offers"`
	Smart             bool       `json:"smart"`
	SmartMaxIter      int        `json:"smart_max_iter"`
}

// EngineConfig is the full engine configuration for one generate call.
// The canonical JSON form of this struct (sorted keys, %.10g floats,
// last_updated stripped) is what the config hash and the config store use.
type EngineConfig struct {
	Strategy          Strategy       `json:"strategy"`
	IncludeKavakTotal bool           `json:"include_kavak_total"`
	MinNPVThreshold   float64        `json:"min_npv_threshold"`
	TermPriority      TermPriority   `json:"term_priority"`
	Terms             []int          `json:"terms,omitempty"`
	Tiers             TierBoundaries `json:"tiers"`
	Fees              FeeSet         `json:"fees"`
	Range             RangeConfig    `json:"range"`
}

// Offer is one fully-costed trade-up proposal. Immutable once finalized.
type Offer struct {
	CarID             string  `json:"car_id"`
	CarModel          string  `json:"car_model"`
	TermMonths        int     `json:"term_months"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	PaymentDelta      float64 `json:"payment_delta"`
	LoanAmount        float64 `json:"loan_amount"`
	TotalFinanced     float64 `json:"total_financed"`
	EffectiveEquity   float64 `json:"effective_equity"`
	ServiceFeeAmount  float64 `json:"service_fee_amount"`
	CXAAmount         float64 `json:"cxa_amount"`
	CACBonus          float64 `json:"cac_bonus"`
	KavakTotalAmount  float64 `json:"kavak_total_amount"`
	InsuranceAmount   float64 `json:"insurance_amount"`
	GPSInstallWithTax float64 `json:"gps_install_with_tax"`
	GPSMonthlyWithTax float64 `json:"gps_monthly_with_tax"`
	InterestRate      float64 `json:"interest_rate"`
	NPV               float64 `json:"npv"`
	Fees              FeeSet  `json:"fees"`
	Tier              string  `json:"tier,omitempty"`
	NPVRankWithinTier int     `json:"npv_rank_within_tier,omitempty"`
}

// Summary carries per-run counters alongside the finalized offers.
type Summary struct {
	Strategy           Strategy       `json:"strategy"`
	TotalOffers        int            `json:"total_offers"`
	CountByTier        map[string]int `json:"count_by_tier"`
	CombinationsTested int            `json:"combinations_tested,omitempty"`
	PhaseUsed          string         `json:"phase_used,omitempty"`
	Cancelled          bool           `json:"cancelled"`
	CacheHit           bool           `json:"cache_hit"`
}

// GenerateResult is the finalized output of one engine run. Offers are in
// emission order (tier priority ascending, NPV descending within tier);
// OffersByTier groups the same offers by tier name.
type GenerateResult struct {
	Offers       []Offer            `json:"offers"`
	OffersByTier map[string][]Offer `json:"offers_by_tier"`
	Summary      Summary            `json:"summary"`
}
