package domain

// Business constants applied when a request omits fee parameters. Amounts are
// MXN; percentages are fractions of the car sales price.
const (
	DefaultServiceFeePct = 0.04
	DefaultCXAPct        = 0.04
	DefaultKavakTotal    = 15000.0
	DefaultGPSInstallFee = 3800.0
	DefaultGPSMonthlyFee = 400.0

	// MaxCACBonus is the ceiling the hierarchical subsidy ladder is allowed
	// to spend per offer.
	MaxCACBonus = 15000.0
)

// DefaultTerms are the loan terms tried, in standard (ascending) order.
var DefaultTerms = []int{12, 24, 36, 48, 60, 72}

// DefaultFeeSet returns the max-profit fee parameterization.
func DefaultFeeSet() FeeSet {
	return FeeSet{
		ServiceFeePct:    DefaultServiceFeePct,
		CXAPct:           DefaultCXAPct,
		CACBonus:         0,
		KavakTotalAmount: DefaultKavakTotal,
		GPSInstallFee:    DefaultGPSInstallFee,
		GPSMonthlyFee:    DefaultGPSMonthlyFee,
	}
}

// DefaultTierBoundaries returns the standard payment-delta tiers.
func DefaultTierBoundaries() TierBoundaries {
	return TierBoundaries{
		Refresh:    Interval{Min: -0.10, Max: 0.10},
		Upgrade:    Interval{Min: 0.10, Max: 0.30},
		MaxUpgrade: Interval{Min: 0.30, Max: 0.60},
	}
}

// DefaultRangeConfig returns the default sweep box for range mode.
func DefaultRangeConfig() RangeConfig {
	return RangeConfig{
		ServiceFeePct:     ParamRange{Min: 0, Max: 0.05, Step: 0.01},
		CXAPct:            ParamRange{Min: 0, Max: 0.04, Step: 0.01},
		CACBonus:          ParamRange{Min: 0, Max: MaxCACBonus, Step: 5000},
		MaxOffersPerTier:  10,
		MaxCombinations:   500,
		EarlyStopOnOffers: 50,
		Smart:             false,
		SmartMaxIter:      200,
	}
}

// DefaultEngineConfig returns a complete hierarchical-strategy configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Strategy:          StrategyHierarchical,
		IncludeKavakTotal: true,
		MinNPVThreshold:   0,
		TermPriority:      TermPriorityStandard,
		Terms:             append([]int(nil), DefaultTerms...),
		Tiers:             DefaultTierBoundaries(),
		Fees:              DefaultFeeSet(),
		Range:             DefaultRangeConfig(),
	}
}

// ApplyDefaults fills zero-valued fields that have documented defaults.
// The composite fields (Tiers, Fees, Range) are defaulted as whole structs:
// an all-zero struct reads as "not provided" and is replaced. A request that
// genuinely wants every fee at zero must make the struct non-zero, for
// example by setting a non-nil InsuranceOverride.
func (c *EngineConfig) ApplyDefaults() {
	if c.Strategy == "" {
		c.Strategy = StrategyHierarchical
	}
	if c.TermPriority == "" {
		c.TermPriority = TermPriorityStandard
	}
	if len(c.Terms) == 0 {
		c.Terms = append([]int(nil), DefaultTerms...)
	}
	zero := TierBoundaries{}
	if c.Tiers == zero {
		c.Tiers = DefaultTierBoundaries()
	}
	if c.Fees == (FeeSet{}) {
		c.Fees = DefaultFeeSet()
	}
	if c.Range == (RangeConfig{}) {
		c.Range = DefaultRangeConfig()
	}
}
