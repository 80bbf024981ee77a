// Package offers implements the trade-up offer generation engine: the offer
// evaluator, the three search strategies, the finalizer and the configuration
// hash. The engine is CPU-bound and performs no blocking calls of its own;
// hosts wrap it with HTTP, SSE or caching as needed.
package offers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kavak/tradeup/internal/domain"
	"github.com/kavak/tradeup/internal/modules/finance"
)

// OfferCache is the engine's view of the offer cache. Implementations must be
// safe for concurrent use; both operations are best-effort from the engine's
// perspective.
type OfferCache interface {
	Get(key string) (*domain.GenerateResult, bool)
	Put(key string, result *domain.GenerateResult) error
}

// Engine wires the evaluator, strategies and finalizer behind the three
// public operations: Generate, AmortizationTable and ConfigHash.
type Engine struct {
	tables    *domain.RiskTables
	cache     OfferCache
	evaluator *Evaluator
	log       zerolog.Logger
}

// NewEngine creates an engine. Risk tables are injected so tests can supply
// fixtures; cache may be nil to disable caching.
func NewEngine(tables *domain.RiskTables, cache OfferCache, log zerolog.Logger) *Engine {
	return &Engine{
		tables:    tables,
		cache:     cache,
		evaluator: NewEvaluator(tables),
		log:       log.With().Str("component", "offer_engine").Logger(),
	}
}

// Generate runs the configured strategy for one customer over an inventory
// and returns the finalized, tier-partitioned offer set.
//
// Validation failures return typed errors; an infeasible search returns a
// successful empty result. Cancellation (via ctx) returns an empty result
// with Cancelled set and never writes to the cache. Cache failures are logged
// and otherwise invisible to the caller.
func (e *Engine) Generate(
	ctx context.Context,
	customer domain.Customer,
	inventory []domain.InventoryItem,
	cfg domain.EngineConfig,
	progress ProgressFunc,
) (*domain.GenerateResult, error) {
	cfg.ApplyDefaults()

	if err := e.validateCustomer(customer); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Strategy == domain.StrategyRange {
		if err := ValidateRangeConfig(cfg.Range); err != nil {
			return nil, err
		}
	}

	hash, err := ConfigHash(cfg)
	if err != nil {
		return nil, &domain.InvalidConfigError{Message: err.Error()}
	}
	key := CacheKey(customer.ID, hash)

	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			result := *cached
			result.Summary.CacheHit = true
			e.log.Debug().Str("cache_key", key).Msg("Offer cache hit")
			return &result, nil
		}
	}

	baseRate, ok := e.tables.BaseRate(customer.RiskProfile)
	if !ok {
		// Unreachable after validation; kept as a guard.
		return nil, &domain.InvalidCustomerError{Errors: domain.ValidationErrors{
			{Field: "risk_profile", Message: "unknown risk profile " + customer.RiskProfile},
		}}
	}

	strategy := e.strategyFor(cfg.Strategy)
	in := RunInput{
		Customer:       customer,
		Inventory:      inventory,
		BaseRate:       baseRate,
		Config:         cfg,
		CurrentPayment: customer.CurrentMonthlyPayment,
		Progress:       progress,
	}

	raw, stats := strategy.Run(ctx, in)

	summary := domain.Summary{
		Strategy:           cfg.Strategy,
		CombinationsTested: stats.CombinationsTested,
		PhaseUsed:          stats.PhaseUsed,
		Cancelled:          stats.Cancelled,
		CountByTier:        map[string]int{},
	}

	if stats.Cancelled {
		return &domain.GenerateResult{
			Offers:       []domain.Offer{},
			OffersByTier: map[string][]domain.Offer{},
			Summary:      summary,
		}, nil
	}

	maxPerTier := 0
	if cfg.Strategy == domain.StrategyRange {
		maxPerTier = cfg.Range.MaxOffersPerTier
	}
	ordered, byTier := Finalize(raw, customer.CurrentMonthlyPayment, cfg.Tiers, maxPerTier)

	summary.TotalOffers = len(ordered)
	for tier, group := range byTier {
		summary.CountByTier[tier] = len(group)
	}

	result := &domain.GenerateResult{
		Offers:       ordered,
		OffersByTier: byTier,
		Summary:      summary,
	}

	if e.cache != nil {
		if err := e.cache.Put(key, result); err != nil {
			e.log.Warn().Err(err).Str("cache_key", key).Msg("Offer cache write failed")
		}
	}
	return result, nil
}

// AmortizationTable builds the month-by-month schedule for an offer summary.
func (e *Engine) AmortizationTable(params finance.LoanParams) ([]finance.ScheduleRow, error) {
	return finance.AmortizationSchedule(params)
}

// Hash exposes the canonical configuration hash as an engine operation.
func (e *Engine) Hash(cfg domain.EngineConfig) (string, error) {
	cfg.ApplyDefaults()
	return ConfigHash(cfg)
}

func (e *Engine) strategyFor(name domain.Strategy) SearchStrategy {
	switch name {
	case domain.StrategyCustom:
		return NewCustomStrategy(e.evaluator, e.log)
	case domain.StrategyRange:
		return NewRangeStrategy(e.evaluator, e.log)
	default:
		return NewHierarchicalStrategy(e.evaluator, e.log)
	}
}

func (e *Engine) validateCustomer(c domain.Customer) error {
	var errs domain.ValidationErrors
	if c.ID == "" {
		errs = append(errs, domain.ValidationError{Field: "id", Message: "is required"})
	}
	if c.CurrentMonthlyPayment <= 0 {
		errs = append(errs, domain.ValidationError{Field: "current_monthly_payment", Message: "must be > 0"})
	}
	if c.CurrentCarPrice <= 0 {
		errs = append(errs, domain.ValidationError{Field: "current_car_price", Message: "must be > 0"})
	}
	if c.RiskIndex < 0 {
		errs = append(errs, domain.ValidationError{Field: "risk_index", Message: "must be >= 0"})
	}
	if !e.tables.KnownProfile(c.RiskProfile) {
		errs = append(errs, domain.ValidationError{Field: "risk_profile", Message: "unknown risk profile"})
	}
	if len(errs) > 0 {
		return &domain.InvalidCustomerError{Errors: errs}
	}
	return nil
}

func validateConfig(cfg domain.EngineConfig) error {
	switch cfg.Strategy {
	case domain.StrategyHierarchical, domain.StrategyCustom, domain.StrategyRange:
	default:
		return &domain.InvalidConfigError{Message: "unknown strategy " + string(cfg.Strategy)}
	}
	switch cfg.TermPriority {
	case domain.TermPriorityStandard, domain.TermPriorityShorterFirst, domain.TermPriorityLongerFirst:
	default:
		return &domain.InvalidConfigError{Message: "unknown term_priority " + string(cfg.TermPriority)}
	}
	for _, name := range domain.TierOrder {
		interval, _ := cfg.Tiers.ByName(name)
		if interval.Max < interval.Min {
			return &domain.InvalidConfigError{Message: "tier " + name + " has max < min"}
		}
	}
	for _, term := range cfg.Terms {
		if term <= 0 {
			return &domain.InvalidConfigError{Message: "terms must be > 0"}
		}
	}
	return nil
}
