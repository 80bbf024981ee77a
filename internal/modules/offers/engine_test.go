package offers

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavak/tradeup/internal/domain"
	"github.com/kavak/tradeup/internal/modules/finance"
	"github.com/kavak/tradeup/internal/modules/risktables"
)

type fakeCache struct {
	entries map[string]*domain.GenerateResult
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.GenerateResult)}
}

func (c *fakeCache) Get(key string) (*domain.GenerateResult, bool) {
	result, ok := c.entries[key]
	return result, ok
}

func (c *fakeCache) Put(key string, result *domain.GenerateResult) error {
	c.entries[key] = result
	c.puts++
	return nil
}

func scenarioCustomer() domain.Customer {
	return domain.Customer{
		ID:                    "cust-1",
		CurrentMonthlyPayment: 5000,
		VehicleEquity:         30000,
		OutstandingBalance:    70000,
		CurrentCarPrice:       100000,
		RiskProfile:           "A",
		RiskIndex:             2,
	}
}

func scenarioInventory() []domain.InventoryItem {
	return []domain.InventoryItem{
		{CarID: "car-1", Model: "SUV", SalesPrice: 150000},
		{CarID: "car-2", Model: "Hatchback", SalesPrice: 90000}, // cheaper, filtered
	}
}

func TestGenerateHappyPathWithDefaults(t *testing.T) {
	engine := NewEngine(risktables.Defaults(), nil, zerolog.Nop())

	result, err := engine.Generate(
		context.Background(),
		scenarioCustomer(),
		scenarioInventory(),
		domain.EngineConfig{}, // all defaults
		nil,
	)
	require.NoError(t, err)
	require.NotEmpty(t, result.Offers)

	assert.Equal(t, domain.StrategyHierarchical, result.Summary.Strategy)
	assert.Equal(t, "max_profit", result.Summary.PhaseUsed)
	assert.Equal(t, len(result.Offers), result.Summary.TotalOffers)
	assert.False(t, result.Summary.CacheHit)
	assert.False(t, result.Summary.Cancelled)

	// Only the more expensive car can appear.
	for _, offer := range result.Offers {
		assert.Equal(t, "car-1", offer.CarID)
		assert.NotEmpty(t, offer.Tier)
		assert.Greater(t, offer.MonthlyPayment, 0.0)
	}

	// Emission order: tier priority, NPV descending within tier.
	tierPos := map[string]int{domain.TierRefresh: 0, domain.TierUpgrade: 1, domain.TierMaxUpgrade: 2}
	for i := 1; i < len(result.Offers); i++ {
		prev, cur := result.Offers[i-1], result.Offers[i]
		if prev.Tier == cur.Tier {
			assert.GreaterOrEqual(t, prev.NPV, cur.NPV)
		} else {
			assert.Less(t, tierPos[prev.Tier], tierPos[cur.Tier])
		}
	}

	// Tier counts agree with the grouped view.
	for tier, group := range result.OffersByTier {
		assert.Equal(t, len(group), result.Summary.CountByTier[tier])
	}
}

func TestGenerateEmptyInventory(t *testing.T) {
	engine := NewEngine(risktables.Defaults(), nil, zerolog.Nop())

	result, err := engine.Generate(context.Background(), scenarioCustomer(), nil, domain.EngineConfig{}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Offers)
	assert.Empty(t, result.OffersByTier)
	assert.Zero(t, result.Summary.TotalOffers)
}

func TestGenerateValidatesCustomer(t *testing.T) {
	engine := NewEngine(risktables.Defaults(), nil, zerolog.Nop())

	bad := scenarioCustomer()
	bad.ID = ""
	bad.CurrentMonthlyPayment = 0
	bad.RiskProfile = "ZZ"

	_, err := engine.Generate(context.Background(), bad, scenarioInventory(), domain.EngineConfig{}, nil)
	var customerErr *domain.InvalidCustomerError
	require.ErrorAs(t, err, &customerErr)
	assert.GreaterOrEqual(t, len(customerErr.Errors), 3)
}

func TestGenerateValidatesConfig(t *testing.T) {
	engine := NewEngine(risktables.Defaults(), nil, zerolog.Nop())

	cfg := domain.DefaultEngineConfig()
	cfg.Strategy = "genetic"
	_, err := engine.Generate(context.Background(), scenarioCustomer(), nil, cfg, nil)
	var configErr *domain.InvalidConfigError
	assert.ErrorAs(t, err, &configErr)

	cfg = domain.DefaultEngineConfig()
	cfg.Tiers.Upgrade = domain.Interval{Min: 0.3, Max: 0.1}
	_, err = engine.Generate(context.Background(), scenarioCustomer(), nil, cfg, nil)
	assert.ErrorAs(t, err, &configErr)

	cfg = domain.DefaultEngineConfig()
	cfg.Terms = []int{36, -12}
	_, err = engine.Generate(context.Background(), scenarioCustomer(), nil, cfg, nil)
	assert.ErrorAs(t, err, &configErr)
}

func TestGenerateValidatesRanges(t *testing.T) {
	engine := NewEngine(risktables.Defaults(), nil, zerolog.Nop())

	cfg := domain.DefaultEngineConfig()
	cfg.Strategy = domain.StrategyRange
	cfg.Range.CACBonus.Step = 0

	_, err := engine.Generate(context.Background(), scenarioCustomer(), nil, cfg, nil)
	var rangeErr *domain.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "cac_bonus", rangeErr.Param)

	// The same malformed range is ignored by non-range strategies.
	cfg.Strategy = domain.StrategyHierarchical
	_, err = engine.Generate(context.Background(), scenarioCustomer(), nil, cfg, nil)
	assert.NoError(t, err)
}

func TestGenerateCacheRoundTrip(t *testing.T) {
	cache := newFakeCache()
	engine := NewEngine(risktables.Defaults(), cache, zerolog.Nop())

	first, err := engine.Generate(context.Background(), scenarioCustomer(), scenarioInventory(), domain.EngineConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, first.Summary.CacheHit)
	assert.Equal(t, 1, cache.puts)

	second, err := engine.Generate(context.Background(), scenarioCustomer(), scenarioInventory(), domain.EngineConfig{}, nil)
	require.NoError(t, err)
	assert.True(t, second.Summary.CacheHit)
	assert.Equal(t, 1, cache.puts, "hit must not rewrite the cache")
	assert.Equal(t, first.Offers, second.Offers)
}

func TestGenerateCacheKeyedByConfig(t *testing.T) {
	cache := newFakeCache()
	engine := NewEngine(risktables.Defaults(), cache, zerolog.Nop())

	_, err := engine.Generate(context.Background(), scenarioCustomer(), scenarioInventory(), domain.EngineConfig{}, nil)
	require.NoError(t, err)

	cfg := domain.DefaultEngineConfig()
	cfg.MinNPVThreshold = 1
	changed, err := engine.Generate(context.Background(), scenarioCustomer(), scenarioInventory(), cfg, nil)
	require.NoError(t, err)

	assert.False(t, changed.Summary.CacheHit, "different config must miss")
	assert.Equal(t, 2, cache.puts)
}

func TestGenerateCancelledRunNotCached(t *testing.T) {
	cache := newFakeCache()
	engine := NewEngine(risktables.Defaults(), cache, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Generate(ctx, scenarioCustomer(), scenarioInventory(), domain.EngineConfig{}, nil)
	require.NoError(t, err)
	assert.True(t, result.Summary.Cancelled)
	assert.Empty(t, result.Offers)
	assert.Zero(t, cache.puts)
}

func TestGenerateRangeStrategyCapsPerTier(t *testing.T) {
	engine := NewEngine(risktables.Defaults(), nil, zerolog.Nop())

	cfg := domain.DefaultEngineConfig()
	cfg.Strategy = domain.StrategyRange
	cfg.Range.MaxOffersPerTier = 1

	result, err := engine.Generate(context.Background(), scenarioCustomer(), scenarioInventory(), cfg, nil)
	require.NoError(t, err)
	for tier, group := range result.OffersByTier {
		assert.LessOrEqual(t, len(group), 1, "tier %s exceeds cap", tier)
	}
	assert.Greater(t, result.Summary.CombinationsTested, 0)
}

func TestEngineHash(t *testing.T) {
	engine := NewEngine(risktables.Defaults(), nil, zerolog.Nop())

	// Hash applies defaults first, so the zero config and the explicit
	// default config collapse to the same digest.
	zeroHash, err := engine.Hash(domain.EngineConfig{})
	require.NoError(t, err)
	defaultHash, err := engine.Hash(domain.DefaultEngineConfig())
	require.NoError(t, err)
	assert.Equal(t, defaultHash, zeroHash)
}

func TestAmortizationTableDelegates(t *testing.T) {
	engine := NewEngine(risktables.Defaults(), nil, zerolog.Nop())

	rows, err := engine.AmortizationTable(finance.LoanParams{
		LoanAmount:     100000,
		MonthlyPayment: 3800,
		TermMonths:     36,
		AnnualRate:     0.18,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rows)

	_, err = engine.AmortizationTable(finance.LoanParams{LoanAmount: -1, MonthlyPayment: 100, TermMonths: 12})
	var loanErr *domain.InvalidLoanParamsError
	assert.ErrorAs(t, err, &loanErr)
}
