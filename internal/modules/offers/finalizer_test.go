package offers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavak/tradeup/internal/domain"
)

func TestClassifyTierFirstMatchOnOverlap(t *testing.T) {
	boundaries := domain.DefaultTierBoundaries()

	// 0.10 is the shared endpoint of refresh and upgrade.
	tier, ok := ClassifyTier(0.10, boundaries)
	require.True(t, ok)
	assert.Equal(t, domain.TierRefresh, tier)

	// 0.30 is the shared endpoint of upgrade and max_upgrade.
	tier, ok = ClassifyTier(0.30, boundaries)
	require.True(t, ok)
	assert.Equal(t, domain.TierUpgrade, tier)

	_, ok = ClassifyTier(0.61, boundaries)
	assert.False(t, ok)

	_, ok = ClassifyTier(-0.5, boundaries)
	assert.False(t, ok)
}

// rawOffer builds a finalizer input offer whose delta is implied by the
// monthly payment against a current payment of 1000.
func rawOffer(carID string, term int, monthlyPayment, npv float64) domain.Offer {
	return domain.Offer{
		CarID:          carID,
		TermMonths:     term,
		MonthlyPayment: monthlyPayment,
		NPV:            npv,
	}
}

func TestFinalizeAssignsTiersAndOrders(t *testing.T) {
	boundaries := domain.DefaultTierBoundaries()

	raw := []domain.Offer{
		rawOffer("car-max", 36, 1400, 900), // delta 0.40 -> max_upgrade
		rawOffer("car-up", 36, 1200, 500),  // delta 0.20 -> upgrade
		rawOffer("car-a", 36, 1050, 300),   // delta 0.05 -> refresh
		rawOffer("car-b", 36, 1000, 700),   // delta 0.00 -> refresh
		rawOffer("car-out", 36, 2500, 999), // delta 1.50 -> dropped
	}

	ordered, byTier := Finalize(raw, 1000, boundaries, 0)
	require.Len(t, ordered, 4)

	// Tier priority order, NPV descending within each tier.
	assert.Equal(t, "car-b", ordered[0].CarID)
	assert.Equal(t, "car-a", ordered[1].CarID)
	assert.Equal(t, "car-up", ordered[2].CarID)
	assert.Equal(t, "car-max", ordered[3].CarID)

	assert.Len(t, byTier[domain.TierRefresh], 2)
	assert.Len(t, byTier[domain.TierUpgrade], 1)
	assert.Len(t, byTier[domain.TierMaxUpgrade], 1)

	for _, offer := range ordered {
		assert.NotEmpty(t, offer.Tier)
	}
}

func TestFinalizeDeduplicatesByCarAndTerm(t *testing.T) {
	boundaries := domain.DefaultTierBoundaries()

	raw := []domain.Offer{
		rawOffer("car-1", 36, 1050, 300),
		rawOffer("car-1", 36, 1050, 800), // same (car, term), higher NPV wins
		rawOffer("car-1", 36, 1050, 500),
		rawOffer("car-1", 48, 1050, 200), // different term survives separately
	}

	ordered, _ := Finalize(raw, 1000, boundaries, 0)
	require.Len(t, ordered, 2)
	assert.InDelta(t, 800.0, ordered[0].NPV, 1e-12)
	assert.InDelta(t, 200.0, ordered[1].NPV, 1e-12)
}

func TestFinalizeDenseRank(t *testing.T) {
	boundaries := domain.DefaultTierBoundaries()

	raw := []domain.Offer{
		rawOffer("car-1", 36, 1050, 500),
		rawOffer("car-2", 36, 1050, 500), // equal NPV shares the rank
		rawOffer("car-3", 36, 1050, 300),
	}

	ordered, _ := Finalize(raw, 1000, boundaries, 0)
	require.Len(t, ordered, 3)
	assert.Equal(t, 1, ordered[0].NPVRankWithinTier)
	assert.Equal(t, 1, ordered[1].NPVRankWithinTier)
	assert.Equal(t, 2, ordered[2].NPVRankWithinTier)
}

func TestFinalizePerTierCap(t *testing.T) {
	boundaries := domain.DefaultTierBoundaries()

	raw := []domain.Offer{
		rawOffer("car-1", 36, 1050, 500),
		rawOffer("car-2", 36, 1050, 400),
		rawOffer("car-3", 36, 1050, 300),
		rawOffer("car-4", 36, 1200, 900), // upgrade tier, unaffected by cap below its size
	}

	ordered, byTier := Finalize(raw, 1000, boundaries, 2)
	assert.Len(t, byTier[domain.TierRefresh], 2)
	assert.Len(t, byTier[domain.TierUpgrade], 1)
	require.Len(t, ordered, 3)

	// Cap keeps the highest-NPV offers.
	assert.Equal(t, "car-1", ordered[0].CarID)
	assert.Equal(t, "car-2", ordered[1].CarID)
}

func TestFinalizeRecomputesDelta(t *testing.T) {
	boundaries := domain.DefaultTierBoundaries()

	// Stale delta on input; Finalize recomputes from the current payment.
	offer := rawOffer("car-1", 36, 1200, 100)
	offer.PaymentDelta = -0.99

	ordered, _ := Finalize([]domain.Offer{offer}, 1000, boundaries, 0)
	require.Len(t, ordered, 1)
	assert.InDelta(t, 0.20, ordered[0].PaymentDelta, 1e-12)
	assert.Equal(t, domain.TierUpgrade, ordered[0].Tier)
}

func TestFinalizeEmptyTiersOmitted(t *testing.T) {
	boundaries := domain.DefaultTierBoundaries()

	ordered, byTier := Finalize([]domain.Offer{rawOffer("car-1", 36, 1050, 10)}, 1000, boundaries, 0)
	require.Len(t, ordered, 1)
	assert.Contains(t, byTier, domain.TierRefresh)
	assert.NotContains(t, byTier, domain.TierUpgrade)
	assert.NotContains(t, byTier, domain.TierMaxUpgrade)
}

func TestFinalizeDeterministic(t *testing.T) {
	boundaries := domain.DefaultTierBoundaries()
	raw := []domain.Offer{
		rawOffer("car-1", 36, 1050, 500),
		rawOffer("car-2", 36, 1050, 500),
		rawOffer("car-3", 48, 1200, 700),
		rawOffer("car-1", 48, 1250, 700),
	}

	first, _ := Finalize(raw, 1000, boundaries, 0)
	second, _ := Finalize(raw, 1000, boundaries, 0)
	assert.Equal(t, first, second)
}
