package offers

import "github.com/kavak/tradeup/internal/domain"

// ClassifyTier maps a signed payment-delta ratio onto a tier name. Tiers are
// checked in domain.TierOrder (refresh, upgrade, max_upgrade); when intervals
// overlap, the first matching tier wins. This ordering is part of the engine
// contract and tests depend on it.
func ClassifyTier(delta float64, boundaries domain.TierBoundaries) (string, bool) {
	for _, name := range domain.TierOrder {
		interval, _ := boundaries.ByName(name)
		if interval.Contains(delta) {
			return name, true
		}
	}
	return "", false
}
