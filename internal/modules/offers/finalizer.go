package offers

import (
	"sort"

	"github.com/kavak/tradeup/internal/domain"
)

// Finalize deduplicates, tiers, ranks and caps a raw offer list.
//
// The payment delta is recomputed defensively from the current payment, the
// tier is assigned by first-matching boundary (offers outside all tiers are
// dropped), duplicates by (car, term) keep the highest NPV, offers are
// dense-ranked by NPV descending within their tier, capped per tier, and
// emitted in tier priority order with NPV descending inside each tier. All
// sorts are stable so equal inputs produce identical output.
func Finalize(
	raw []domain.Offer,
	currentMonthlyPayment float64,
	tiers domain.TierBoundaries,
	maxPerTier int,
) ([]domain.Offer, map[string][]domain.Offer) {
	byTier := make(map[string][]domain.Offer, len(domain.TierOrder))

	// Recompute delta, assign tiers, drop strays.
	tiered := make([]domain.Offer, 0, len(raw))
	for _, offer := range raw {
		if currentMonthlyPayment > 0 {
			offer.PaymentDelta = offer.MonthlyPayment/currentMonthlyPayment - 1
		}
		tier, ok := ClassifyTier(offer.PaymentDelta, tiers)
		if !ok {
			continue
		}
		offer.Tier = tier
		tiered = append(tiered, offer)
	}

	// Deduplicate by (car, term), keeping the highest-NPV variant.
	type carTerm struct {
		carID string
		term  int
	}
	best := make(map[carTerm]domain.Offer, len(tiered))
	order := make([]carTerm, 0, len(tiered))
	for _, offer := range tiered {
		key := carTerm{offer.CarID, offer.TermMonths}
		existing, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = offer
			continue
		}
		if offer.NPV > existing.NPV {
			best[key] = offer
		}
	}

	for _, key := range order {
		offer := best[key]
		byTier[offer.Tier] = append(byTier[offer.Tier], offer)
	}

	// Rank within tier, cap, and emit in tier priority order.
	ordered := make([]domain.Offer, 0, len(order))
	for _, tier := range domain.TierOrder {
		group := byTier[tier]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].NPV > group[j].NPV
		})

		// Dense rank: equal NPVs share a rank.
		rank := 1
		for i := range group {
			if i > 0 && group[i].NPV < group[i-1].NPV {
				rank++
			}
			group[i].NPVRankWithinTier = rank
		}

		if maxPerTier > 0 && len(group) > maxPerTier {
			group = group[:maxPerTier]
		}
		byTier[tier] = group
		ordered = append(ordered, group...)
	}

	// Drop empty tier keys so callers see only populated tiers.
	for _, tier := range domain.TierOrder {
		if len(byTier[tier]) == 0 {
			delete(byTier, tier)
		}
	}
	return ordered, byTier
}
