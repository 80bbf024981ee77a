package offers

import (
	"context"
	"sort"

	"github.com/kavak/tradeup/internal/domain"
)

// RunInput is the shared input of every search strategy.
type RunInput struct {
	Customer       domain.Customer
	Inventory      []domain.InventoryItem
	BaseRate       float64
	Config         domain.EngineConfig
	CurrentPayment float64
	Progress       ProgressFunc
}

// RunStats carries strategy-level counters back to the engine.
type RunStats struct {
	CombinationsTested int
	PhaseUsed          string
	Cancelled          bool
}

// SearchStrategy is one of the engine's three search strategies. Run performs
// pure computation; cancellation is cooperative via ctx, checked at the top of
// each inventory-row iteration (and at combination boundaries in range mode).
type SearchStrategy interface {
	Name() domain.Strategy
	Run(ctx context.Context, in RunInput) ([]domain.Offer, RunStats)
}

// orderedTerms returns the loan terms in the order mandated by the term
// priority. The standard order is ascending.
func orderedTerms(terms []int, priority domain.TermPriority) []int {
	out := append([]int(nil), terms...)
	switch priority {
	case domain.TermPriorityLongerFirst:
		sort.Sort(sort.Reverse(sort.IntSlice(out)))
	default:
		// standard and shorter_first are both ascending.
		sort.Ints(out)
	}
	return out
}

// sweepFeeSet runs one evaluator pass over inventory × terms with a fixed
// fee-set, keeping offers whose NPV clears the configured threshold.
// The inventory iteration follows the caller-supplied order; the returned
// bool reports cooperative cancellation.
func sweepFeeSet(
	ctx context.Context,
	evaluator *Evaluator,
	in RunInput,
	fees domain.FeeSet,
	terms []int,
) ([]domain.Offer, bool) {
	var kept []domain.Offer
	for _, car := range in.Inventory {
		if ctx.Err() != nil {
			return nil, true
		}
		for _, term := range terms {
			offer, reason := evaluator.Evaluate(
				in.Customer, car, term, in.BaseRate, fees,
				in.Config.Tiers, in.Config.IncludeKavakTotal,
			)
			if reason != RejectNone {
				continue
			}
			if offer.NPV < in.Config.MinNPVThreshold {
				continue
			}
			kept = append(kept, offer)
		}
	}
	return kept, false
}
