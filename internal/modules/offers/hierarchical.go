package offers

import (
	"context"

	"github.com/kavak/tradeup/internal/domain"
	"github.com/rs/zerolog"
)

// phase is one rung of the concession ladder: a named fee-set.
type phase struct {
	name string
	fees domain.FeeSet
}

// HierarchicalStrategy implements the two-phase concession ladder. It tries
// the max-profit fee-set first, then progressively subsidized levels, and
// stops at the first phase that yields at least one surviving offer. A
// customer reachable at a cheaper phase is never offered deeper subsidy.
type HierarchicalStrategy struct {
	evaluator *Evaluator
	log       zerolog.Logger
}

// NewHierarchicalStrategy creates the hierarchical concession-ladder strategy.
func NewHierarchicalStrategy(evaluator *Evaluator, log zerolog.Logger) *HierarchicalStrategy {
	return &HierarchicalStrategy{
		evaluator: evaluator,
		log:       log.With().Str("strategy", "hierarchical").Logger(),
	}
}

// Name implements SearchStrategy.
func (s *HierarchicalStrategy) Name() domain.Strategy { return domain.StrategyHierarchical }

// phases builds the ladder from the configured default fee-set. The
// Kavak-Total amount rides along unchanged; the include flag is applied by
// the evaluator.
func (s *HierarchicalStrategy) phases(base domain.FeeSet) []phase {
	maxProfit := base
	maxProfit.CACBonus = 0

	l1 := maxProfit
	l1.ServiceFeePct = 0

	l2 := l1
	l2.CACBonus = domain.MaxCACBonus

	l3 := l2
	l3.CXAPct = 0

	return []phase{
		{name: "max_profit", fees: maxProfit},
		{name: "subsidy_l1", fees: l1},
		{name: "subsidy_l2", fees: l2},
		{name: "subsidy_l3", fees: l3},
	}
}

// Run implements SearchStrategy.
func (s *HierarchicalStrategy) Run(ctx context.Context, in RunInput) ([]domain.Offer, RunStats) {
	terms := orderedTerms(in.Config.Terms, in.Config.TermPriority)

	for _, ph := range s.phases(in.Config.Fees) {
		offers, cancelled := sweepFeeSet(ctx, s.evaluator, in, ph.fees, terms)
		if cancelled {
			return nil, RunStats{Cancelled: true}
		}
		if len(offers) > 0 {
			s.log.Debug().
				Str("phase", ph.name).
				Int("offer_count", len(offers)).
				Msg("Phase yielded offers, stopping ladder")
			return offers, RunStats{PhaseUsed: ph.name}
		}
	}

	s.log.Debug().Msg("All phases empty")
	return nil, RunStats{}
}
