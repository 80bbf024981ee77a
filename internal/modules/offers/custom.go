package offers

import (
	"context"

	"github.com/kavak/tradeup/internal/domain"
	"github.com/rs/zerolog"
)

// CustomStrategy runs a single evaluation sweep over inventory × terms with
// the fee-set taken verbatim from the engine configuration. Nothing stops the
// sweep beyond the NPV filter.
type CustomStrategy struct {
	evaluator *Evaluator
	log       zerolog.Logger
}

// NewCustomStrategy creates the custom-parameter strategy.
func NewCustomStrategy(evaluator *Evaluator, log zerolog.Logger) *CustomStrategy {
	return &CustomStrategy{
		evaluator: evaluator,
		log:       log.With().Str("strategy", "custom").Logger(),
	}
}

// Name implements SearchStrategy.
func (s *CustomStrategy) Name() domain.Strategy { return domain.StrategyCustom }

// Run implements SearchStrategy.
func (s *CustomStrategy) Run(ctx context.Context, in RunInput) ([]domain.Offer, RunStats) {
	terms := orderedTerms(in.Config.Terms, in.Config.TermPriority)
	offers, cancelled := sweepFeeSet(ctx, s.evaluator, in, in.Config.Fees, terms)
	if cancelled {
		return nil, RunStats{Cancelled: true}
	}
	return offers, RunStats{}
}
