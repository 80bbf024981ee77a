package offers

import (
	"context"
	"math"

	"github.com/kavak/tradeup/internal/domain"
	"github.com/rs/zerolog"
)

// round4 rounds a swept parameter value to 4 decimals so step accumulation
// stays on grid.
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// rangeValues expands an inclusive [min,max] step range into its grid points.
func rangeValues(r domain.ParamRange) []float64 {
	var values []float64
	for v := r.Min; v <= r.Max+1e-9; v += r.Step {
		values = append(values, round4(v))
	}
	return values
}

// ValidateRangeConfig pre-validates the three parameter ranges. Each must
// have a positive step and end >= start.
func ValidateRangeConfig(rc domain.RangeConfig) error {
	check := func(name string, r domain.ParamRange) error {
		if r.Step <= 0 {
			return &domain.InvalidRangeError{Param: name, Message: "step must be > 0"}
		}
		if r.Max < r.Min {
			return &domain.InvalidRangeError{Param: name, Message: "end must be >= start"}
		}
		return nil
	}
	if err := check("service_fee_pct", rc.ServiceFeePct); err != nil {
		return err
	}
	if err := check("cxa_pct", rc.CXAPct); err != nil {
		return err
	}
	return check("cac_bonus", rc.CACBonus)
}

// RangeStrategy sweeps the Cartesian product of (service-fee%, CXA%,
// CAC-bonus) and evaluates the full inventory at each combination. Iteration
// follows a fixed nested order (service fee outermost, then CXA, then CAC)
// and is stable across runs. Stopping happens only at combination
// boundaries: either the combination budget is exhausted or enough valid
// offers have been found. The smart sub-mode replaces the exhaustive sweep
// with a derivative-free optimizer (see smart.go).
type RangeStrategy struct {
	evaluator *Evaluator
	log       zerolog.Logger
}

// NewRangeStrategy creates the range-optimization strategy.
func NewRangeStrategy(evaluator *Evaluator, log zerolog.Logger) *RangeStrategy {
	return &RangeStrategy{
		evaluator: evaluator,
		log:       log.With().Str("strategy", "range").Logger(),
	}
}

// Name implements SearchStrategy.
func (s *RangeStrategy) Name() domain.Strategy { return domain.StrategyRange }

// Run implements SearchStrategy.
func (s *RangeStrategy) Run(ctx context.Context, in RunInput) ([]domain.Offer, RunStats) {
	if in.Config.Range.Smart {
		return s.runSmart(ctx, in)
	}
	return s.runExhaustive(ctx, in)
}

func (s *RangeStrategy) runExhaustive(ctx context.Context, in RunInput) ([]domain.Offer, RunStats) {
	rc := in.Config.Range
	terms := orderedTerms(in.Config.Terms, in.Config.TermPriority)

	serviceFees := rangeValues(rc.ServiceFeePct)
	cxas := rangeValues(rc.CXAPct)
	cacs := rangeValues(rc.CACBonus)

	var (
		kept               []domain.Offer
		combinationsTested int
	)

sweep:
	for _, serviceFee := range serviceFees {
		for _, cxa := range cxas {
			for _, cac := range cacs {
				if ctx.Err() != nil {
					return nil, RunStats{Cancelled: true}
				}
				if rc.MaxCombinations > 0 && combinationsTested >= rc.MaxCombinations {
					break sweep
				}

				fees := in.Config.Fees
				fees.ServiceFeePct = serviceFee
				fees.CXAPct = cxa
				fees.CACBonus = cac

				offers, cancelled := sweepFeeSet(ctx, s.evaluator, in, fees, terms)
				if cancelled {
					return nil, RunStats{Cancelled: true}
				}
				kept = append(kept, offers...)
				combinationsTested++

				if in.Progress != nil {
					in.Progress(ProgressEvent{
						Stage:              "sweep",
						CombinationsTested: combinationsTested,
						OffersFound:        len(kept),
					})
				}
				if rc.EarlyStopOnOffers > 0 && len(kept) >= rc.EarlyStopOnOffers {
					break sweep
				}
			}
		}
	}

	s.log.Debug().
		Int("combinations_tested", combinationsTested).
		Int("valid_offers_found", len(kept)).
		Msg("Exhaustive sweep finished")
	return kept, RunStats{CombinationsTested: combinationsTested}
}
