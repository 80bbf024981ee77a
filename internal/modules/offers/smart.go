package offers

import (
	"context"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/kavak/tradeup/internal/domain"
)

// infeasiblePenalty is the objective value for fee points yielding no offer,
// steering the optimizer back toward feasible regions.
const infeasiblePenalty = 1e12

// runSmart optimizes the scalar −max(NPV among surviving offers) over the
// 3-d fee box with a derivative-free minimizer, then rounds the best point to
// the configured step grid and runs one final evaluator pass there. Bounds
// are enforced by projection, the pattern the mean-variance literature calls
// a projected search; no gradient is required.
func (s *RangeStrategy) runSmart(ctx context.Context, in RunInput) ([]domain.Offer, RunStats) {
	rc := in.Config.Range
	terms := orderedTerms(in.Config.Terms, in.Config.TermPriority)

	lower := []float64{rc.ServiceFeePct.Min, rc.CXAPct.Min, rc.CACBonus.Min}
	upper := []float64{rc.ServiceFeePct.Max, rc.CXAPct.Max, rc.CACBonus.Max}

	var evaluations int
	objective := func(x []float64) float64 {
		if ctx.Err() != nil {
			return infeasiblePenalty
		}
		evaluations++
		point := projectToBox(x, lower, upper)
		fees := in.Config.Fees
		fees.ServiceFeePct = point[0]
		fees.CXAPct = point[1]
		fees.CACBonus = point[2]

		offers, cancelled := sweepFeeSet(ctx, s.evaluator, in, fees, terms)
		if cancelled || len(offers) == 0 {
			return infeasiblePenalty
		}
		best := math.Inf(-1)
		for _, offer := range offers {
			if offer.NPV > best {
				best = offer.NPV
			}
		}
		return -best
	}

	initial := []float64{
		(lower[0] + upper[0]) / 2,
		(lower[1] + upper[1]) / 2,
		(lower[2] + upper[2]) / 2,
	}

	maxIter := rc.SmartMaxIter
	if maxIter <= 0 {
		maxIter = 200
	}

	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		FuncEvaluations: maxIter * 4,
	}
	result, err := optimize.Minimize(problem, initial, settings, &optimize.NelderMead{})

	if ctx.Err() != nil {
		return nil, RunStats{Cancelled: true}
	}

	best := initial
	if err == nil && result != nil {
		best = projectToBox(result.X, lower, upper)
	} else {
		s.log.Warn().Err(err).Msg("Smart optimization failed, falling back to box center")
	}

	// Snap to the configured step grid and run the definitive pass there.
	fees := in.Config.Fees
	fees.ServiceFeePct = snapToGrid(best[0], rc.ServiceFeePct)
	fees.CXAPct = snapToGrid(best[1], rc.CXAPct)
	fees.CACBonus = snapToGrid(best[2], rc.CACBonus)

	offers, cancelled := sweepFeeSet(ctx, s.evaluator, in, fees, terms)
	if cancelled {
		return nil, RunStats{Cancelled: true}
	}

	s.log.Debug().
		Int("objective_evaluations", evaluations).
		Float64("service_fee_pct", fees.ServiceFeePct).
		Float64("cxa_pct", fees.CXAPct).
		Float64("cac_bonus", fees.CACBonus).
		Int("offer_count", len(offers)).
		Msg("Smart optimization finished")
	return offers, RunStats{CombinationsTested: evaluations + 1}
}

// projectToBox clamps a point to the [lower, upper] box.
func projectToBox(x, lower, upper []float64) []float64 {
	proj := make([]float64, len(x))
	for i := range x {
		proj[i] = math.Max(lower[i], math.Min(upper[i], x[i]))
	}
	return proj
}

// snapToGrid rounds a value to the nearest grid point of a parameter range,
// clamped to its endpoints.
func snapToGrid(v float64, r domain.ParamRange) float64 {
	if r.Step <= 0 || r.Max <= r.Min {
		return round4(math.Max(r.Min, math.Min(r.Max, v)))
	}
	steps := math.Round((v - r.Min) / r.Step)
	snapped := r.Min + steps*r.Step
	return round4(math.Max(r.Min, math.Min(r.Max, snapped)))
}
