// Package finance implements the financial primitives of the trade-up engine:
// level-payment amortization splits, NPV, the multi-bucket payment calculator
// and amortization schedules.
package finance

import "math"

// TaxRate is the process-wide value-added tax applied to interest components
// and GPS fees.
const TaxRate = 0.16

// InsuranceTermMonths is the fixed amortization horizon for the insurance
// bucket, regardless of the loan term.
const InsuranceTermMonths = 12

// RoundCents rounds a monetary amount to cents. Only applied at reporting
// boundaries, never mid-calculation.
func RoundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

// MonthlyPayment returns the constant payment of a level-payment loan of
// presentValue over totalPeriods at ratePerPeriod. A zero rate degenerates to
// straight-line principal; a zero present value yields a zero payment.
func MonthlyPayment(ratePerPeriod float64, totalPeriods int, presentValue float64) float64 {
	if presentValue == 0 || totalPeriods <= 0 {
		return 0
	}
	if ratePerPeriod == 0 {
		return presentValue / float64(totalPeriods)
	}
	return presentValue * ratePerPeriod / (1 - math.Pow(1+ratePerPeriod, -float64(totalPeriods)))
}

// balanceBefore returns the outstanding balance entering period k (1-based)
// of a level-payment schedule.
func balanceBefore(ratePerPeriod float64, period, totalPeriods int, presentValue float64) float64 {
	if presentValue == 0 || totalPeriods <= 0 {
		return 0
	}
	if ratePerPeriod == 0 {
		return presentValue * (1 - float64(period-1)/float64(totalPeriods))
	}
	payment := MonthlyPayment(ratePerPeriod, totalPeriods, presentValue)
	growth := math.Pow(1+ratePerPeriod, float64(period-1))
	return presentValue*growth - payment*(growth-1)/ratePerPeriod
}

// InterestForPeriod returns the interest portion of the level payment in
// period (1-based) for a loan of presentValue over totalPeriods.
func InterestForPeriod(ratePerPeriod float64, period, totalPeriods int, presentValue float64) float64 {
	if presentValue == 0 || totalPeriods <= 0 || ratePerPeriod == 0 {
		return 0
	}
	return balanceBefore(ratePerPeriod, period, totalPeriods, presentValue) * ratePerPeriod
}

// PrincipalForPeriod returns the principal portion of the level payment in
// period (1-based) for a loan of presentValue over totalPeriods.
func PrincipalForPeriod(ratePerPeriod float64, period, totalPeriods int, presentValue float64) float64 {
	if presentValue == 0 || totalPeriods <= 0 {
		return 0
	}
	payment := MonthlyPayment(ratePerPeriod, totalPeriods, presentValue)
	return payment - InterestForPeriod(ratePerPeriod, period, totalPeriods, presentValue)
}

// NPV discounts a cash-flow stream at ratePerPeriod. cashflows[0] is treated
// as period 0 (undiscounted).
func NPV(ratePerPeriod float64, cashflows []float64) float64 {
	var total float64
	for k, cf := range cashflows {
		total += cf / math.Pow(1+ratePerPeriod, float64(k))
	}
	return total
}
