package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment_ZeroRateDegeneratesToStraightLine(t *testing.T) {
	assert.InDelta(t, 1000.0, MonthlyPayment(0, 12, 12000), 1e-9)
}

func TestMonthlyPayment_ZeroPresentValue(t *testing.T) {
	assert.Zero(t, MonthlyPayment(0.015, 36, 0))
}

func TestSplits_SumToPayment(t *testing.T) {
	rate := 0.18 / 12
	pv := 250000.0
	n := 48
	payment := MonthlyPayment(rate, n, pv)
	for k := 1; k <= n; k++ {
		split := PrincipalForPeriod(rate, k, n, pv) + InterestForPeriod(rate, k, n, pv)
		assert.InDelta(t, payment, split, 1e-8, "period %d", k)
	}
}

func TestSplits_PrincipalSumsToPresentValue(t *testing.T) {
	rate := 0.20 * (1 + TaxRate) / 12
	pv := 134332.46
	n := 72
	var totalPrincipal float64
	for k := 1; k <= n; k++ {
		totalPrincipal += PrincipalForPeriod(rate, k, n, pv)
	}
	assert.InDelta(t, pv, totalPrincipal, 1e-6)
}

func TestSplits_ZeroPresentValueYieldsZero(t *testing.T) {
	assert.Zero(t, PrincipalForPeriod(0.015, 5, 36, 0))
	assert.Zero(t, InterestForPeriod(0.015, 5, 36, 0))
}

func TestSplits_NegativeRatePermitted(t *testing.T) {
	// Negative rates are numerically valid; principal still sums to pv.
	rate := -0.002
	pv := 10000.0
	n := 12
	var total float64
	for k := 1; k <= n; k++ {
		total += PrincipalForPeriod(rate, k, n, pv)
	}
	assert.InDelta(t, pv, total, 1e-6)
}

func TestNPV_Period0Undiscounted(t *testing.T) {
	got := NPV(0.10, []float64{-100, 110})
	assert.InDelta(t, -100+110/1.10, got, 1e-9)
}

func TestNPV_MonotoneInRate(t *testing.T) {
	// NPV of the interest stream is non-decreasing in the annual rate.
	prev := -math.MaxFloat64
	for annual := 0.0; annual <= 0.5+1e-9; annual += 0.01 {
		in := PaymentInput{LoanPrincipal: 180000, AnnualRate: annual, TermMonths: 48}
		npv := StreamNPV(in)
		require.GreaterOrEqual(t, npv+1e-9, prev, "rate %.2f", annual)
		prev = npv
	}
}

func TestTotalMonthlyPayment_MatchesPMTWithAllBucketsZero(t *testing.T) {
	// Kavak payment parity: L=100000, rate=0.20, term=60, everything else
	// zero must equal |PMT(0.20*1.16/12, 60, -100000)|.
	in := PaymentInput{LoanPrincipal: 100000, AnnualRate: 0.20, TermMonths: 60}
	got := TotalMonthlyPayment(in)
	want := MonthlyPayment(0.20*(1+TaxRate)/12, 60, 100000)
	assert.InEpsilon(t, want, got, 1e-4)
}

func TestTotalMonthlyPayment_InsuranceAmortizesOver12Months(t *testing.T) {
	base := PaymentInput{LoanPrincipal: 100000, AnnualRate: 0.18, TermMonths: 60}
	withIns := base
	insurance := 12000.0
	withIns.InsuranceAmount = insurance

	diff := TotalMonthlyPayment(withIns) - TotalMonthlyPayment(base)
	// The insurance bucket amortizes over 12 months regardless of the
	// 60-month loan term.
	want := bucketPayment(insurance, 0.18, InsuranceTermMonths)
	assert.InDelta(t, want, diff, 1e-9)
	assert.Greater(t, diff, insurance/12)
}

func TestTotalMonthlyPayment_GPSMonthlyAddedFlat(t *testing.T) {
	base := PaymentInput{LoanPrincipal: 50000, AnnualRate: 0.15, TermMonths: 36}
	withGPS := base
	withGPS.GPSMonthlyWithTax = 464
	assert.InDelta(t, 464, TotalMonthlyPayment(withGPS)-TotalMonthlyPayment(base), 1e-9)
}

func TestTotalMonthlyPayment_ZeroBucketsContributeZero(t *testing.T) {
	in := PaymentInput{LoanPrincipal: 80000, AnnualRate: 0.17, TermMonths: 24}
	withZeros := in
	withZeros.ServiceFeeAmount = 0
	withZeros.KavakTotalAmount = 0
	withZeros.InsuranceAmount = 0
	assert.Equal(t, TotalMonthlyPayment(in), TotalMonthlyPayment(withZeros))
}

func TestInterestCashflows_InsuranceHorizonExtendsShortLoans(t *testing.T) {
	in := PaymentInput{LoanPrincipal: 40000, AnnualRate: 0.18, TermMonths: 6, InsuranceAmount: 6000}
	flows := InterestCashflows(in)
	require.Len(t, flows, InsuranceTermMonths+1)
	// After the loan term only the insurance bucket keeps paying interest.
	assert.Greater(t, flows[10], 0.0)
}
