package offers

import (
	"math"

	"github.com/kavak/tradeup/internal/domain"
	"github.com/kavak/tradeup/internal/modules/finance"
)

// RejectReason explains why a candidate did not become an offer.
type RejectReason string

const (
	RejectNone         RejectReason = ""
	RejectPrice        RejectReason = "price_not_above_current"
	RejectNoLoanNeeded RejectReason = "no_loan_principal_needed"
	RejectDownPayment  RejectReason = "below_min_down_payment"
	RejectOutsideTiers RejectReason = "payment_delta_outside_tiers"
	RejectNonFinite    RejectReason = "non_finite_result"
	RejectNoMinDownRow RejectReason = "no_min_down_payment_entry"
)

// termPremium is the rate add-on for longer terms.
func termPremium(termMonths int) float64 {
	switch termMonths {
	case 60:
		return 0.01
	case 72:
		return 0.015
	default:
		return 0
	}
}

// Evaluator applies the ordered hard filters to one (customer, car, term,
// fee-set) candidate and fully costs the survivors. It performs pure
// computation on the values passed in; it never blocks.
type Evaluator struct {
	tables *domain.RiskTables
}

// NewEvaluator creates an evaluator backed by injected risk tables.
func NewEvaluator(tables *domain.RiskTables) *Evaluator {
	return &Evaluator{tables: tables}
}

// Evaluate returns a fully-costed offer, or a reject reason. The tier is
// assigned later by the finalizer; the evaluator only verifies that the
// payment delta lands inside at least one tier.
func (e *Evaluator) Evaluate(
	customer domain.Customer,
	car domain.InventoryItem,
	termMonths int,
	baseRate float64,
	fees domain.FeeSet,
	tiers domain.TierBoundaries,
	includeKavakTotal bool,
) (domain.Offer, RejectReason) {
	// 1. Price filter: only strictly more expensive cars qualify.
	if car.SalesPrice <= customer.CurrentCarPrice {
		return domain.Offer{}, RejectPrice
	}

	// 2. Equity after concessions. GPS installation is charged with tax and
	// deducted from equity, never financed.
	cxaAmount := car.SalesPrice * fees.CXAPct
	gpsInstallWithTax := fees.GPSInstallFee * (1 + finance.TaxRate)
	effectiveEquity := customer.VehicleEquity + fees.CACBonus - cxaAmount - gpsInstallWithTax

	// 3. Loan principal actually needed.
	loanPrincipal := car.SalesPrice - effectiveEquity
	if loanPrincipal <= 0 {
		return domain.Offer{}, RejectNoLoanNeeded
	}

	// 4. Financed fee buckets.
	serviceFeeAmount := car.SalesPrice * fees.ServiceFeePct
	kavakTotalAmount := fees.KavakTotalAmount
	if !includeKavakTotal {
		kavakTotalAmount = 0
	}
	insuranceAmount, ok := e.tables.InsuranceAmount(customer.RiskProfile)
	if fees.InsuranceOverride != nil {
		insuranceAmount = *fees.InsuranceOverride
	} else if !ok {
		insuranceAmount = 0
	}

	// 5. Total financed principal. GPS amounts are never part of it.
	totalFinanced := loanPrincipal + serviceFeeAmount + kavakTotalAmount + insuranceAmount

	// 6. Down-payment check.
	minDown, ok := e.tables.MinDown(customer.RiskIndex, termMonths)
	if !ok {
		return domain.Offer{}, RejectNoMinDownRow
	}
	if effectiveEquity < car.SalesPrice*minDown {
		return domain.Offer{}, RejectDownPayment
	}

	// 7. Term-dependent rate.
	finalRate := baseRate + termPremium(termMonths)

	// 8. Monthly payment via the bucket method.
	gpsMonthlyWithTax := fees.GPSMonthlyFee * (1 + finance.TaxRate)
	paymentIn := finance.PaymentInput{
		LoanPrincipal:     loanPrincipal,
		AnnualRate:        finalRate,
		TermMonths:        termMonths,
		ServiceFeeAmount:  serviceFeeAmount,
		KavakTotalAmount:  kavakTotalAmount,
		InsuranceAmount:   insuranceAmount,
		GPSMonthlyWithTax: gpsMonthlyWithTax,
	}
	monthlyPayment := finance.TotalMonthlyPayment(paymentIn)

	// 9. Payment delta must land in some tier.
	paymentDelta := monthlyPayment/customer.CurrentMonthlyPayment - 1
	if _, inTier := ClassifyTier(paymentDelta, tiers); !inTier {
		return domain.Offer{}, RejectOutsideTiers
	}

	// 10. NPV of the interest stream, discounted at the base monthly rate
	// (no VAT gross-up).
	npv := finance.StreamNPV(paymentIn)

	// Pathological combinations are dropped, the sweep continues.
	if !finite(monthlyPayment) || !finite(paymentDelta) || !finite(npv) || !finite(totalFinanced) {
		return domain.Offer{}, RejectNonFinite
	}

	// 11. Fully-costed offer; tier assigned by the finalizer.
	return domain.Offer{
		CarID:             car.CarID,
		CarModel:          car.Model,
		TermMonths:        termMonths,
		MonthlyPayment:    monthlyPayment,
		PaymentDelta:      paymentDelta,
		LoanAmount:        loanPrincipal,
		TotalFinanced:     totalFinanced,
		EffectiveEquity:   effectiveEquity,
		ServiceFeeAmount:  serviceFeeAmount,
		CXAAmount:         cxaAmount,
		CACBonus:          fees.CACBonus,
		KavakTotalAmount:  kavakTotalAmount,
		InsuranceAmount:   insuranceAmount,
		GPSInstallWithTax: gpsInstallWithTax,
		GPSMonthlyWithTax: gpsMonthlyWithTax,
		InterestRate:      finalRate,
		NPV:               npv,
		Fees:              fees,
	}, RejectNone
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
