package finance

// PaymentInput parameterizes one total-monthly-payment calculation. All
// bucket amounts are financed principal; GPSMonthlyWithTax is a flat add-on.
type PaymentInput struct {
	LoanPrincipal     float64
	AnnualRate        float64
	TermMonths        int
	ServiceFeeAmount  float64
	KavakTotalAmount  float64
	InsuranceAmount   float64
	GPSMonthlyWithTax float64
}

// bucketPayment amortizes one financed component. The principal split runs at
// the tax-grossed monthly rate while the interest split runs at the base
// monthly rate and is then grossed up. This keeps the scheduled principal on
// tax-grossed cash flow with VAT applied explicitly to interest, which is the
// accounting convention the offers carry.
func bucketPayment(amount, annualRate float64, periods int) float64 {
	if amount <= 0 || periods <= 0 {
		return 0
	}
	if annualRate == 0 {
		// Zero-rate degenerate: straight-line principal, no interest.
		return amount / float64(periods)
	}
	principalRate := annualRate * (1 + TaxRate) / 12
	interestRate := annualRate / 12
	principal := PrincipalForPeriod(principalRate, 1, periods, amount)
	interest := InterestForPeriod(interestRate, 1, periods, amount) * (1 + TaxRate)
	return principal + interest
}

// TotalMonthlyPayment combines the independent amortizations of every
// financed bucket into one monthly payment (the bucket method). Insurance
// amortizes over a fixed 12-month horizon regardless of the loan term.
func TotalMonthlyPayment(in PaymentInput) float64 {
	total := bucketPayment(in.LoanPrincipal, in.AnnualRate, in.TermMonths)
	total += bucketPayment(in.ServiceFeeAmount, in.AnnualRate, in.TermMonths)
	total += bucketPayment(in.KavakTotalAmount, in.AnnualRate, in.TermMonths)
	total += bucketPayment(in.InsuranceAmount, in.AnnualRate, InsuranceTermMonths)
	total += in.GPSMonthlyWithTax
	return total
}

// InterestCashflows builds the lender's interest income stream across all
// financed buckets at the base monthly rate (no VAT gross-up). Index 0 is
// period 0 and carries no flow; the stream runs to the loan term, with the
// insurance bucket contributing only through its fixed 12-month horizon.
func InterestCashflows(in PaymentInput) []float64 {
	monthlyRate := in.AnnualRate / 12
	horizon := in.TermMonths
	if horizon < InsuranceTermMonths && in.InsuranceAmount > 0 {
		horizon = InsuranceTermMonths
	}
	flows := make([]float64, horizon+1)
	for k := 1; k <= horizon; k++ {
		if k <= in.TermMonths {
			flows[k] += InterestForPeriod(monthlyRate, k, in.TermMonths, in.LoanPrincipal)
			flows[k] += InterestForPeriod(monthlyRate, k, in.TermMonths, in.ServiceFeeAmount)
			flows[k] += InterestForPeriod(monthlyRate, k, in.TermMonths, in.KavakTotalAmount)
		}
		if k <= InsuranceTermMonths {
			flows[k] += InterestForPeriod(monthlyRate, k, InsuranceTermMonths, in.InsuranceAmount)
		}
	}
	return flows
}

// StreamNPV is the net present value of the interest stream for in,
// discounted at the base monthly rate to period 0.
func StreamNPV(in PaymentInput) float64 {
	return NPV(in.AnnualRate/12, InterestCashflows(in))
}
