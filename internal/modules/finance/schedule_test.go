package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavak/tradeup/internal/domain"
)

func TestAmortizationScheduleRejectsBadParams(t *testing.T) {
	cases := []LoanParams{
		{LoanAmount: 0, MonthlyPayment: 1000, TermMonths: 12, AnnualRate: 0.18},
		{LoanAmount: 100000, MonthlyPayment: 0, TermMonths: 12, AnnualRate: 0.18},
		{LoanAmount: 100000, MonthlyPayment: 1000, TermMonths: 0, AnnualRate: 0.18},
		{LoanAmount: -5, MonthlyPayment: 1000, TermMonths: 12, AnnualRate: 0.18},
	}
	for _, params := range cases {
		_, err := AmortizationSchedule(params)
		var loanErr *domain.InvalidLoanParamsError
		assert.ErrorAs(t, err, &loanErr)
	}
}

func TestAmortizationScheduleFullTerm(t *testing.T) {
	loan := 200000.0
	rate := 0.18
	term := 72
	// Consistent payment: the schedule runs the full term and closes at zero.
	payment := MonthlyPayment(rate/12, term, loan)

	rows, err := AmortizationSchedule(LoanParams{
		LoanAmount:     loan,
		MonthlyPayment: payment,
		TermMonths:     term,
		AnnualRate:     rate,
	})
	require.NoError(t, err)
	require.Len(t, rows, term)

	// Month 1 interest is the full balance at the monthly rate.
	assert.Equal(t, 1, rows[0].Month)
	assert.InDelta(t, RoundCents(loan*rate/12), rows[0].Interest, 0.01)
	assert.InDelta(t, loan, rows[0].BeginningBalance, 0.01)

	// The final row closes the loan.
	last := rows[len(rows)-1]
	assert.Equal(t, term, last.Month)
	assert.Zero(t, last.EndingBalance)

	// Row-level identities hold throughout.
	for _, row := range rows {
		assert.InDelta(t, row.Principal+row.Interest, row.Payment, 0.02, "month %d", row.Month)
		assert.InDelta(t, row.BeginningBalance-row.Principal, row.EndingBalance, 0.02, "month %d", row.Month)
	}

	// Principal retired sums to the loan amount.
	var principal float64
	for _, row := range rows {
		principal += row.Principal
	}
	assert.InDelta(t, loan, principal, 1.0)
}

func TestAmortizationScheduleStopsEarlyOnOverpayment(t *testing.T) {
	// Paying far above the level payment retires the loan well before term.
	rows, err := AmortizationSchedule(LoanParams{
		LoanAmount:     50000,
		MonthlyPayment: 10000,
		TermMonths:     36,
		AnnualRate:     0.18,
	})
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Less(t, len(rows), 36)

	// Final payment is truncated: principal never exceeds the balance.
	last := rows[len(rows)-1]
	assert.Zero(t, last.EndingBalance)
	assert.LessOrEqual(t, last.Payment, 10000.0)
	assert.InDelta(t, last.BeginningBalance, last.Principal, 0.01)
}

func TestAmortizationScheduleZeroRate(t *testing.T) {
	rows, err := AmortizationSchedule(LoanParams{
		LoanAmount:     12000,
		MonthlyPayment: 1000,
		TermMonths:     12,
		AnnualRate:     0,
	})
	require.NoError(t, err)
	require.Len(t, rows, 12)
	for _, row := range rows {
		assert.Zero(t, row.Interest)
		assert.InDelta(t, 1000.0, row.Principal, 0.01)
	}
	assert.Zero(t, rows[11].EndingBalance)
}

func TestAmortizationScheduleInsufficientPayment(t *testing.T) {
	// A payment below the interest accrual never retires principal; the
	// schedule still terminates at the requested term.
	rows, err := AmortizationSchedule(LoanParams{
		LoanAmount:     100000,
		MonthlyPayment: 1000, // interest alone is 1500/month
		TermMonths:     24,
		AnnualRate:     0.18,
	})
	require.NoError(t, err)
	require.Len(t, rows, 24)
	assert.Greater(t, rows[23].EndingBalance, 100000.0, "negative amortization grows the balance")
}
