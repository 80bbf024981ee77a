package finance

import (
	"github.com/kavak/tradeup/internal/domain"
)

// ScheduleRow is one month of an amortization table. Amounts are rounded to
// cents; the schedule is a reporting boundary.
type ScheduleRow struct {
	Month            int     `json:"month"`
	BeginningBalance float64 `json:"beginning_balance"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	EndingBalance    float64 `json:"ending_balance"`
}

// LoanParams describes a loan for schedule generation.
type LoanParams struct {
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TermMonths     int     `json:"term_months"`
	AnnualRate     float64 `json:"annual_rate"`
}

// AmortizationSchedule emits up to TermMonths rows of a payment schedule.
// It stops early once the balance reaches zero, and the final payment is
// truncated so principal never exceeds the remaining balance.
func AmortizationSchedule(p LoanParams) ([]ScheduleRow, error) {
	switch {
	case p.LoanAmount <= 0:
		return nil, &domain.InvalidLoanParamsError{Message: "loan_amount must be > 0"}
	case p.MonthlyPayment <= 0:
		return nil, &domain.InvalidLoanParamsError{Message: "monthly_payment must be > 0"}
	case p.TermMonths <= 0:
		return nil, &domain.InvalidLoanParamsError{Message: "term_months must be > 0"}
	}

	monthlyRate := p.AnnualRate / 12
	rows := make([]ScheduleRow, 0, p.TermMonths)
	balance := p.LoanAmount

	for month := 1; month <= p.TermMonths; month++ {
		if balance <= 0.005 {
			break
		}
		interest := balance * monthlyRate
		principal := p.MonthlyPayment - interest
		payment := p.MonthlyPayment
		if principal > balance {
			// Truncated final payment.
			principal = balance
			payment = principal + interest
		}
		ending := balance - principal
		if ending < 0.005 {
			ending = 0
		}
		rows = append(rows, ScheduleRow{
			Month:            month,
			BeginningBalance: RoundCents(balance),
			Payment:          RoundCents(payment),
			Principal:        RoundCents(principal),
			Interest:         RoundCents(interest),
			EndingBalance:    RoundCents(ending),
		})
		balance = ending
	}
	return rows, nil
}
