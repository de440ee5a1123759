package amortization

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Period is one month of an amortization schedule.
type Period struct {
	Number    int
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Remaining decimal.Decimal
}

// MaxScheduleMonths bounds Schedule independently of any configured Limits.
const MaxScheduleMonths = 1200

// Schedule splits each monthly payment into interest and principal. The last
// period repays whatever balance is left so the schedule ends at exactly zero.
func Schedule(t LoanTerms) ([]Period, error) {
	if t.TermMonths > MaxScheduleMonths {
		return nil, &InvalidLoanTermsError{Field: "term_months", Reason: fmt.Sprintf("schedule is limited to %d months, got %d", MaxScheduleMonths, t.TermMonths)}
	}
	res, err := Compute(t)
	if err != nil {
		return nil, err
	}
	r := MonthlyRate(t.AnnualRatePercent)

	periods := make([]Period, 0, t.TermMonths)
	balance := t.Principal
	for i := 1; i <= t.TermMonths; i++ {
		interest := balance.Mul(r).Round(precision)
		payment := res.MonthlyPayment
		principal := payment.Sub(interest)
		if i == t.TermMonths {
			principal = balance
			payment = principal.Add(interest)
		}
		balance = balance.Sub(principal)

		periods = append(periods, Period{
			Number:    i,
			Payment:   payment,
			Interest:  interest,
			Principal: principal,
			Remaining: balance,
		})
	}
	return periods, nil
}

// Limits are optional caps applied on top of Validate, e.g. from config.
// Zero values disable a cap.
type Limits struct {
	MaxTermMonths        int
	MaxAnnualRatePercent decimal.Decimal
	MaxPrincipal         decimal.Decimal
}

// DefaultLimits allows terms up to 50 years and rates up to 1000% a year.
func DefaultLimits() Limits {
	return Limits{
		MaxTermMonths:        600,
		MaxAnnualRatePercent: decimal.NewFromInt(1000),
	}
}

// Check validates t and then applies the caps.
func (l Limits) Check(t LoanTerms) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if l.MaxTermMonths > 0 && t.TermMonths > l.MaxTermMonths {
		return &InvalidLoanTermsError{Field: "term_months", Reason: fmt.Sprintf("exceeds the maximum of %d", l.MaxTermMonths)}
	}
	if l.MaxAnnualRatePercent.IsPositive() && t.AnnualRatePercent.GreaterThan(l.MaxAnnualRatePercent) {
		return &InvalidLoanTermsError{Field: "annual_rate_percent", Reason: fmt.Sprintf("exceeds the maximum of %s", l.MaxAnnualRatePercent)}
	}
	if l.MaxPrincipal.IsPositive() && t.Principal.GreaterThan(l.MaxPrincipal) {
		return &InvalidLoanTermsError{Field: "principal", Reason: fmt.Sprintf("exceeds the maximum of %s", l.MaxPrincipal)}
	}
	return nil
}
