// Package amortization computes fixed-rate loan figures:
//
//	monthlyRate    = annualRatePercent / 100 / 12
//	monthlyPayment = principal * monthlyRate / (1 - (1 + monthlyRate)^-termMonths)
//	monthlyPayment = principal / termMonths                     (zero rate)
//	totalPayment   = monthlyPayment * termMonths
//	totalInterest  = totalPayment - principal
//
// Nothing here rounds to currency units. Intermediate values are held to a
// fixed working precision and callers round at the display boundary.
package amortization

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// precision is the number of fractional digits kept by divisions and powers.
const precision int32 = 28

var (
	one           = decimal.NewFromInt(1)
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// ErrInvalidLoanTerms is matched by every InvalidLoanTermsError.
var ErrInvalidLoanTerms = errors.New("invalid loan terms")

// InvalidLoanTermsError names the offending LoanTerms field.
type InvalidLoanTermsError struct {
	Field  string
	Reason string
}

func (e *InvalidLoanTermsError) Error() string {
	return fmt.Sprintf("invalid loan terms: %s %s", e.Field, e.Reason)
}

func (e *InvalidLoanTermsError) Unwrap() error { return ErrInvalidLoanTerms }

// LoanTerms is the input to a single estimate.
type LoanTerms struct {
	Principal         decimal.Decimal
	TermMonths        int
	AnnualRatePercent decimal.Decimal
}

// Validate checks the preconditions of Compute.
func (t LoanTerms) Validate() error {
	switch {
	case t.TermMonths < 1:
		return &InvalidLoanTermsError{Field: "term_months", Reason: fmt.Sprintf("must be at least 1, got %d", t.TermMonths)}
	case t.Principal.IsNegative():
		return &InvalidLoanTermsError{Field: "principal", Reason: fmt.Sprintf("must not be negative, got %s", t.Principal)}
	case t.AnnualRatePercent.IsNegative():
		return &InvalidLoanTermsError{Field: "annual_rate_percent", Reason: fmt.Sprintf("must not be negative, got %s", t.AnnualRatePercent)}
	}
	return nil
}

// Result holds the derived loan figures, unrounded.
type Result struct {
	MonthlyPayment decimal.Decimal
	TotalPayment   decimal.Decimal
	TotalInterest  decimal.Decimal
}

// MonthlyRate converts an annual percentage to a monthly fraction.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.DivRound(hundred.Mul(monthsPerYear), precision)
}

// Compute returns the amortization figures for t. It has no side effects.
func Compute(t LoanTerms) (Result, error) {
	if err := t.Validate(); err != nil {
		return Result{}, err
	}

	n := decimal.NewFromInt(int64(t.TermMonths))
	r := MonthlyRate(t.AnnualRatePercent)

	if r.IsZero() {
		// An even split repays exactly the principal; multiplying the rounded
		// quotient back out would invent interest.
		return Result{
			MonthlyPayment: t.Principal.DivRound(n, precision),
			TotalPayment:   t.Principal,
			TotalInterest:  decimal.Zero,
		}, nil
	}

	payment := monthlyPayment(t.Principal, r, t.TermMonths)
	total := payment.Mul(n)
	return Result{
		MonthlyPayment: payment,
		TotalPayment:   total,
		TotalInterest:  total.Sub(t.Principal),
	}, nil
}

// monthlyPayment evaluates P*r / (1 - (1+r)^-n) as P*r*f / (f-1) with
// f = (1+r)^n, which avoids a negative power.
func monthlyPayment(principal, r decimal.Decimal, n int) decimal.Decimal {
	f := pow(one.Add(r), n)
	return principal.Mul(r).Mul(f).DivRound(f.Sub(one), precision)
}

// RemainingBalance is the present value of the installments still owed: the
// true amortized principal outstanding on a loan paying monthlyPayment.
func RemainingBalance(monthlyPayment, annualRatePercent decimal.Decimal, remainingInstallments int) decimal.Decimal {
	if remainingInstallments <= 0 {
		return decimal.Zero
	}
	k := decimal.NewFromInt(int64(remainingInstallments))
	r := MonthlyRate(annualRatePercent)
	if r.IsZero() {
		return monthlyPayment.Mul(k)
	}
	// M * (1 - (1+r)^-k) / r == M * (f-1) / (f*r)
	f := pow(one.Add(r), remainingInstallments)
	return monthlyPayment.Mul(f.Sub(one)).DivRound(f.Mul(r), precision)
}

// PayoffProgressPercent is paid/total*100, clamped to [0, 100].
func PayoffProgressPercent(installmentsPaid, totalInstallments int) decimal.Decimal {
	if totalInstallments <= 0 {
		return decimal.Zero
	}
	paid := min(max(installmentsPaid, 0), totalInstallments)
	return decimal.NewFromInt(int64(paid)).Mul(hundred).DivRound(decimal.NewFromInt(int64(totalInstallments)), precision)
}

// pow raises base to a non-negative integer power by squaring, rounding each
// product to the working precision so digit counts stay bounded.
func pow(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(precision)
		}
		base = base.Mul(base).Round(precision)
		n >>= 1
	}
	return result
}
