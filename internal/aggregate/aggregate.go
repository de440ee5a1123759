// Package aggregate reduces transaction and debt records into the summary
// figures shown on the dashboard. Every call rebuilds the summary from its
// arguments; nothing is cached between calls.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/cicil-dev/cicil/internal/amortization"
	"github.com/cicil-dev/cicil/internal/model"
)

var (
	two      = decimal.NewFromInt(2)
	hundred  = decimal.NewFromInt(100)
	maxRatio = hundred
)

// Summary is the derived financial position for one record set.
type Summary struct {
	TotalIncome             decimal.Decimal `json:"total_income"`
	TotalExpense            decimal.Decimal `json:"total_expense"`
	Balance                 decimal.Decimal `json:"balance"`
	TotalMonthlyDebtService decimal.Decimal `json:"total_monthly_debt_service"`

	// TotalRemainingPrincipalEstimate is remaining installments times the
	// stated monthly payment, summed over debts. It ignores the interest still
	// embedded in those installments, so it overstates the principal owed on
	// interest-bearing loans. Downstream risk thresholds are calibrated to this
	// figure; see TotalRemainingBalanceAmortized for the amortized value.
	TotalRemainingPrincipalEstimate decimal.Decimal `json:"total_remaining_principal_estimate"`

	// TotalRemainingBalanceAmortized is the present value of the remaining
	// installments at each debt's own rate.
	TotalRemainingBalanceAmortized decimal.Decimal `json:"total_remaining_balance_amortized"`

	// ExpenseToIncomeRatioPercent is round(100 * expense / income), capped at
	// 100, and 0 when there is no income.
	ExpenseToIncomeRatioPercent decimal.Decimal `json:"expense_to_income_ratio_percent"`

	ActiveDebts int `json:"active_debts"`
}

// Aggregate derives a Summary in a single pass over each slice. Records are
// expected to have passed model validation; Aggregate itself never fails.
func Aggregate(transactions []model.Transaction, debts []model.Debt) Summary {
	s := Summary{
		TotalIncome:                     decimal.Zero,
		TotalExpense:                    decimal.Zero,
		TotalMonthlyDebtService:         decimal.Zero,
		TotalRemainingPrincipalEstimate: decimal.Zero,
		TotalRemainingBalanceAmortized:  decimal.Zero,
	}

	for _, t := range transactions {
		switch t.Type {
		case model.TransactionIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case model.TransactionExpense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)

	for _, d := range debts {
		// Every debt contributes its stated payment, even when nearly paid off.
		s.TotalMonthlyDebtService = s.TotalMonthlyDebtService.Add(d.MonthlyPayment)

		remaining := d.RemainingInstallments()
		s.TotalRemainingPrincipalEstimate = s.TotalRemainingPrincipalEstimate.Add(
			d.MonthlyPayment.Mul(decimal.NewFromInt(int64(remaining))))
		s.TotalRemainingBalanceAmortized = s.TotalRemainingBalanceAmortized.Add(
			amortization.RemainingBalance(d.MonthlyPayment, d.AnnualRatePercent, remaining))

		if d.IsActive() {
			s.ActiveDebts++
		}
	}

	s.ExpenseToIncomeRatioPercent = ExpenseRatioPercent(s.TotalIncome, s.TotalExpense)
	return s
}

// ExpenseRatioPercent is round(100 * expense / income) capped at 100, with
// halves rounded up. An income of zero is a valid state and yields 0.
func ExpenseRatioPercent(income, expense decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	// Integer quotient and exact remainder, so no intermediate rounding.
	q, r := expense.Mul(hundred).QuoRem(income, 0)
	if r.Mul(two).GreaterThanOrEqual(income) {
		q = q.Add(decimal.NewFromInt(1))
	}
	return decimal.Min(q, maxRatio)
}
