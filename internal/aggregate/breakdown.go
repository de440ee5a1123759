package aggregate

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cicil-dev/cicil/internal/model"
)

// uncategorized labels transactions recorded without a category.
const uncategorized = "uncategorized"

// CategoryTotal is the sum of one category on one side of the ledger.
type CategoryTotal struct {
	Type     model.TransactionType `json:"type"`
	Category string                `json:"category"`
	Total    decimal.Decimal       `json:"total"`
	Count    int                   `json:"count"`
}

// ByCategory totals transactions per (type, category). Income sorts before
// expense; within a type the largest total comes first, ties broken by name.
func ByCategory(transactions []model.Transaction) []CategoryTotal {
	type key struct {
		typ      model.TransactionType
		category string
	}
	index := make(map[key]int)
	var totals []CategoryTotal

	for _, t := range transactions {
		category := t.Category
		if category == "" {
			category = uncategorized
		}
		k := key{t.Type, category}
		i, ok := index[k]
		if !ok {
			i = len(totals)
			index[k] = i
			totals = append(totals, CategoryTotal{Type: t.Type, Category: category, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(t.Amount)
		totals[i].Count++
	}

	slices.SortFunc(totals, func(a, b CategoryTotal) int {
		if c := cmp.Compare(typeRank(a.Type), typeRank(b.Type)); c != 0 {
			return c
		}
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return totals
}

func typeRank(t model.TransactionType) int {
	if t == model.TransactionIncome {
		return 0
	}
	return 1
}

// TotalAssetValue sums quantity * unit price over assets.
func TotalAssetValue(assets []model.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(a.Value())
	}
	return total
}

// Profile carries the borrower facts the risk classifier needs beyond the
// ledger itself.
type Profile struct {
	Dependents        int
	MissedPayments    int
	HasDefaultHistory bool
}

// RiskPayload is the request body of the external risk classifier.
type RiskPayload struct {
	Income              decimal.Decimal `json:"income"`
	Expenses            decimal.Decimal `json:"expenses"`
	MonthlyLoan         decimal.Decimal `json:"monthly_loan"`
	RemainingDebt       decimal.Decimal `json:"remaining_debt"`
	Dependents          int             `json:"dependents"`
	MissedPayments      int             `json:"missed_payments"`
	HasDefaultHistory   bool            `json:"has_default_history"`
	ExpenseRatioPercent decimal.Decimal `json:"expense_ratio_percent"`
}

// RiskInput builds the classifier payload. RemainingDebt is the installment
// estimate, which is what the classifier's thresholds expect.
func RiskInput(s Summary, p Profile) RiskPayload {
	return RiskPayload{
		Income:              s.TotalIncome,
		Expenses:            s.TotalExpense,
		MonthlyLoan:         s.TotalMonthlyDebtService,
		RemainingDebt:       s.TotalRemainingPrincipalEstimate,
		Dependents:          p.Dependents,
		MissedPayments:      p.MissedPayments,
		HasDefaultHistory:   p.HasDefaultHistory,
		ExpenseRatioPercent: s.ExpenseToIncomeRatioPercent,
	}
}
