package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Debt is an outstanding installment loan.
type Debt struct {
	ID                string
	Name              string
	TotalInstallments int
	InstallmentsPaid  int
	MonthlyPayment    decimal.Decimal
	AnnualRatePercent decimal.Decimal
}

// Validate enforces the numeric well-formedness of a debt.
func (d Debt) Validate() error {
	switch {
	case d.TotalInstallments < 1:
		return &RecordError{RecordID: d.ID, Field: "total_installments", Description: fmt.Sprintf("must be at least 1, got %d", d.TotalInstallments)}
	case d.InstallmentsPaid < 0:
		return &RecordError{RecordID: d.ID, Field: "installments_paid", Description: fmt.Sprintf("must not be negative, got %d", d.InstallmentsPaid)}
	case d.InstallmentsPaid > d.TotalInstallments:
		return &RecordError{RecordID: d.ID, Field: "installments_paid", Description: fmt.Sprintf("%d exceeds total %d", d.InstallmentsPaid, d.TotalInstallments)}
	case d.MonthlyPayment.IsNegative():
		return &RecordError{RecordID: d.ID, Field: "monthly_payment", Description: fmt.Sprintf("negative amount %s", d.MonthlyPayment)}
	case d.AnnualRatePercent.IsNegative():
		return &RecordError{RecordID: d.ID, Field: "annual_rate_percent", Description: fmt.Sprintf("negative rate %s", d.AnnualRatePercent)}
	}
	return nil
}

// RemainingInstallments is max(0, total - paid).
func (d Debt) RemainingInstallments() int {
	return max(0, d.TotalInstallments-d.InstallmentsPaid)
}

// IsActive reports whether installments are still owed.
func (d Debt) IsActive() bool {
	return d.InstallmentsPaid < d.TotalInstallments
}
