package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cicil-dev/cicil/internal/model"
)

// DebtsHeader is the first row of debts.csv.
const DebtsHeader = "id,name,total_installments,installments_paid,monthly_payment,annual_rate_percent"

const (
	debtNumFields  = 6
	debtColID      = 0
	debtColName    = 1
	debtColTotal   = 2
	debtColPaid    = 3
	debtColMonthly = 4
	debtColRate    = 5
)

// ReadDebts reads debts.csv. Every row is validated.
func ReadDebts(r io.Reader) ([]model.Debt, error) {
	rows, err := readRows(r, debtNumFields)
	if err != nil {
		return nil, fmt.Errorf("reading debts CSV: %w", err)
	}

	var debts []model.Debt
	for i, rec := range rows {
		d, err := UnmarshalDebt(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		debts = append(debts, d)
	}
	return debts, nil
}

// WriteDebts writes debts.csv including the header.
func WriteDebts(w io.Writer, debts []model.Debt) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(splitHeader(DebtsHeader)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, d := range debts {
		if err := cw.Write(MarshalDebt(d)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalDebt converts a Debt to a CSV row.
func MarshalDebt(d model.Debt) []string {
	row := make([]string, debtNumFields)
	row[debtColID] = d.ID
	row[debtColName] = d.Name
	row[debtColTotal] = strconv.Itoa(d.TotalInstallments)
	row[debtColPaid] = strconv.Itoa(d.InstallmentsPaid)
	row[debtColMonthly] = d.MonthlyPayment.String()
	row[debtColRate] = d.AnnualRatePercent.String()
	return row
}

// UnmarshalDebt converts a CSV row to a validated Debt.
func UnmarshalDebt(record []string) (model.Debt, error) {
	if len(record) != debtNumFields {
		return model.Debt{}, fmt.Errorf("expected %d fields, got %d", debtNumFields, len(record))
	}
	id := record[debtColID]

	total, err := strconv.Atoi(record[debtColTotal])
	if err != nil {
		return model.Debt{}, &model.RecordError{RecordID: id, Field: "total_installments", Description: fmt.Sprintf("parsing %q: %v", record[debtColTotal], err)}
	}
	paid, err := strconv.Atoi(record[debtColPaid])
	if err != nil {
		return model.Debt{}, &model.RecordError{RecordID: id, Field: "installments_paid", Description: fmt.Sprintf("parsing %q: %v", record[debtColPaid], err)}
	}
	monthly, err := decimal.NewFromString(record[debtColMonthly])
	if err != nil {
		return model.Debt{}, &model.RecordError{RecordID: id, Field: "monthly_payment", Description: fmt.Sprintf("parsing %q: %v", record[debtColMonthly], err)}
	}
	rate, err := decimal.NewFromString(record[debtColRate])
	if err != nil {
		return model.Debt{}, &model.RecordError{RecordID: id, Field: "annual_rate_percent", Description: fmt.Sprintf("parsing %q: %v", record[debtColRate], err)}
	}

	d := model.Debt{
		ID:                id,
		Name:              record[debtColName],
		TotalInstallments: total,
		InstallmentsPaid:  paid,
		MonthlyPayment:    monthly,
		AnnualRatePercent: rate,
	}
	if err := d.Validate(); err != nil {
		return model.Debt{}, err
	}
	return d, nil
}
