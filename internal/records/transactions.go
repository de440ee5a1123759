package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cicil-dev/cicil/internal/model"
)

// TransactionsHeader is the first row of transactions.csv.
const TransactionsHeader = "id,type,amount,occurred_at,category"

const (
	txnNumFields = 5
	txnColID     = 0
	txnColType   = 1
	txnColAmount = 2
	txnColAt     = 3
	txnColCat    = 4
)

// ReadTransactions reads transactions.csv. Every row is validated.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	rows, err := readRows(r, txnNumFields)
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	var txns []model.Transaction
	for i, rec := range rows {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes transactions.csv including the header.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(splitHeader(TransactionsHeader)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, txnNumFields)
	row[txnColID] = t.ID
	row[txnColType] = string(t.Type)
	row[txnColAmount] = t.Amount.String()
	row[txnColAt] = t.OccurredAt.Format(time.RFC3339)
	row[txnColCat] = t.Category
	return row
}

// UnmarshalTransaction converts a CSV row to a validated Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != txnNumFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", txnNumFields, len(record))
	}
	id := record[txnColID]

	typ, err := model.ParseTransactionType(record[txnColType])
	if err != nil {
		return model.Transaction{}, &model.RecordError{RecordID: id, Field: "type", Description: err.Error()}
	}

	amount, err := decimal.NewFromString(record[txnColAmount])
	if err != nil {
		return model.Transaction{}, &model.RecordError{RecordID: id, Field: "amount", Description: fmt.Sprintf("parsing %q: %v", record[txnColAmount], err)}
	}

	at, err := time.Parse(time.RFC3339, record[txnColAt])
	if err != nil {
		return model.Transaction{}, &model.RecordError{RecordID: id, Field: "occurred_at", Description: fmt.Sprintf("parsing %q: %v", record[txnColAt], err)}
	}

	return model.NewTransaction(id, typ, amount, at, record[txnColCat])
}
