package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType says which side of the ledger a transaction lands on.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TransactionIncome, TransactionExpense:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is one income or expense record.
type Transaction struct {
	ID         string
	Amount     decimal.Decimal
	Type       TransactionType
	OccurredAt time.Time
	Category   string
}

// Validate checks the fields aggregation relies on.
func (t Transaction) Validate() error {
	if t.Type != TransactionIncome && t.Type != TransactionExpense {
		return &RecordError{RecordID: t.ID, Field: "type", Description: fmt.Sprintf("unknown type %q", t.Type)}
	}
	if t.Amount.IsNegative() {
		return &RecordError{RecordID: t.ID, Field: "amount", Description: fmt.Sprintf("negative amount %s", t.Amount)}
	}
	if t.OccurredAt.IsZero() {
		return &RecordError{RecordID: t.ID, Field: "occurred_at", Description: "missing timestamp"}
	}
	return nil
}

// NewTransaction builds a validated Transaction.
func NewTransaction(id string, typ TransactionType, amount decimal.Decimal, occurredAt time.Time, category string) (Transaction, error) {
	t := Transaction{
		ID:         id,
		Amount:     amount,
		Type:       typ,
		OccurredAt: occurredAt,
		Category:   strings.TrimSpace(category),
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// InMonth reports whether the transaction happened in the given calendar month.
func (t Transaction) InMonth(year int, month time.Month) bool {
	return t.OccurredAt.Year() == year && t.OccurredAt.Month() == month
}
