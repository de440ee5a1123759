package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Asset is a holding valued at quantity times unit price.
type Asset struct {
	ID        string
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Validate rejects negative quantities and prices.
func (a Asset) Validate() error {
	if a.Quantity.IsNegative() {
		return &RecordError{RecordID: a.ID, Field: "quantity", Description: fmt.Sprintf("negative quantity %s", a.Quantity)}
	}
	if a.UnitPrice.IsNegative() {
		return &RecordError{RecordID: a.ID, Field: "unit_price", Description: fmt.Sprintf("negative price %s", a.UnitPrice)}
	}
	return nil
}

// Value returns Quantity * UnitPrice.
func (a Asset) Value() decimal.Decimal {
	return a.Quantity.Mul(a.UnitPrice)
}
