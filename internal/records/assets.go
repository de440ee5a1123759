package records

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cicil-dev/cicil/internal/model"
)

// AssetsHeader is the first row of assets.csv.
const AssetsHeader = "id,name,quantity,unit_price"

const (
	assetNumFields = 4
	assetColID     = 0
	assetColName   = 1
	assetColQty    = 2
	assetColPrice  = 3
)

// ReadAssets reads assets.csv. Every row is validated.
func ReadAssets(r io.Reader) ([]model.Asset, error) {
	rows, err := readRows(r, assetNumFields)
	if err != nil {
		return nil, fmt.Errorf("reading assets CSV: %w", err)
	}

	var assets []model.Asset
	for i, rec := range rows {
		a, err := UnmarshalAsset(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// WriteAssets writes assets.csv including the header.
func WriteAssets(w io.Writer, assets []model.Asset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(splitHeader(AssetsHeader)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range assets {
		if err := cw.Write(MarshalAsset(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAsset converts an Asset to a CSV row.
func MarshalAsset(a model.Asset) []string {
	row := make([]string, assetNumFields)
	row[assetColID] = a.ID
	row[assetColName] = a.Name
	row[assetColQty] = a.Quantity.String()
	row[assetColPrice] = a.UnitPrice.String()
	return row
}

// UnmarshalAsset converts a CSV row to a validated Asset.
func UnmarshalAsset(record []string) (model.Asset, error) {
	if len(record) != assetNumFields {
		return model.Asset{}, fmt.Errorf("expected %d fields, got %d", assetNumFields, len(record))
	}
	id := record[assetColID]

	qty, err := decimal.NewFromString(record[assetColQty])
	if err != nil {
		return model.Asset{}, &model.RecordError{RecordID: id, Field: "quantity", Description: fmt.Sprintf("parsing %q: %v", record[assetColQty], err)}
	}
	price, err := decimal.NewFromString(record[assetColPrice])
	if err != nil {
		return model.Asset{}, &model.RecordError{RecordID: id, Field: "unit_price", Description: fmt.Sprintf("parsing %q: %v", record[assetColPrice], err)}
	}

	a := model.Asset{ID: id, Name: record[assetColName], Quantity: qty, UnitPrice: price}
	if err := a.Validate(); err != nil {
		return model.Asset{}, err
	}
	return a, nil
}
