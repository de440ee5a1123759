// Package records persists transactions, debts and assets as CSV files in a
// ledger directory. Rows are validated on the way in and on the way out, so
// the aggregation engine only ever sees well-formed records.
package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cicil-dev/cicil/internal/model"
)

// File names inside a ledger directory.
const (
	TransactionsFile = "transactions.csv"
	DebtsFile        = "debts.csv"
	AssetsFile       = "assets.csv"
)

// Ledger is everything a Store holds, read in one go.
type Ledger struct {
	Transactions []model.Transaction
	Debts        []model.Debt
	Assets       []model.Asset
}

// Store reads and appends records under a ledger directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Init creates the ledger directory and any missing record files with their
// headers. Existing files are left untouched.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	for _, f := range []struct {
		name  string
		write func(io.Writer) error
	}{
		{TransactionsFile, func(w io.Writer) error { return WriteTransactions(w, nil) }},
		{DebtsFile, func(w io.Writer) error { return WriteDebts(w, nil) }},
		{AssetsFile, func(w io.Writer) error { return WriteAssets(w, nil) }},
	} {
		path := filepath.Join(s.dir, f.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := writeFile(path, f.write); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Load reads all three record files. Missing files read as empty.
func (s *Store) Load() (Ledger, error) {
	txns, err := s.Transactions()
	if err != nil {
		return Ledger{}, err
	}
	debts, err := s.Debts()
	if err != nil {
		return Ledger{}, err
	}
	assets, err := s.Assets()
	if err != nil {
		return Ledger{}, err
	}
	return Ledger{Transactions: txns, Debts: debts, Assets: assets}, nil
}

// Transactions returns every stored transaction in file order.
func (s *Store) Transactions() ([]model.Transaction, error) {
	var txns []model.Transaction
	err := s.read(TransactionsFile, func(r io.Reader) (err error) {
		txns, err = ReadTransactions(r)
		return err
	})
	return txns, err
}

// TransactionsInMonth returns the transactions that occurred in year/month.
func (s *Store) TransactionsInMonth(year int, month time.Month) ([]model.Transaction, error) {
	all, err := s.Transactions()
	if err != nil {
		return nil, err
	}
	var out []model.Transaction
	for _, t := range all {
		if t.InMonth(year, month) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Debts returns every stored debt in file order.
func (s *Store) Debts() ([]model.Debt, error) {
	var debts []model.Debt
	err := s.read(DebtsFile, func(r io.Reader) (err error) {
		debts, err = ReadDebts(r)
		return err
	})
	return debts, err
}

// Assets returns every stored asset in file order.
func (s *Store) Assets() ([]model.Asset, error) {
	var assets []model.Asset
	err := s.read(AssetsFile, func(r io.Reader) (err error) {
		assets, err = ReadAssets(r)
		return err
	})
	return assets, err
}

// AddTransaction validates t, assigns an ID if it has none, and appends it.
func (s *Store) AddTransaction(t model.Transaction) (model.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return model.Transaction{}, err
	}
	if err := s.appendRow(TransactionsFile, TransactionsHeader, MarshalTransaction(t)); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// AddDebt validates d, assigns an ID if it has none, and appends it.
func (s *Store) AddDebt(d model.Debt) (model.Debt, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := d.Validate(); err != nil {
		return model.Debt{}, err
	}
	if err := s.appendRow(DebtsFile, DebtsHeader, MarshalDebt(d)); err != nil {
		return model.Debt{}, err
	}
	return d, nil
}

// AddAsset validates a, assigns an ID if it has none, and appends it.
func (s *Store) AddAsset(a model.Asset) (model.Asset, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := a.Validate(); err != nil {
		return model.Asset{}, err
	}
	if err := s.appendRow(AssetsFile, AssetsHeader, MarshalAsset(a)); err != nil {
		return model.Asset{}, err
	}
	return a, nil
}

func (s *Store) read(name string, fn func(io.Reader) error) error {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// appendRow appends one CSV row, writing the header first if the file is new.
func (s *Store) appendRow(name, header string, row []string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if isNew {
		if err := cw.Write(splitHeader(header)); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("appending to %s: %w", name, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("appending to %s: %w", name, err)
	}
	return nil
}

// readRows reads all records and drops the header row.
func readRows(r io.Reader, numFields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func splitHeader(header string) []string {
	return strings.Split(header, ",")
}
