package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cicil-dev/cicil/internal/calculator"
	"github.com/cicil-dev/cicil/internal/money"
	"github.com/cicil-dev/cicil/internal/model"
)

const dateLayout = "2006-01-02"

func newAddCommand(opts *rootOptions) *cobra.Command {
	var amount, keys, category, date string

	cmd := &cobra.Command{
		Use:   "add income|expense",
		Short: "Record an income or expense transaction",
		Long: `Record an income or expense transaction.

The amount is given either as a formatted string (--amount "25.000") or as
keypad presses run through the calculator (--keys "25 000 + 5 000 =").`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.TransactionIncome), string(model.TransactionExpense)},
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := model.ParseTransactionType(args[0])
			if err != nil {
				return err
			}

			cfg, store, err := opts.loadLedger()
			if err != nil {
				return err
			}
			format := cfg.Format()

			value, err := amountFromFlags(opts, format, amount, keys)
			if err != nil {
				return err
			}

			occurredAt := time.Now()
			if date != "" {
				occurredAt, err = time.ParseInLocation(dateLayout, date, time.Local)
				if err != nil {
					return fmt.Errorf("parsing --date: %w", err)
				}
			}

			t, err := store.AddTransaction(model.Transaction{
				Type:       typ,
				Amount:     value,
				OccurredAt: occurredAt,
				Category:   strings.TrimSpace(category),
			})
			if err != nil {
				return fmt.Errorf("adding transaction: %w", err)
			}
			opts.logger.Info("recorded transaction", "id", t.ID, "type", t.Type, "category", t.Category)

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s", t.Type, format.WithSymbol(t.Amount))
			if t.Category != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s)", t.Category)
			}
			fmt.Fprintf(cmd.OutOrStdout(), " on %s\n", t.OccurredAt.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount as displayed, e.g. \"25.000\"")
	cmd.Flags().StringVar(&keys, "keys", "", "calculator key presses, e.g. \"25 000 + 5 000 =\"")
	cmd.Flags().StringVar(&category, "category", "", "category label")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.MarkFlagsMutuallyExclusive("amount", "keys")
	cmd.MarkFlagsOneRequired("amount", "keys")

	return cmd
}

// amountFromFlags resolves an amount from either a display string or a
// calculator key sequence.
func amountFromFlags(opts *rootOptions, format money.Format, amount, keys string) (decimal.Decimal, error) {
	if keys == "" {
		v, err := format.Parse(amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing --amount: %w", err)
		}
		return v, nil
	}

	state, v, err := calculator.Run(strings.Fields(keys))
	switch {
	case errors.Is(err, calculator.ErrDivisionByZero):
		opts.logger.Warn("calculator division by zero, entry reset")
		return decimal.Zero, fmt.Errorf("evaluating --keys: %w", err)
	case err != nil:
		return decimal.Zero, fmt.Errorf("evaluating --keys: %w", err)
	}
	opts.logger.Debug("calculator result", "display", state.Display(format))
	return v, nil
}
