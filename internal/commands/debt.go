package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cicil-dev/cicil/internal/amortization"
	"github.com/cicil-dev/cicil/internal/model"
)

func newDebtCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debt",
		Short: "Manage installment debts",
	}
	cmd.AddCommand(newDebtAddCommand(opts))
	return cmd
}

func newDebtAddCommand(opts *rootOptions) *cobra.Command {
	var name, monthly, rate string
	var total, paid int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an installment debt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := opts.loadLedger()
			if err != nil {
				return err
			}
			format := cfg.Format()

			payment, err := format.Parse(monthly)
			if err != nil {
				return fmt.Errorf("parsing --monthly: %w", err)
			}
			annual, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("parsing --rate %q: %w", rate, err)
			}

			d, err := store.AddDebt(model.Debt{
				Name:              name,
				TotalInstallments: total,
				InstallmentsPaid:  paid,
				MonthlyPayment:    payment,
				AnnualRatePercent: annual,
			})
			if err != nil {
				return fmt.Errorf("adding debt: %w", err)
			}
			opts.logger.Info("recorded debt", "id", d.ID, "name", d.Name)

			progress := amortization.PayoffProgressPercent(d.InstallmentsPaid, d.TotalInstallments)
			fmt.Fprintf(cmd.OutOrStdout(), "Added debt %s: %d/%d paid (%s%%), %s per month\n",
				d.Name, d.InstallmentsPaid, d.TotalInstallments, progress.StringFixed(0), format.WithSymbol(d.MonthlyPayment))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "debt name (required)")
	cmd.Flags().IntVar(&total, "total", 0, "total number of installments (required)")
	cmd.Flags().IntVar(&paid, "paid", 0, "installments already paid")
	cmd.Flags().StringVar(&monthly, "monthly", "", "monthly installment as displayed (required)")
	cmd.Flags().StringVar(&rate, "rate", "0", "annual interest rate in percent")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("total")
	_ = cmd.MarkFlagRequired("monthly")

	return cmd
}

func newAssetCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage assets",
	}
	cmd.AddCommand(newAssetAddCommand(opts))
	return cmd
}

func newAssetAddCommand(opts *rootOptions) *cobra.Command {
	var name, quantity, price string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an asset holding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := opts.loadLedger()
			if err != nil {
				return err
			}
			format := cfg.Format()

			qty, err := decimal.NewFromString(quantity)
			if err != nil {
				return fmt.Errorf("parsing --quantity %q: %w", quantity, err)
			}
			unit, err := format.Parse(price)
			if err != nil {
				return fmt.Errorf("parsing --price: %w", err)
			}

			a, err := store.AddAsset(model.Asset{Name: name, Quantity: qty, UnitPrice: unit})
			if err != nil {
				return fmt.Errorf("adding asset: %w", err)
			}
			opts.logger.Info("recorded asset", "id", a.ID, "name", a.Name)

			fmt.Fprintf(cmd.OutOrStdout(), "Added asset %s worth %s\n", a.Name, format.WithSymbol(a.Value()))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "asset name (required)")
	cmd.Flags().StringVar(&quantity, "quantity", "1", "quantity held")
	cmd.Flags().StringVar(&price, "price", "", "unit price as displayed (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}
