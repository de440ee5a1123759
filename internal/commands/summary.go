package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cicil-dev/cicil/internal/aggregate"
	"github.com/cicil-dev/cicil/internal/amortization"
	"github.com/cicil-dev/cicil/internal/money"
	"github.com/cicil-dev/cicil/internal/model"
)

const monthLayout = "2006-01"

// summaryReport is the --json output of the summary command.
type summaryReport struct {
	Month           string                    `json:"month,omitempty"`
	Summary         aggregate.Summary         `json:"summary"`
	Categories      []aggregate.CategoryTotal `json:"categories"`
	Debts           []debtStatus              `json:"debts"`
	TotalAssetValue decimal.Decimal           `json:"total_asset_value"`
	RiskInput       aggregate.RiskPayload     `json:"risk_input"`
}

type debtStatus struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	RemainingInstallments int             `json:"remaining_installments"`
	PayoffProgressPercent decimal.Decimal `json:"payoff_progress_percent"`
	RemainingBalance      decimal.Decimal `json:"remaining_balance"`
}

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	var month string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses, debt load and the expense ratio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := opts.loadLedger()
			if err != nil {
				return err
			}

			ledger, err := store.Load()
			if err != nil {
				return fmt.Errorf("loading records: %w", err)
			}

			txns := ledger.Transactions
			if month != "" {
				m, err := time.Parse(monthLayout, month)
				if err != nil {
					return fmt.Errorf("parsing --month %q: want YYYY-MM", month)
				}
				txns, err = store.TransactionsInMonth(m.Year(), m.Month())
				if err != nil {
					return fmt.Errorf("loading records: %w", err)
				}
			}
			opts.logger.Debug("loaded records",
				"transactions", len(txns), "debts", len(ledger.Debts), "assets", len(ledger.Assets))

			summary := aggregate.Aggregate(txns, ledger.Debts)
			report := summaryReport{
				Month:           month,
				Summary:         summary,
				Categories:      aggregate.ByCategory(txns),
				Debts:           debtStatuses(ledger.Debts),
				TotalAssetValue: aggregate.TotalAssetValue(ledger.Assets),
				RiskInput:       aggregate.RiskInput(summary, cfg.RiskProfile()),
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return writeSummary(cmd.OutOrStdout(), cfg.Format(), report)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "only count transactions from this month (YYYY-MM)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary and risk payload as JSON")

	return cmd
}

func debtStatuses(debts []model.Debt) []debtStatus {
	out := make([]debtStatus, 0, len(debts))
	for _, d := range debts {
		out = append(out, debtStatus{
			ID:                    d.ID,
			Name:                  d.Name,
			RemainingInstallments: d.RemainingInstallments(),
			PayoffProgressPercent: amortization.PayoffProgressPercent(d.InstallmentsPaid, d.TotalInstallments).Round(2),
			RemainingBalance:      amortization.RemainingBalance(d.MonthlyPayment, d.AnnualRatePercent, d.RemainingInstallments()),
		})
	}
	return out
}

func writeSummary(w io.Writer, f money.Format, r summaryReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	s := r.Summary

	if r.Month != "" {
		fmt.Fprintf(tw, "Month\t%s\n", r.Month)
	}
	fmt.Fprintf(tw, "Income\t%s\n", f.WithSymbol(s.TotalIncome))
	fmt.Fprintf(tw, "Expenses\t%s\n", f.WithSymbol(s.TotalExpense))
	fmt.Fprintf(tw, "Balance\t%s\n", f.WithSymbol(s.Balance))
	fmt.Fprintf(tw, "Expense ratio\t%s%%\n", s.ExpenseToIncomeRatioPercent)
	fmt.Fprintf(tw, "Monthly installments\t%s\n", f.WithSymbol(s.TotalMonthlyDebtService))
	fmt.Fprintf(tw, "Remaining debt (installments)\t%s\n", f.WithSymbol(s.TotalRemainingPrincipalEstimate))
	fmt.Fprintf(tw, "Remaining debt (amortized)\t%s\n", f.WithSymbol(s.TotalRemainingBalanceAmortized))
	fmt.Fprintf(tw, "Active debts\t%d\n", s.ActiveDebts)
	fmt.Fprintf(tw, "Assets\t%s\n", f.WithSymbol(r.TotalAssetValue))

	if len(r.Categories) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "TYPE\tCATEGORY\tCOUNT\tTOTAL")
		for _, c := range r.Categories {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.Type, c.Category, c.Count, f.WithSymbol(c.Total))
		}
	}

	if len(r.Debts) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "DEBT\tLEFT\tPAID\tBALANCE")
		for _, d := range r.Debts {
			fmt.Fprintf(tw, "%s\t%d\t%s%%\t%s\n", d.Name, d.RemainingInstallments, d.PayoffProgressPercent.StringFixed(0), f.WithSymbol(d.RemainingBalance))
		}
	}

	return tw.Flush()
}
