package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cicil-dev/cicil/internal/amortization"
)

func newEstimateCommand(opts *rootOptions) *cobra.Command {
	var principal, rate string
	var term int
	var schedule bool

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the installments of a fixed-rate loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.configOrDefault()
			if err != nil {
				return err
			}
			format := cfg.Format()

			p, err := format.Parse(principal)
			if err != nil {
				return fmt.Errorf("parsing --principal: %w", err)
			}
			annual, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("parsing --rate %q: %w", rate, err)
			}

			terms := amortization.LoanTerms{Principal: p, TermMonths: term, AnnualRatePercent: annual}
			if err := cfg.LoanLimits().Check(terms); err != nil {
				return err
			}

			var periods []amortization.Period
			if schedule {
				periods, err = amortization.Schedule(terms)
				if err != nil {
					return err
				}
			}

			res, err := amortization.Compute(terms)
			if err != nil {
				return err
			}
			opts.logger.Debug("computed estimate", "monthly_rate", amortization.MonthlyRate(annual), "monthly_payment", res.MonthlyPayment)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Monthly payment\t%s\n", format.WithSymbol(res.MonthlyPayment))
			fmt.Fprintf(tw, "Total payment\t%s\n", format.WithSymbol(res.TotalPayment))
			fmt.Fprintf(tw, "Total interest\t%s\n", format.WithSymbol(res.TotalInterest))

			if schedule {
				fmt.Fprintln(tw)
				fmt.Fprintln(tw, "MONTH\tPAYMENT\tINTEREST\tPRINCIPAL\tREMAINING")
				for _, pd := range periods {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", pd.Number,
						format.Amount(pd.Payment), format.Amount(pd.Interest), format.Amount(pd.Principal), format.Amount(pd.Remaining))
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&principal, "principal", "", "loan amount as displayed (required)")
	cmd.Flags().IntVar(&term, "term", 0, "term in months (required)")
	cmd.Flags().StringVar(&rate, "rate", "0", "annual interest rate in percent")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "print the month-by-month schedule")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("term")

	return cmd
}
