package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cicil-dev/cicil/internal/calculator"
)

func newCalcCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc KEY...",
		Short: "Run key presses through the amount keypad and print the result",
		Long: `Run key presses through the amount keypad and print the result.

Keys are digits, "000", ".", "+", "-", "x", "/", "bs" (backspace), "c"
(clear) and "=". A token that is not a single key is read one character at a
time, so "cicil calc 5+3x2" works too.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.configOrDefault()
			if err != nil {
				return err
			}
			format := cfg.Format()

			state, _, err := calculator.Run(args)
			switch {
			case errors.Is(err, calculator.ErrDivisionByZero):
				opts.logger.Warn("division by zero, display reset")
			case errors.Is(err, calculator.ErrNegativeAmount):
				opts.logger.Warn("result is negative and cannot be used as an amount")
			case err != nil:
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), state.Display(format))
			return nil
		},
	}

	return cmd
}
