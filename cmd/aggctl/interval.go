package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
)

func newIntervalCommand() *cobra.Command {
	var (
		lo, hi float64
		isDate bool
	)

	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Compute the histogram interval for a value range",
		Long: `Computes the bucket width the editor derives from field statistics.

Example:
  # Numeric field ranging from 0 to 1000
  aggctl interval --min 0 --max 1000

  # Date field, bounds in epoch milliseconds
  aggctl interval --min 1700000000000 --max 1702592000000 --date`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if hi < lo {
				return fmt.Errorf("--max (%g) must not be below --min (%g)", hi, lo)
			}
			r := interval.Calculate(interval.Stats{Min: lo, Max: hi}, isDate)

			out := cmd.OutOrStdout()
			if !r.IsDate {
				_, err := fmt.Fprintf(out, "interval: %s\n", r.Encoded())
				return err
			}
			_, err := fmt.Fprintf(out, "interval: %s (%d %s)\n", r.Encoded(), r.Magnitude(), r.Unit.Name)
			return err
		},
	}

	cmd.Flags().Float64Var(&lo, "min", 0, "Lower bound of the field")
	cmd.Flags().Float64Var(&hi, "max", 0, "Upper bound of the field")
	cmd.Flags().BoolVar(&isDate, "date", false, "Treat bounds as epoch milliseconds of a date field")
	_ = cmd.MarkFlagRequired("max")

	return cmd
}
