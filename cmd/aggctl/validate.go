package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/repository/catalog"
)

func newValidateCommand() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a specification file",
		Long: `Reports kinds at the wrong level, missing or incompatible fields,
out-of-range parameters and duplicate ids.

Example:
  aggctl validate search.yaml --catalog config/catalog.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := readSpec(args[0])
			if err != nil {
				return err
			}

			var lookup aggregation.Lookup
			if catalogPath != "" {
				c, err := catalog.Load(catalogPath)
				if err != nil {
					return err
				}
				lookup = c.Property
			}

			problems := aggregation.Check(nodes, lookup)
			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintln(out, p.Error())
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problem(s) in %s", len(problems), args[0])
			}
			fmt.Fprintf(out, "ok: %d aggregation(s)\n", len(nodes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Property catalog used to check field types")
	return cmd
}
