package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/transport/elastic"
)

func newRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render FILE",
		Short: "Print the Elasticsearch request body of a specification",
		Long: `Loads a specification the way the editor does, assigning missing ids,
and prints the search body with one aggs entry per aggregation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := readSpec(args[0])
			if err != nil {
				return err
			}

			tree := aggregation.NewTree(nil)
			tree.Load(nodes)
			body, err := elastic.Render(tree.Snapshot())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(body)
		},
	}
}
