package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/version"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "aggctl",
		Short:        "Inspect aggregation specifications",
		Long:         `aggctl computes histogram intervals and validates or renders stored aggregation specifications.`,
		SilenceUsage: true,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
	}

	cmd.AddCommand(
		newIntervalCommand(),
		newValidateCommand(),
		newRenderCommand(),
	)
	return cmd
}

// specDocument is the wrapped form of a specification file.
type specDocument struct {
	Aggregations []aggregation.Node `yaml:"aggregations"`
}

// readSpec reads a specification file in YAML or JSON, either a bare list of
// aggregations or an object with an "aggregations" key.
func readSpec(path string) ([]aggregation.Node, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read specification: %w", err)
	}

	var nodes []aggregation.Node
	if err := yaml.Unmarshal(data, &nodes); err == nil {
		return nodes, nil
	}

	var doc specDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse specification %s: %w", path, err)
	}
	return doc.Aggregations, nil
}
