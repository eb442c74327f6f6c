package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/adapters/yamlgraph"
	"github.com/aretw0/lattice/pkg/calc"
	"github.com/aretw0/lattice/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [topology.yaml]",
	Short: "Export the graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of a YAML topology, or of the bundled calculator graph when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		topo, err := loadTopology(args)
		if err != nil {
			fmt.Printf("Error loading topology: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(topo, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func loadTopology(args []string) (domain.Topology, error) {
	if len(args) == 0 {
		return calc.NewGraph(calc.LocalWorker{}, calc.LocalWorker{}).Topology(), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return domain.Topology{}, err
	}
	return yamlgraph.Topology(data)
}
