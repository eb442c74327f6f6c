package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/pkg/adapters/yamlgraph"
)

var validateCmd = &cobra.Command{
	Use:   "validate <topology.yaml>",
	Short: "Check a YAML topology for consistency",
	Long:  `Decodes the topology, binds stub handlers and compiles it, reporting unknown nodes, ambiguous edges and unreachable steps.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Topology is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yamlgraph.Validate(data)
}
