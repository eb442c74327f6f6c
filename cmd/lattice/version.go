package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lattice",
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal() {
			tui.PrintBanner()
		}
		fmt.Printf("lattice version %s\n", strings.TrimSpace(lattice.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
