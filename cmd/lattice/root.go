package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice is a finite-state graph orchestration engine",
	Long:  `Lattice compiles declarative state graphs into executables and drives them step by step, routing on state until the flow reaches its end.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.New(parseLevel(level))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
