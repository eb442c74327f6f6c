package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/calc"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
)

// runCmd evaluates an arithmetic expression through the calculator graph.
var runCmd = &cobra.Command{
	Use:   "run <expression>",
	Short: "Evaluate an arithmetic expression through the calculator graph",
	Long:  `Drives the bundled calculator graph: a router picks the next operation (innermost brackets first) and dispatches it to an operation node until the expression reduces to a number.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExpression(cmd, args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("stream", false, "Print each step's state delta as it executes")
	runCmd.Flags().Bool("trace", false, "Render the operation trace after the run")
	runCmd.Flags().Bool("metrics", false, "Print execution metrics after the run")
	runCmd.Flags().Int("step-limit", 0, "Step budget per invocation (default from LATTICE_STEP_LIMIT)")
}

func runExpression(cmd *cobra.Command, expr string) error {
	streamMode, _ := cmd.Flags().GetBool("stream")
	traceMode, _ := cmd.Flags().GetBool("trace")
	metricsMode, _ := cmd.Flags().GetBool("metrics")

	opts := []lattice.Option{
		lattice.WithLogger(newLogger(cmd)),
		lattice.WithStepLimit(resolveStepLimit(cmd)),
	}

	promReg := prometheus.NewRegistry()
	if metricsMode {
		metrics, err := observability.NewMetrics(promReg)
		if err != nil {
			return err
		}
		opts = append(opts, lattice.WithLifecycleHooks(metrics.Hooks()))
	}

	graph := calc.NewGraph(calc.LocalWorker{}, calc.LocalWorker{})
	runnable, err := graph.Compile(opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	initial := domain.State{calc.KeyExpr: expr}

	var final domain.State
	if streamMode {
		final = domain.State{}
		schema := calc.Schema()
		for delta, err := range runnable.Stream(ctx, initial) {
			if err != nil {
				return err
			}
			fmt.Printf("[%s] %s\n", delta.Node, formatDelta(delta.Update))
			if err := schema.Apply(final, delta.Update); err != nil {
				return err
			}
		}
	} else {
		final, err = runnable.Invoke(ctx, initial)
		if err != nil {
			return err
		}
	}

	result, _ := final[calc.KeyResult].(string)
	fmt.Printf("%s = %s\n", expr, result)

	if traceMode {
		printTrace(expr, result, final)
	}
	if metricsMode {
		if err := printMetrics(promReg); err != nil {
			return err
		}
	}
	return nil
}

// resolveStepLimit prefers the flag, then LATTICE_STEP_LIMIT, then the
// library default.
func resolveStepLimit(cmd *cobra.Command) int {
	if limit, _ := cmd.Flags().GetInt("step-limit"); limit > 0 {
		return limit
	}
	if raw := os.Getenv("LATTICE_STEP_LIMIT"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return lattice.DefaultStepLimit
}

func printTrace(expr, result string, final domain.State) {
	var sb strings.Builder
	sb.WriteString("# Run Trace\n\n")
	sb.WriteString(fmt.Sprintf("**Expression:** `%s`\n\n", expr))
	sb.WriteString(fmt.Sprintf("**Result:** `%s`\n\n", result))
	for i, entry := range traceEntries(final) {
		sb.WriteString(fmt.Sprintf("%d. `%s`\n", i+1, entry))
	}

	markdown := sb.String()
	if !tui.IsTerminal() {
		fmt.Print(markdown)
		return
	}
	render := tui.NewRenderer()
	out, err := render(markdown)
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(out)
}

func traceEntries(state domain.State) []string {
	switch trace := state[calc.KeyTrace].(type) {
	case []string:
		return trace
	case []any:
		out := make([]string, 0, len(trace))
		for _, entry := range trace {
			out = append(out, fmt.Sprint(entry))
		}
		return out
	default:
		return nil
	}
}

func formatDelta(update domain.State) string {
	keys := make([]string, 0, len(update))
	for k := range update {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, update[k]))
	}
	return strings.Join(parts, " ")
}

func printMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	fmt.Println("--- metrics ---")
	enc := expfmt.NewEncoder(os.Stdout, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, fam := range families {
		if err := enc.Encode(fam); err != nil {
			return err
		}
	}
	return nil
}
