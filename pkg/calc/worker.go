package calc

import (
	"context"
	"fmt"
	"strconv"
)

// Worker performs one binary arithmetic operation. It stands in for an
// opaque external collaborator (nominally an LLM-backed agent): the graph
// only assumes the Compute contract and tolerates prose in the output.
type Worker interface {
	Compute(ctx context.Context, left, operator, right string) (string, error)
}

// WorkerFunc adapts an ordinary function to the Worker interface.
type WorkerFunc func(ctx context.Context, left, operator, right string) (string, error)

// Compute calls the underlying function.
func (f WorkerFunc) Compute(ctx context.Context, left, operator, right string) (string, error) {
	return f(ctx, left, operator, right)
}

// LocalWorker evaluates operations in-process. It doubles as the
// deterministic fallback when an external worker fails.
type LocalWorker struct{}

// Compute evaluates left <operator> right.
func (LocalWorker) Compute(_ context.Context, left, operator, right string) (string, error) {
	return evaluate(left, operator, right)
}

func evaluate(left, operator, right string) (string, error) {
	l, err := strconv.ParseFloat(left, 64)
	if err != nil {
		return "", fmt.Errorf("bad left operand %q: %w", left, err)
	}
	r, err := strconv.ParseFloat(right, 64)
	if err != nil {
		return "", fmt.Errorf("bad right operand %q: %w", right, err)
	}

	switch operator {
	case "+":
		return formatNumber(l + r), nil
	case "-":
		return formatNumber(l - r), nil
	default:
		return "", fmt.Errorf("unsupported operator %q", operator)
	}
}

// formatNumber renders without a trailing fraction for whole values,
// so "3+5" reduces to "8" rather than "8.000000".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
