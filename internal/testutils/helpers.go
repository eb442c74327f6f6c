package testutils

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
)

// CollectStream drains a step sequence, failing the test on any mid-stream
// error. It returns the deltas in execution order.
func CollectStream(t *testing.T, seq iter.Seq2[domain.Delta, error]) []domain.Delta {
	t.Helper()

	var deltas []domain.Delta
	for delta, err := range seq {
		require.NoError(t, err, "unexpected stream error")
		deltas = append(deltas, delta)
	}
	return deltas
}

// DrainStream consumes the sequence and returns the deltas plus the terminal
// error, if any. Unlike CollectStream it never fails the test.
func DrainStream(seq iter.Seq2[domain.Delta, error]) ([]domain.Delta, error) {
	var deltas []domain.Delta
	for delta, err := range seq {
		if err != nil {
			return deltas, err
		}
		deltas = append(deltas, delta)
	}
	return deltas, nil
}

// SetAction returns an action writing the given fields verbatim.
func SetAction(update domain.State) domain.Action {
	return func(_ context.Context, _ domain.State) (domain.State, error) {
		return update.Clone(), nil
	}
}

// ConstRouter returns a router always emitting the same label.
func ConstRouter(label string) domain.Router {
	return func(_ context.Context, _ domain.State) (string, error) {
		return label, nil
	}
}

// Path extracts the node names from a delta sequence.
func Path(deltas []domain.Delta) []string {
	names := make([]string, 0, len(deltas))
	for _, d := range deltas {
		names = append(names, d.Node)
	}
	return names
}
