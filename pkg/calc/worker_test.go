package calc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalWorkerCompute(t *testing.T) {
	ctx := context.Background()
	w := LocalWorker{}

	cases := []struct {
		left, operator, right string
		want                  string
	}{
		{"3", "+", "5", "8"},
		{"8", "-", "2", "6"},
		{"2.5", "+", "0.25", "2.75"},
		{"1", "-", "-2", "3"},
	}
	for _, tc := range cases {
		got, err := w.Compute(ctx, tc.left, tc.operator, tc.right)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %s %s", tc.left, tc.operator, tc.right)
	}
}

func TestLocalWorkerRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	w := LocalWorker{}

	_, err := w.Compute(ctx, "three", "+", "5")
	assert.Error(t, err)

	_, err = w.Compute(ctx, "3", "*", "5")
	assert.Error(t, err)
}

func TestWorkerFunc(t *testing.T) {
	called := false
	w := WorkerFunc(func(_ context.Context, left, operator, right string) (string, error) {
		called = true
		return left + operator + right, nil
	})

	got, err := w.Compute(context.Background(), "1", "+", "2")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "1+2", got)
}
