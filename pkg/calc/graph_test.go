package calc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
)

func evaluateExpr(t *testing.T, expr string, opts ...GraphOption) (domain.State, error) {
	t.Helper()
	runnable, err := NewGraph(LocalWorker{}, LocalWorker{}, opts...).Compile()
	require.NoError(t, err)
	return runnable.Invoke(context.Background(), domain.State{KeyExpr: expr})
}

func TestGraphEvaluatesExpression(t *testing.T) {
	final, err := evaluateExpr(t, "(3+5)-2")
	require.NoError(t, err)

	assert.Equal(t, "6", final[KeyResult])
	assert.Equal(t, "6", final[KeyExpr])
	assert.Equal(t, int64(3), final[KeySteps], "router ran twice for operations plus once to conclude")
	assert.Equal(t, []string{"3 + 5 = 8", "8 - 2 = 6"}, final[KeyTrace])
}

func TestGraphEvaluationTable(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"1+1", "2"},
		{"10-2+3", "11"},
		{"2-(3+5)", "-6"},
		{"((1+2)-3)", "0"},
		{"(3+5)-(2+1)", "5"},
		{"7", "7"},
		{"(8)", "8"},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			final, err := evaluateExpr(t, tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, final[KeyResult])
		})
	}
}

func TestGraphMissingRouteLabel(t *testing.T) {
	// Rename the label so the node stays reachable but the router's output
	// no longer matches the mapping.
	mapping := DefaultMapping()
	mapping["bracket_minus"] = mapping[RouteSubtractBracket]
	delete(mapping, RouteSubtractBracket)

	_, err := evaluateExpr(t, "(3-5)+2", WithRouteMapping(mapping))

	var noTransition *domain.NoTransitionError
	require.ErrorAs(t, err, &noTransition)
	assert.Equal(t, NodeRouter, noTransition.Node)
	assert.Equal(t, RouteSubtractBracket, noTransition.Label)
}

func TestRouteExpression(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		expr string
		want string
	}{
		{"1+2", RoutePlus},
		{"1-2", RouteSubtract},
		{"(1+2)-3", RoutePlusBracket},
		{"(1-2)+3", RouteSubtractBracket},
		{"9", RouteEnd},
	}
	for _, tc := range cases {
		delta, err := RouteExpression(ctx, domain.State{KeyExpr: tc.expr})
		require.NoError(t, err)
		assert.Equal(t, tc.want, delta[KeyRoute], "expr %q", tc.expr)
	}
}

func TestComputeStepFallsBackOnWorkerError(t *testing.T) {
	flaky := WorkerFunc(func(_ context.Context, _, _, _ string) (string, error) {
		return "", errors.New("agent timeout")
	})

	runnable, err := NewGraph(flaky, flaky).Compile()
	require.NoError(t, err)

	final, err := runnable.Invoke(context.Background(), domain.State{KeyExpr: "(3+5)-2"})
	require.NoError(t, err, "worker failures degrade to local evaluation")
	assert.Equal(t, "6", final[KeyResult])
}

func TestComputeStepExtractsFromProse(t *testing.T) {
	chatty := WorkerFunc(func(_ context.Context, left, operator, right string) (string, error) {
		result, err := evaluate(left, operator, right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("After careful thought, the answer is %s.", result), nil
	})

	runnable, err := NewGraph(chatty, chatty).Compile()
	require.NoError(t, err)

	final, err := runnable.Invoke(context.Background(), domain.State{KeyExpr: "2+2"})
	require.NoError(t, err)
	assert.Equal(t, "4", final[KeyResult])
}

func TestComputeStepInvalidOperands(t *testing.T) {
	step := ComputeStep(LocalWorker{})
	_, err := step(context.Background(), domain.State{
		KeyExpr:  "x+y",
		KeyLeft:  "x",
		KeyRight: "y",
		KeyOp:    "+",
		KeySpan:  []int{0, 3},
	})
	assert.Error(t, err)
}

func TestRegisterActions(t *testing.T) {
	reg := registry.New()
	require.NoError(t, RegisterActions(reg, LocalWorker{}, LocalWorker{}))

	for _, name := range []string{"calc.route", "calc.plus", "calc.subtract"} {
		_, ok := reg.Resolve(name)
		assert.True(t, ok, "missing action %q", name)
	}
	_, ok := reg.ResolveRouter("calc.route_label")
	assert.True(t, ok)
}
