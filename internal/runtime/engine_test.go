package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/pkg/domain"
)

func mustCompile(t *testing.T, schema domain.Schema, nodes map[string]domain.Node, edges []domain.Edge, conditionals []domain.ConditionalEdge) *compiler.Program {
	t.Helper()
	program, err := compiler.Compile(schema, nodes, edges, conditionals)
	require.NoError(t, err)
	return program
}

func setAction(update domain.State) domain.Action {
	return func(_ context.Context, _ domain.State) (domain.State, error) {
		return update.Clone(), nil
	}
}

// linearProgram is start -> first -> second -> end, each node writing a field.
func linearProgram(t *testing.T) *compiler.Program {
	return mustCompile(t, domain.Schema{"steps": domain.Sum},
		map[string]domain.Node{
			"first":  {Name: "first", Action: setAction(domain.State{"greeting": "hello", "steps": 1})},
			"second": {Name: "second", Action: setAction(domain.State{"subject": "world", "steps": 1})},
		},
		[]domain.Edge{
			{Source: domain.Start, Target: "first"},
			{Source: "first", Target: "second"},
			{Source: "second", Target: domain.End},
		}, nil)
}

func TestInvokeLinear(t *testing.T) {
	engine := NewEngine(linearProgram(t))

	final, err := engine.Invoke(context.Background(), domain.State{"input": "x"})
	require.NoError(t, err)

	assert.Equal(t, "hello", final["greeting"])
	assert.Equal(t, "world", final["subject"])
	assert.Equal(t, "x", final["input"])
	assert.Equal(t, int64(2), final["steps"])
}

func TestInvokeDoesNotMutateInitial(t *testing.T) {
	engine := NewEngine(linearProgram(t))

	initial := domain.State{"input": "x"}
	_, err := engine.Invoke(context.Background(), initial)
	require.NoError(t, err)

	assert.Equal(t, domain.State{"input": "x"}, initial)
}

func TestInvokeNilInitialState(t *testing.T) {
	engine := NewEngine(linearProgram(t))

	final, err := engine.Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", final["greeting"])
}

func TestInvokeConditionalRouting(t *testing.T) {
	program := mustCompile(t, nil,
		map[string]domain.Node{
			"decide": {Name: "decide", Action: setAction(nil)},
			"left":   {Name: "left", Action: setAction(domain.State{"took": "left"})},
			"right":  {Name: "right", Action: setAction(domain.State{"took": "right"})},
		},
		[]domain.Edge{
			{Source: domain.Start, Target: "decide"},
			{Source: "left", Target: domain.End},
			{Source: "right", Target: domain.End},
		},
		[]domain.ConditionalEdge{{
			Source: "decide",
			Decide: func(_ context.Context, state domain.State) (string, error) {
				if state["want"] == "left" {
					return "l", nil
				}
				return "r", nil
			},
			Mapping: map[string]string{"l": "left", "r": "right"},
		}})

	engine := NewEngine(program)

	final, err := engine.Invoke(context.Background(), domain.State{"want": "left"})
	require.NoError(t, err)
	assert.Equal(t, "left", final["took"])

	final, err = engine.Invoke(context.Background(), domain.State{"want": "anything"})
	require.NoError(t, err)
	assert.Equal(t, "right", final["took"])
}

func TestInvokeUnmappedLabel(t *testing.T) {
	program := mustCompile(t, nil,
		map[string]domain.Node{"decide": {Name: "decide", Action: setAction(nil)}},
		[]domain.Edge{{Source: domain.Start, Target: "decide"}},
		[]domain.ConditionalEdge{{
			Source:  "decide",
			Decide:  func(_ context.Context, _ domain.State) (string, error) { return "sideways", nil },
			Mapping: map[string]string{"up": "end"},
		}})

	_, err := NewEngine(program).Invoke(context.Background(), nil)

	var noTransition *domain.NoTransitionError
	require.ErrorAs(t, err, &noTransition)
	assert.Equal(t, "decide", noTransition.Node)
	assert.Equal(t, "sideways", noTransition.Label)
	assert.NotNil(t, noTransition.State)
}

func TestInvokeEndLabelTerminatesImplicitly(t *testing.T) {
	program := mustCompile(t, nil,
		map[string]domain.Node{"decide": {Name: "decide", Action: setAction(domain.State{"done": true})}},
		[]domain.Edge{{Source: domain.Start, Target: "decide"}},
		[]domain.ConditionalEdge{{
			Source:  "decide",
			Decide:  func(_ context.Context, _ domain.State) (string, error) { return domain.LabelEnd, nil },
			Mapping: map[string]string{"again": "decide"},
		}})

	final, err := NewEngine(program).Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, true, final["done"])
}

func TestInvokeRouterError(t *testing.T) {
	boom := errors.New("boom")
	program := mustCompile(t, nil,
		map[string]domain.Node{"decide": {Name: "decide", Action: setAction(nil)}},
		[]domain.Edge{{Source: domain.Start, Target: "decide"}},
		[]domain.ConditionalEdge{{
			Source:  "decide",
			Decide:  func(_ context.Context, _ domain.State) (string, error) { return "", boom },
			Mapping: map[string]string{"go": "end"},
		}})

	_, err := NewEngine(program).Invoke(context.Background(), nil)

	var noTransition *domain.NoTransitionError
	require.ErrorAs(t, err, &noTransition)
	assert.Equal(t, "decide", noTransition.Node)
	assert.True(t, errors.Is(err, boom))
}

func TestInvokeStepLimit(t *testing.T) {
	program := mustCompile(t, nil,
		map[string]domain.Node{"loop": {Name: "loop", Action: setAction(nil)}},
		[]domain.Edge{{Source: domain.Start, Target: "loop"}},
		[]domain.ConditionalEdge{{
			Source:  "loop",
			Decide:  func(_ context.Context, _ domain.State) (string, error) { return "again", nil },
			Mapping: map[string]string{"again": "loop"},
		}})

	engine := NewEngine(program, WithStepLimit(5))

	_, err := engine.Invoke(context.Background(), domain.State{"seed": 1})

	var limit *domain.StepLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 5, limit.Limit)
	assert.Len(t, limit.Path, 5)
	assert.Equal(t, 1, limit.State["seed"])
}

func TestInvokeNodeFailure(t *testing.T) {
	broken := errors.New("worker unavailable")
	program := mustCompile(t, nil,
		map[string]domain.Node{
			"fragile": {Name: "fragile", Action: func(_ context.Context, _ domain.State) (domain.State, error) {
				return nil, broken
			}},
		},
		[]domain.Edge{
			{Source: domain.Start, Target: "fragile"},
			{Source: "fragile", Target: domain.End},
		}, nil)

	_, err := NewEngine(program).Invoke(context.Background(), nil)

	var failure *domain.NodeFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "fragile", failure.Node)
	assert.True(t, errors.Is(err, broken))
}

func TestInvokeContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(linearProgram(t)).Invoke(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLifecycleHooks(t *testing.T) {
	var events []domain.EventType
	var runIDs []string
	record := func(_ context.Context, ev *domain.RunEvent) {
		events = append(events, ev.Type)
		runIDs = append(runIDs, ev.RunID)
	}

	engine := NewEngine(linearProgram(t), WithLifecycleHooks(domain.LifecycleHooks{
		OnRunStart:  record,
		OnNodeEnter: record,
		OnNodeLeave: record,
		OnRunEnd:    record,
	}))

	_, err := engine.Invoke(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{
		domain.EventRunStart,
		domain.EventNodeEnter, domain.EventNodeLeave,
		domain.EventNodeEnter, domain.EventNodeLeave,
		domain.EventRunEnd,
	}, events)

	for _, id := range runIDs {
		assert.Equal(t, runIDs[0], id, "all events must share the run ID")
	}
	assert.NotEmpty(t, runIDs[0])
}

func TestLifecycleHooksReportFailure(t *testing.T) {
	var endErr error
	engine := NewEngine(linearProgram(t),
		WithStepLimit(1),
		WithLifecycleHooks(domain.LifecycleHooks{
			OnRunEnd: func(_ context.Context, ev *domain.RunEvent) { endErr = ev.Err },
		}))

	_, err := engine.Invoke(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, err, endErr)
}
