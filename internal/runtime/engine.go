// Package runtime implements the step loop that drives a compiled program:
// resolve the next node, run its action, merge the partial update, repeat
// until End or failure.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
)

// DefaultStepLimit is the intrinsic guard against conditional cycles that
// never reach End.
const DefaultStepLimit = 100

// Engine executes a compiled program. It holds no per-invocation state:
// the same engine may serve concurrent invocations, each with its own
// state instance.
type Engine struct {
	program   *compiler.Program
	stepLimit int
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

// NewEngine creates an engine for a compiled program.
func NewEngine(program *compiler.Program, opts ...EngineOption) *Engine {
	e := &Engine{
		program:   program,
		stepLimit: DefaultStepLimit,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Program exposes the compiled program for introspection.
func (e *Engine) Program() *compiler.Program { return e.program }

// Invoke runs the program to termination and returns the final state.
// The initial state is cloned; the caller's map is never mutated.
func (e *Engine) Invoke(ctx context.Context, initial domain.State) (domain.State, error) {
	return e.run(ctx, initial, nil)
}

// run is the single step loop shared by Invoke and Stream. When emit is
// non-nil it receives each step's delta; returning false stops execution
// early without error (consumer walked away).
func (e *Engine) run(ctx context.Context, initial domain.State, emit func(domain.Delta) bool) (domain.State, error) {
	state := initial.Clone()
	if state == nil {
		state = domain.State{}
	}

	runID := uuid.NewString()
	logger := e.logger.With("run", runID)
	started := time.Now()
	e.emit(ctx, e.hooks.OnRunStart, &domain.RunEvent{Type: domain.EventRunStart, RunID: runID})

	current := domain.Start
	var path []string
	finish := func(err error) (domain.State, error) {
		e.emit(ctx, e.hooks.OnRunEnd, &domain.RunEvent{
			Type:     domain.EventRunEnd,
			RunID:    runID,
			Node:     current,
			Step:     len(path),
			Duration: time.Since(started),
			Err:      err,
		})
		return state, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		next, err := e.resolveNext(ctx, current, state)
		if err != nil {
			return finish(err)
		}
		if next == domain.End {
			logger.Debug("run terminated", "steps", len(path))
			return finish(nil)
		}

		if len(path) >= e.stepLimit {
			return finish(&domain.StepLimitError{Limit: e.stepLimit, Path: path, State: state})
		}

		node := e.program.Nodes[next]
		step := len(path) + 1
		e.emit(ctx, e.hooks.OnNodeEnter, &domain.RunEvent{
			Type: domain.EventNodeEnter, RunID: runID, Node: next, Step: step,
		})

		stepStart := time.Now()
		delta, err := node.Action(ctx, state)
		if err != nil {
			return finish(&domain.NodeFailureError{Node: next, State: state, Err: err})
		}
		if err := e.program.Schema.Apply(state, delta); err != nil {
			return finish(&domain.NodeFailureError{Node: next, State: state, Err: err})
		}
		path = append(path, next)
		logger.Debug("step executed", "node", next, "step", step)

		e.emit(ctx, e.hooks.OnNodeLeave, &domain.RunEvent{
			Type: domain.EventNodeLeave, RunID: runID, Node: next, Step: step,
			Delta: delta, Duration: time.Since(stepStart),
		})

		if emit != nil && !emit(domain.Delta{Node: next, Update: delta}) {
			logger.Debug("stream consumer stopped", "node", next)
			return finish(nil)
		}

		current = next
	}
}

// resolveNext determines the node following current: a plain edge wins by
// construction (the compiler rejects a source with both kinds), otherwise
// the conditional edge's decision function is consulted.
func (e *Engine) resolveNext(ctx context.Context, current string, state domain.State) (string, error) {
	if target, ok := e.program.Next[current]; ok {
		return target, nil
	}
	route, ok := e.program.Routes[current]
	if !ok {
		return "", &domain.NoTransitionError{Node: current, State: state.Clone()}
	}

	label, err := route.Decide(ctx, state)
	if err != nil {
		return "", &domain.NoTransitionError{Node: current, State: state.Clone(), Cause: err}
	}
	target, ok := route.Mapping[label]
	if !ok {
		if label == domain.LabelEnd {
			// "end" terminates even when the mapping omits it explicitly.
			return domain.End, nil
		}
		return "", &domain.NoTransitionError{Node: current, Label: label, State: state.Clone()}
	}
	return target, nil
}

func (e *Engine) emit(ctx context.Context, hook func(context.Context, *domain.RunEvent), event *domain.RunEvent) {
	if hook == nil {
		return
	}
	event.Timestamp = time.Now()
	hook(ctx, event)
}
