package lattice

import (
	"context"
	"iter"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
)

// Runnable is a compiled, immutable graph. It is reused across many
// invocations: each Invoke or Stream gets a fresh state instance seeded from
// the caller's input, so independent invocations may run fully in parallel.
type Runnable struct {
	engine *runtime.Engine
}

// Invoke drives the graph from Start to End and returns the final state.
// Within one invocation steps execute strictly sequentially; ordering is
// deterministic given deterministic decision functions and worker outputs.
func (r *Runnable) Invoke(ctx context.Context, initial domain.State) (domain.State, error) {
	return r.engine.Invoke(ctx, initial)
}

// Stream is the streaming variant of Invoke: it yields one
// (node name, state delta) pair per executed step. The sequence is lazy,
// finite and non-restartable; a terminal failure is yielded last with a
// zero delta.
func (r *Runnable) Stream(ctx context.Context, initial domain.State) iter.Seq2[domain.Delta, error] {
	return r.engine.Stream(ctx, initial)
}

// Topology returns the compiled structural snapshot (resolved adjacency).
func (r *Runnable) Topology() domain.Topology {
	return r.engine.Program().Topology()
}
