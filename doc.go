/*
Package lattice is a minimal finite-state orchestration core: build a
directed graph of named steps over a shared mutable state, with conditional
branching driven by router functions, and compile it into an immutable
executable state machine.

Structural declaration (topology) is separated from behavioral binding
(callables), so a graph can be fully described before its workers are
finalized, which is useful when workers are constructed from runtime
configuration.
Compile validates completeness (bound actions, resolvable edges,
reachability) and freezes the graph; the compiled Runnable is then reused
across many invocations with independent state instances.

# Usage

	g := lattice.New(domain.Schema{"count": domain.Sum})

	g.AddNode("hello", func(ctx context.Context, s domain.State) (domain.State, error) {
		return domain.State{"msg": "Hello", "count": 1}, nil
	})
	g.AddNode("world", func(ctx context.Context, s domain.State) (domain.State, error) {
		return domain.State{"msg": s["msg"].(string) + " World!", "count": 1}, nil
	})

	g.AddEdge(domain.Start, "hello")
	g.AddEdge("hello", "world")
	g.AddEdge("world", domain.End)

	runnable, err := g.Compile()
	if err != nil {
		log.Fatal(err)
	}

	final, err := runnable.Invoke(context.Background(), nil)
	// final: {"msg": "Hello World!", "count": 2}

Conditional branching routes through a decision function over the state:

	g.AddConditionalEdge("router", routeFn, map[string]string{
		"retry": "worker",
		"done":  domain.End,
	})

Stream is the observing variant of Invoke, yielding one (node, delta) pair
per executed step.

Within one invocation steps run strictly sequentially; independent
invocations of the same Runnable share no mutable state and may run in
parallel.
*/
package lattice
