package domain

import "context"

// Reserved node names marking entry and termination. Neither is bound to an
// action: Start only sources the first transition, End terminates execution.
const (
	Start = "__start__"
	End   = "__end__"
)

// LabelEnd is the routing label conventionally used by decision functions to
// request termination. Conditional mappings may target it directly.
const LabelEnd = "end"

// Action is the worker contract: a pure function of the current state
// returning a partial update. It must not mutate its input in place.
// A returned error aborts the invocation.
type Action func(ctx context.Context, state State) (State, error)

// Router is the decision-function contract: it maps the current state to a
// routing label. It must be side-effect-free and total over all states
// reachable at its node; an unmapped label or an error fails the invocation.
type Router func(ctx context.Context, state State) (string, error)

// Node is a named step in the graph, bound to an action.
// Actions may be bound after declaration, but compilation fails for any
// referenced node still missing one.
type Node struct {
	Name   string
	Action Action
}

// Reserved reports whether name is one of the sentinel node names.
func Reserved(name string) bool {
	return name == Start || name == End || name == LabelEnd
}
