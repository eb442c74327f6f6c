package lattice

import (
	"sort"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
)

// Graph is a mutable declaration of a state graph: named nodes over a shared
// state schema, connected by plain and conditional edges. Declaration and
// behavioral binding are deliberately separate: topology can be fully
// described before worker callables are finalized, and Compile verifies
// completeness afterwards.
//
// A Graph is not safe for concurrent mutation. Compile freezes it into a
// Runnable; the Graph itself may keep being modified and recompiled.
type Graph struct {
	schema       domain.Schema
	nodes        map[string]domain.Node
	edges        []domain.Edge
	conditionals []domain.ConditionalEdge
}

// New creates an empty graph over the given state schema. A nil schema means
// every field merges by overwrite.
func New(schema domain.Schema) *Graph {
	return &Graph{
		schema: schema,
		nodes:  make(map[string]domain.Node),
	}
}

// AddNode registers or replaces a node. The action may be nil at declaration
// time; compilation fails while any referenced node is unbound.
func (g *Graph) AddNode(name string, action domain.Action) *Graph {
	g.nodes[name] = domain.Node{Name: name, Action: action}
	return g
}

// AddEdge registers an unconditional transition. Use domain.Start and
// domain.End (or the "end" alias) for the sentinels.
func (g *Graph) AddEdge(source, target string) *Graph {
	g.edges = append(g.edges, domain.Edge{Source: source, Target: target})
	return g
}

// AddConditionalEdge registers a routing edge: decide maps the current state
// to a label, and mapping translates labels to target node names.
func (g *Graph) AddConditionalEdge(source string, decide domain.Router, mapping map[string]string) *Graph {
	g.conditionals = append(g.conditionals, domain.ConditionalEdge{
		Source:  source,
		Decide:  decide,
		Mapping: mapping,
	})
	return g
}

// Compile validates the declaration and returns an immutable executable.
// On failure it returns a *domain.IncompleteGraphError identifying the
// offending node. Compiling the same declaration twice yields executables
// with identical transition behavior.
func (g *Graph) Compile(opts ...Option) (*Runnable, error) {
	program, err := compiler.Compile(g.schema, g.nodes, g.edges, g.conditionals)
	if err != nil {
		return nil, err
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	engineOpts := []runtime.EngineOption{
		runtime.WithStepLimit(cfg.stepLimit),
		runtime.WithLifecycleHooks(cfg.hooks),
	}
	if cfg.logger != nil {
		engineOpts = append(engineOpts, runtime.WithLogger(cfg.logger))
	}

	return &Runnable{
		engine: runtime.NewEngine(program, engineOpts...),
	}, nil
}

// Topology returns a structural snapshot of the declaration as-is, without
// compiling. Useful for visualizing incomplete graphs.
func (g *Graph) Topology() domain.Topology {
	t := domain.Topology{}
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	t.Nodes = names
	t.Edges = append(t.Edges, g.edges...)
	for _, c := range g.conditionals {
		mapping := make(map[string]string, len(c.Mapping))
		for label, target := range c.Mapping {
			mapping[label] = target
		}
		t.Routes = append(t.Routes, domain.RouteView{Source: c.Source, Mapping: mapping})
	}
	return t
}
