// Package compiler turns a mutable graph declaration into an immutable
// executable program, validating structural completeness on the way.
package compiler

import (
	"sort"

	"github.com/aretw0/lattice/pkg/domain"
)

// Route is a resolved conditional edge.
type Route struct {
	Decide  domain.Router
	Mapping map[string]string
}

// Program is the compiled, immutable form of a graph: adjacency fully
// resolved, reusable across many invocations. No further mutation is
// permitted after Compile returns.
type Program struct {
	Schema domain.Schema
	Nodes  map[string]domain.Node
	Next   map[string]string
	Routes map[string]Route
}

// Compile validates the declaration and freezes it into a Program.
//
// Validation rules:
//   - every registered node has a bound action (sentinels excepted)
//   - every edge endpoint and mapping target references a known node
//   - at most one outgoing edge (plain or conditional) per source
//   - Start has an outgoing edge and every node is reachable from it
//
// All failures are reported as *domain.IncompleteGraphError naming the
// offending node.
func Compile(schema domain.Schema, nodes map[string]domain.Node, edges []domain.Edge, conditionals []domain.ConditionalEdge) (*Program, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	p := &Program{
		Schema: cloneSchema(schema),
		Nodes:  make(map[string]domain.Node, len(nodes)),
		Next:   make(map[string]string, len(edges)),
		Routes: make(map[string]Route, len(conditionals)),
	}

	for name, node := range nodes {
		if domain.Reserved(name) {
			return nil, &domain.IncompleteGraphError{Node: name, Reason: "name is reserved"}
		}
		if node.Action == nil {
			return nil, &domain.IncompleteGraphError{Node: name, Reason: "no action bound"}
		}
		p.Nodes[name] = node
	}

	known := func(name string) bool {
		_, ok := p.Nodes[name]
		return ok
	}

	for _, e := range edges {
		if e.Source == domain.End {
			return nil, &domain.IncompleteGraphError{Node: e.Source, Reason: "End cannot have outgoing edges"}
		}
		if e.Source != domain.Start && !known(e.Source) {
			return nil, &domain.IncompleteGraphError{Node: e.Source, Reason: "edge source is not a registered node"}
		}
		target := normalizeTarget(e.Target)
		if target != domain.End && !known(target) {
			return nil, &domain.IncompleteGraphError{Node: e.Target, Reason: "edge target is not a registered node"}
		}
		if _, dup := p.Next[e.Source]; dup {
			return nil, &domain.IncompleteGraphError{Node: e.Source, Reason: "multiple plain edges from the same source"}
		}
		p.Next[e.Source] = target
	}

	for _, c := range conditionals {
		if c.Source == domain.End {
			return nil, &domain.IncompleteGraphError{Node: c.Source, Reason: "End cannot have outgoing edges"}
		}
		if c.Source != domain.Start && !known(c.Source) {
			return nil, &domain.IncompleteGraphError{Node: c.Source, Reason: "conditional edge source is not a registered node"}
		}
		if c.Decide == nil {
			return nil, &domain.IncompleteGraphError{Node: c.Source, Reason: "conditional edge has no decision function"}
		}
		if len(c.Mapping) == 0 {
			return nil, &domain.IncompleteGraphError{Node: c.Source, Reason: "conditional edge has an empty mapping"}
		}
		if _, dup := p.Routes[c.Source]; dup {
			return nil, &domain.IncompleteGraphError{Node: c.Source, Reason: "multiple conditional edges from the same source"}
		}
		if _, plain := p.Next[c.Source]; plain {
			return nil, &domain.IncompleteGraphError{Node: c.Source, Reason: "both a plain and a conditional edge from the same source"}
		}
		mapping := make(map[string]string, len(c.Mapping))
		for label, target := range c.Mapping {
			target = normalizeTarget(target)
			if target != domain.End && !known(target) {
				return nil, &domain.IncompleteGraphError{Node: c.Mapping[label], Reason: "mapping target is not a registered node"}
			}
			mapping[label] = target
		}
		p.Routes[c.Source] = Route{Decide: c.Decide, Mapping: mapping}
	}

	if _, ok := p.Next[domain.Start]; !ok {
		if _, ok := p.Routes[domain.Start]; !ok {
			return nil, &domain.IncompleteGraphError{Node: domain.Start, Reason: "no edge out of Start"}
		}
	}

	if err := p.checkReachability(); err != nil {
		return nil, err
	}

	return p, nil
}

// checkReachability walks the resolved adjacency from Start and reports the
// first registered node left unvisited.
func (p *Program) checkReachability() error {
	visited := map[string]bool{}
	queue := []string{domain.Start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		if target, ok := p.Next[current]; ok && target != domain.End {
			queue = append(queue, target)
		}
		if route, ok := p.Routes[current]; ok {
			for _, target := range route.Mapping {
				if target != domain.End {
					queue = append(queue, target)
				}
			}
		}
	}

	// Deterministic reporting order.
	names := make([]string, 0, len(p.Nodes))
	for name := range p.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !visited[name] {
			return &domain.IncompleteGraphError{Node: name, Reason: "unreachable from Start"}
		}
	}
	return nil
}

// Topology returns a structural snapshot for visualization and reporting.
func (p *Program) Topology() domain.Topology {
	t := domain.Topology{}
	names := make([]string, 0, len(p.Nodes))
	for name := range p.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	t.Nodes = names

	sources := make([]string, 0, len(p.Next))
	for source := range p.Next {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	for _, source := range sources {
		t.Edges = append(t.Edges, domain.Edge{Source: source, Target: p.Next[source]})
	}

	routed := make([]string, 0, len(p.Routes))
	for source := range p.Routes {
		routed = append(routed, source)
	}
	sort.Strings(routed)
	for _, source := range routed {
		mapping := make(map[string]string, len(p.Routes[source].Mapping))
		for label, target := range p.Routes[source].Mapping {
			mapping[label] = target
		}
		t.Routes = append(t.Routes, domain.RouteView{Source: source, Mapping: mapping})
	}
	return t
}

// normalizeTarget folds the "end" alias into the End sentinel.
func normalizeTarget(target string) string {
	if target == domain.LabelEnd {
		return domain.End
	}
	return target
}

func cloneSchema(schema domain.Schema) domain.Schema {
	clone := make(domain.Schema, len(schema))
	for field, policy := range schema {
		clone[field] = policy
	}
	return clone
}
