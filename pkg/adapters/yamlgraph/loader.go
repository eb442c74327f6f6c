// Package yamlgraph loads a graph topology from a YAML document, binding
// action and router names against a registry. The topology can therefore be
// fully described in a file before worker logic exists, and validated
// independently of it.
package yamlgraph

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
)

// Spec is the YAML document shape:
//
//	schema:
//	  steps: sum
//	  trace: append
//	nodes:
//	  - name: router
//	    action: calc.route
//	edges:
//	  - from: start
//	    to: router
//	routes:
//	  - from: router
//	    decide: calc.route_label
//	    mapping:
//	      plus: plus
//	      end: end
//
// The names "start" and "end" alias the Start/End sentinels.
type Spec struct {
	Schema map[string]string `mapstructure:"schema"`
	Nodes  []NodeSpec        `mapstructure:"nodes"`
	Edges  []EdgeSpec        `mapstructure:"edges"`
	Routes []RouteSpec       `mapstructure:"routes"`
}

// NodeSpec declares one node and the registered action bound to it.
type NodeSpec struct {
	Name   string `mapstructure:"name"`
	Action string `mapstructure:"action"`
}

// EdgeSpec declares an unconditional transition.
type EdgeSpec struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// RouteSpec declares a conditional edge routed by a registered router.
type RouteSpec struct {
	From    string            `mapstructure:"from"`
	Decide  string            `mapstructure:"decide"`
	Mapping map[string]string `mapstructure:"mapping"`
}

// Load parses a YAML topology and builds a graph with actions resolved
// against reg.
func Load(data []byte, reg *registry.Registry) (*lattice.Graph, error) {
	if reg == nil {
		return nil, fmt.Errorf("nil registry")
	}
	return build(data, reg, false)
}

// LoadFile is Load over a file path.
func LoadFile(path string, reg *registry.Registry) (*lattice.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology: %w", err)
	}
	return Load(data, reg)
}

// Validate checks a YAML topology structurally: it decodes the document,
// binds stub handlers for every named action and router, and compiles the
// result. Unknown nodes, ambiguous edges and unreachable steps are reported
// without requiring the real workers.
func Validate(data []byte) error {
	g, err := build(data, nil, true)
	if err != nil {
		return err
	}
	_, err = g.Compile()
	return err
}

// Topology parses a YAML document and returns its structural snapshot,
// binding stub handlers so no real workers are required.
func Topology(data []byte) (domain.Topology, error) {
	g, err := build(data, nil, true)
	if err != nil {
		return domain.Topology{}, err
	}
	return g.Topology(), nil
}

// Parse decodes the raw document without building a graph.
func Parse(data []byte) (*Spec, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse topology yaml: %w", err)
	}

	var spec Spec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &spec,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}
	return &spec, nil
}

func build(data []byte, reg *registry.Registry, stub bool) (*lattice.Graph, error) {
	spec, err := Parse(data)
	if err != nil {
		return nil, err
	}

	schema := make(domain.Schema, len(spec.Schema))
	for field, policy := range spec.Schema {
		schema[field] = domain.MergePolicy(policy)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	g := lattice.New(schema)

	for _, n := range spec.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("node missing name")
		}
		action, err := resolveAction(reg, n, stub)
		if err != nil {
			return nil, err
		}
		g.AddNode(n.Name, action)
	}

	for _, e := range spec.Edges {
		g.AddEdge(endpoint(e.From), endpoint(e.To))
	}

	for _, r := range spec.Routes {
		router, err := resolveRouter(reg, r, stub)
		if err != nil {
			return nil, err
		}
		mapping := make(map[string]string, len(r.Mapping))
		for label, target := range r.Mapping {
			mapping[label] = endpoint(target)
		}
		g.AddConditionalEdge(endpoint(r.From), router, mapping)
	}

	return g, nil
}

func resolveAction(reg *registry.Registry, n NodeSpec, stub bool) (domain.Action, error) {
	if stub {
		return stubAction, nil
	}
	if n.Action == "" {
		return nil, fmt.Errorf("node %q: no action name", n.Name)
	}
	d, ok := reg.Resolve(n.Action)
	if !ok {
		return nil, fmt.Errorf("node %q: action %q not registered", n.Name, n.Action)
	}
	return d.Handler, nil
}

func resolveRouter(reg *registry.Registry, r RouteSpec, stub bool) (domain.Router, error) {
	if stub {
		return stubRouter, nil
	}
	if r.Decide == "" {
		return nil, fmt.Errorf("route from %q: no router name", r.From)
	}
	d, ok := reg.ResolveRouter(r.Decide)
	if !ok {
		return nil, fmt.Errorf("route from %q: router %q not registered", r.From, r.Decide)
	}
	return d.Handler, nil
}

// endpoint folds the human-friendly sentinel aliases.
func endpoint(name string) string {
	switch name {
	case "start", domain.Start:
		return domain.Start
	case domain.LabelEnd, domain.End:
		return domain.End
	default:
		return name
	}
}

func stubAction(_ context.Context, _ domain.State) (domain.State, error) {
	return nil, nil
}

func stubRouter(_ context.Context, _ domain.State) (string, error) {
	return domain.LabelEnd, nil
}
