package calc

import (
	"context"
	"fmt"

	lattice "github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
)

// State field keys used by the arithmetic graph.
const (
	KeyExpr   = "expr"
	KeyLeft   = "left"
	KeyRight  = "right"
	KeyOp     = "op"
	KeySpan   = "span"
	KeyRoute  = "route"
	KeySteps  = "steps"
	KeyResult = "result"
	KeyTrace  = "trace"
)

// Node names.
const (
	NodeRouter          = "router"
	NodePlus            = "plus"
	NodeSubtract        = "subtract"
	NodePlusBracket     = "plus_bracket"
	NodeSubtractBracket = "subtract_bracket"
)

// Route labels emitted by the router. The "end" label terminates the run.
const (
	RoutePlus            = "plus"
	RouteSubtract        = "subtract"
	RoutePlusBracket     = "plus_bracket"
	RouteSubtractBracket = "subtract_bracket"
	RouteEnd             = domain.LabelEnd
)

// Schema returns the merge policies for the arithmetic state: step counts
// accumulate, the trace grows, everything else is overwritten.
func Schema() domain.Schema {
	return domain.Schema{
		KeySteps: domain.Sum,
		KeyTrace: domain.Append,
	}
}

// DefaultMapping returns the full label-to-node routing table.
func DefaultMapping() map[string]string {
	return map[string]string{
		RoutePlus:            NodePlus,
		RouteSubtract:        NodeSubtract,
		RoutePlusBracket:     NodePlusBracket,
		RouteSubtractBracket: NodeSubtractBracket,
		RouteEnd:             domain.End,
	}
}

// GraphOption customizes the assembled graph.
type GraphOption func(*graphConfig)

type graphConfig struct {
	mapping map[string]string
}

// WithRouteMapping replaces the router's label mapping, e.g. to study how
// the engine behaves when a label has no destination.
func WithRouteMapping(mapping map[string]string) GraphOption {
	return func(cfg *graphConfig) {
		cfg.mapping = mapping
	}
}

// NewGraph assembles the arithmetic reduction graph. The router dissects the
// expression and labels the next operation; each operation node delegates to
// its worker and writes the reduced expression back. Bracketed operations get
// their own nodes so the topology shows where precedence is honored.
func NewGraph(plus, subtract Worker, opts ...GraphOption) *lattice.Graph {
	cfg := &graphConfig{mapping: DefaultMapping()}
	for _, opt := range opts {
		opt(cfg)
	}

	g := lattice.New(Schema())

	g.AddNode(NodeRouter, RouteExpression)
	g.AddNode(NodePlus, ComputeStep(plus))
	g.AddNode(NodeSubtract, ComputeStep(subtract))
	g.AddNode(NodePlusBracket, ComputeStep(plus))
	g.AddNode(NodeSubtractBracket, ComputeStep(subtract))

	g.AddEdge(domain.Start, NodeRouter)
	g.AddEdge(NodePlus, NodeRouter)
	g.AddEdge(NodeSubtract, NodeRouter)
	g.AddEdge(NodePlusBracket, NodeRouter)
	g.AddEdge(NodeSubtractBracket, NodeRouter)

	g.AddConditionalEdge(NodeRouter, RouteLabel, cfg.mapping)

	return g
}

// RouteExpression examines the expression, picks the next operation and
// stages its operands. When nothing remains to reduce it records the result
// and labels the run for termination.
func RouteExpression(_ context.Context, state domain.State) (domain.State, error) {
	expr, _ := state[KeyExpr].(string)
	expr = Normalize(expr)

	op, ok := NextOp(expr)
	if !ok {
		return domain.State{
			KeyExpr:   expr,
			KeyResult: expr,
			KeyRoute:  RouteEnd,
			KeySteps:  1,
		}, nil
	}

	return domain.State{
		KeyExpr:  expr,
		KeyLeft:  op.Left,
		KeyRight: op.Right,
		KeyOp:    op.Operator,
		KeySpan:  []int{op.Span[0], op.Span[1]},
		KeyRoute: routeFor(op),
		KeySteps: 1,
	}, nil
}

// RouteLabel reads the label staged by the router. A missing label means the
// router already concluded the run.
func RouteLabel(_ context.Context, state domain.State) (string, error) {
	if route, ok := state[KeyRoute].(string); ok && route != "" {
		return route, nil
	}
	return RouteEnd, nil
}

func routeFor(op Op) string {
	switch {
	case op.Bracket && op.Operator == "+":
		return RoutePlusBracket
	case op.Bracket:
		return RouteSubtractBracket
	case op.Operator == "+":
		return RoutePlus
	default:
		return RouteSubtract
	}
}

// ComputeStep builds an action that delegates one operation to the worker
// and substitutes the result back into the expression. Worker failures and
// unparseable replies fall back to local evaluation so a flaky collaborator
// degrades the run instead of aborting it; only an invalid operation itself
// fails the node.
func ComputeStep(worker Worker) domain.Action {
	return func(ctx context.Context, state domain.State) (domain.State, error) {
		expr, _ := state[KeyExpr].(string)
		left, _ := state[KeyLeft].(string)
		right, _ := state[KeyRight].(string)
		operator, _ := state[KeyOp].(string)

		span, ok := spanFrom(state)
		if !ok {
			op, found := NextOp(expr)
			if !found {
				return nil, fmt.Errorf("no operation left in %q", expr)
			}
			span, left, operator, right = op.Span, op.Left, op.Operator, op.Right
		}

		result := ""
		if out, err := worker.Compute(ctx, left, operator, right); err == nil {
			if n, found := ExtractNumber(out); found {
				result = n
			}
		}
		if result == "" {
			local, err := evaluate(left, operator, right)
			if err != nil {
				return nil, err
			}
			result = local
		}

		return domain.State{
			KeyExpr:  Reduce(expr, span, result),
			KeyTrace: []string{fmt.Sprintf("%s %s %s = %s", left, operator, right, result)},
		}, nil
	}
}

func spanFrom(state domain.State) ([2]int, bool) {
	raw, ok := state[KeySpan].([]int)
	if !ok || len(raw) != 2 {
		return [2]int{}, false
	}
	return [2]int{raw[0], raw[1]}, true
}

// RegisterActions publishes the arithmetic handlers on a registry so YAML
// topologies can reference them by name.
func RegisterActions(reg *registry.Registry, plus, subtract Worker) error {
	descriptors := []registry.Descriptor{
		{
			Name:        "calc.route",
			Description: "Dissect the expression and stage the next operation",
			Params:      map[string]string{KeyExpr: "arithmetic expression to reduce"},
			Handler:     RouteExpression,
		},
		{
			Name:        "calc.plus",
			Description: "Add the staged operands",
			Params:      map[string]string{KeyLeft: "left operand", KeyRight: "right operand"},
			Handler:     ComputeStep(plus),
		},
		{
			Name:        "calc.subtract",
			Description: "Subtract the staged operands",
			Params:      map[string]string{KeyLeft: "left operand", KeyRight: "right operand"},
			Handler:     ComputeStep(subtract),
		},
	}
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return reg.RegisterRouter(registry.RouterDescriptor{
		Name:        "calc.route_label",
		Description: "Follow the label staged by the router",
		Handler:     RouteLabel,
	})
}
