package domain

// Edge is an unconditional transition between two named nodes.
type Edge struct {
	Source string
	Target string
}

// ConditionalEdge routes from Source through a decision function: the label
// returned by Decide is looked up in Mapping to select the target node.
// A target of End (or the "end" alias) terminates execution.
type ConditionalEdge struct {
	Source  string
	Decide  Router
	Mapping map[string]string
}

// RouteView is the introspectable shape of a conditional edge.
type RouteView struct {
	Source  string
	Mapping map[string]string
}

// Topology is a read-only structural snapshot of a graph, used for
// validation reporting and visualization.
type Topology struct {
	Nodes  []string
	Edges  []Edge
	Routes []RouteView
}

// Delta is one streamed step result: the node that ran and the partial
// update it returned (before merging).
type Delta struct {
	Node   string
	Update State
}
