package domain

import "fmt"

// IncompleteGraphError is returned by compilation when the declared topology
// cannot be turned into an executable program. It always names the offending
// node.
type IncompleteGraphError struct {
	Node   string
	Reason string
}

func (e *IncompleteGraphError) Error() string {
	return fmt.Sprintf("graph incomplete at node %q: %s", e.Node, e.Reason)
}

// NoTransitionError is returned when execution cannot determine the next
// node: the current node has no outgoing edge, or its decision function
// produced a label absent from the mapping.
type NoTransitionError struct {
	Node  string
	Label string
	State State
	Cause error
}

func (e *NoTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("no transition from node %q: %v", e.Node, e.Cause)
	}
	if e.Label != "" {
		return fmt.Sprintf("no transition from node %q: label %q not in mapping", e.Node, e.Label)
	}
	return fmt.Sprintf("no transition from node %q", e.Node)
}

func (e *NoTransitionError) Unwrap() error { return e.Cause }

// StepLimitError is returned when an invocation exceeds its step budget,
// which usually indicates a conditional cycle that never reaches End.
// Path and State carry the executed trace for diagnosis.
type StepLimitError struct {
	Limit int
	Path  []string
	State State
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step limit exceeded after %d steps (last node %q)", e.Limit, last(e.Path))
}

// NodeFailureError wraps an error raised by a node's action. The engine
// never retries; graceful degradation is the worker's responsibility.
type NodeFailureError struct {
	Node  string
	State State
	Err   error
}

func (e *NodeFailureError) Error() string {
	return fmt.Sprintf("node %q failed: %v", e.Node, e.Err)
}

func (e *NodeFailureError) Unwrap() error { return e.Err }

func last(path []string) string {
	if len(path) == 0 {
		return Start
	}
	return path[len(path)-1]
}
