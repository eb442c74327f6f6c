package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventRunStart  EventType = "run_start"
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
	EventRunEnd    EventType = "run_end"
)

// RunEvent describes one point in an invocation's lifecycle.
type RunEvent struct {
	Type      EventType
	Timestamp time.Time

	// RunID correlates all events of one invocation.
	RunID string

	// Node is set for node-scoped events.
	Node string

	// Step is the 1-based index of the executed step (node-leave and later).
	Step int

	// Delta is the partial update the node returned (node-leave only).
	Delta State

	// Duration is the wall-clock time of the step (node-leave) or of the
	// whole invocation (run-end).
	Duration time.Duration

	// Err is set on run-end when the invocation failed.
	Err error
}

// LifecycleHooks defines callbacks for engine observability. Nil hooks are
// skipped. Hooks run synchronously inside the step loop and must be fast.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnNodeEnter func(context.Context, *RunEvent)
	OnNodeLeave func(context.Context, *RunEvent)
	OnRunEnd    func(context.Context, *RunEvent)
}
