// Package registry provides an explicit, instance-scoped catalog of graph
// actions and routers. It replaces any process-wide registration: a Registry
// is passed to whoever binds names to callables (e.g. the YAML topology
// adapter), avoiding hidden cross-test state.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
)

// Descriptor associates a handler with its metadata at registration time,
// instead of decorating the callable itself.
type Descriptor struct {
	Name        string
	Description string
	// Params documents the state fields the handler reads, keyed by field
	// name. Informational; not enforced by the engine.
	Params  map[string]string
	Handler domain.Action
}

// RouterDescriptor is the Descriptor analogue for decision functions.
type RouterDescriptor struct {
	Name        string
	Description string
	Handler     domain.Router
}

// Registry manages named actions and routers. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Descriptor
	routers map[string]RouterDescriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		actions: make(map[string]Descriptor),
		routers: make(map[string]RouterDescriptor),
	}
}

// Register adds an action descriptor. An existing descriptor with the same
// name is replaced.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("descriptor missing name")
	}
	if d.Handler == nil {
		return fmt.Errorf("descriptor %q missing handler", d.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[d.Name] = d
	return nil
}

// RegisterRouter adds a router descriptor. An existing descriptor with the
// same name is replaced.
func (r *Registry) RegisterRouter(d RouterDescriptor) error {
	if d.Name == "" {
		return fmt.Errorf("router descriptor missing name")
	}
	if d.Handler == nil {
		return fmt.Errorf("router descriptor %q missing handler", d.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routers[d.Name] = d
	return nil
}

// Resolve looks up an action by name.
func (r *Registry) Resolve(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.actions[name]
	return d, ok
}

// ResolveRouter looks up a router by name.
func (r *Registry) ResolveRouter(name string) (RouterDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.routers[name]
	return d, ok
}

// List returns all action descriptors sorted by name.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.actions))
	for _, d := range r.actions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
