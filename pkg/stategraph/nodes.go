package stategraph

import (
	"fmt"

	"github.com/randalmurphal/stategraph/pkg/stategraph/registry"
)

// NodeFunc is the signature for all step functions.
// A node receives the execution context and a read-only view of the
// current state, and returns a partial update (possibly nil) and any
// error. It must not mutate the state it was given.
type NodeFunc func(ctx Context, state State) (Update, error)

// ConditionFunc is the signature for routing predicates.
// It receives the current state and returns exactly one label, which is
// looked up in the conditional edge's paths. Predicates must be pure
// functions of state; logging is permitted, side effects are not.
type ConditionFunc func(ctx Context, state State) string

// NodeFactory builds a NodeFunc that closes over late-bound collaborators.
type NodeFactory func(b *Bindings) NodeFunc

// ConditionFactory builds a ConditionFunc that closes over late-bound
// collaborators.
type ConditionFactory func(b *Bindings) ConditionFunc

// Bindings is an opaque bag of late-bound collaborators (a configured
// client, credentials, tunables) forwarded to factory-style registrations
// at compile time. The compiler does not interpret the contents.
//
// The bindings ID distinguishes binding sets for compiled-graph caching:
// two bindings with the same ID are treated as interchangeable.
type Bindings struct {
	id     string
	values map[string]any
}

// NewBindings creates a binding set with the given identity.
// The ID should change whenever the bound collaborators meaningfully
// change (e.g. a different model name or endpoint).
func NewBindings(id string) *Bindings {
	return &Bindings{id: id, values: make(map[string]any)}
}

// Set stores a named value. Returns the bindings for method chaining.
func (b *Bindings) Set(key string, value any) *Bindings {
	b.values[key] = value
	return b
}

// Value returns the named value, or nil if absent.
// Factories type-assert the result themselves.
func (b *Bindings) Value(key string) any {
	if b == nil {
		return nil
	}
	return b.values[key]
}

// ID returns the binding identity. Nil bindings have the empty identity.
func (b *Bindings) ID() string {
	if b == nil {
		return ""
	}
	return b.id
}

// nodeEntry holds either a direct function or a factory, never both.
type nodeEntry struct {
	fn      NodeFunc
	factory NodeFactory
}

// conditionEntry holds either a direct predicate or a factory, never both.
type conditionEntry struct {
	fn      ConditionFunc
	factory ConditionFactory
}

// NodeRegistry maps logical step names to step functions.
// It is populated once at process configuration time and read-only during
// execution. Safe for concurrent use.
type NodeRegistry struct {
	entries *registry.Registry[string, nodeEntry]
}

// NewNodeRegistry creates an empty node registry.
func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{entries: registry.New[string, nodeEntry]()}
}

// Register adds a step function under a name.
// Returns the registry for method chaining.
// Panics if name is empty or fn is nil; re-registering a name replaces
// the previous entry.
func (r *NodeRegistry) Register(name string, fn NodeFunc) *NodeRegistry {
	if name == "" {
		panic("stategraph: node function name cannot be empty")
	}
	if fn == nil {
		panic("stategraph: node function cannot be nil")
	}
	r.entries.Register(name, nodeEntry{fn: fn})
	return r
}

// RegisterFactory adds a factory-style registration: the factory is
// invoked at compile time with the caller's bindings and its result is
// bound into the compiled graph.
func (r *NodeRegistry) RegisterFactory(name string, factory NodeFactory) *NodeRegistry {
	if name == "" {
		panic("stategraph: node function name cannot be empty")
	}
	if factory == nil {
		panic("stategraph: node factory cannot be nil")
	}
	r.entries.Register(name, nodeEntry{factory: factory})
	return r
}

// Resolve returns the step function for a name, invoking the factory with
// the given bindings for factory-style registrations.
func (r *NodeRegistry) Resolve(name string, b *Bindings) (NodeFunc, error) {
	entry, ok := r.entries.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: node function %q", ErrUnknownReference, name)
	}
	if entry.factory != nil {
		return entry.factory(b), nil
	}
	return entry.fn, nil
}

// Has returns true if a function is registered under the name.
func (r *NodeRegistry) Has(name string) bool {
	return r.entries.Has(name)
}

// Names returns all registered function names in unspecified order.
func (r *NodeRegistry) Names() []string {
	return r.entries.Keys()
}

// ConditionRegistry maps logical predicate names to routing predicates.
// Same lifecycle and concurrency contract as NodeRegistry.
type ConditionRegistry struct {
	entries *registry.Registry[string, conditionEntry]
}

// NewConditionRegistry creates an empty condition registry.
func NewConditionRegistry() *ConditionRegistry {
	return &ConditionRegistry{entries: registry.New[string, conditionEntry]()}
}

// Register adds a predicate under a name.
// Returns the registry for method chaining.
func (r *ConditionRegistry) Register(name string, fn ConditionFunc) *ConditionRegistry {
	if name == "" {
		panic("stategraph: condition name cannot be empty")
	}
	if fn == nil {
		panic("stategraph: condition function cannot be nil")
	}
	r.entries.Register(name, conditionEntry{fn: fn})
	return r
}

// RegisterFactory adds a factory-style predicate registration.
func (r *ConditionRegistry) RegisterFactory(name string, factory ConditionFactory) *ConditionRegistry {
	if name == "" {
		panic("stategraph: condition name cannot be empty")
	}
	if factory == nil {
		panic("stategraph: condition factory cannot be nil")
	}
	r.entries.Register(name, conditionEntry{factory: factory})
	return r
}

// Resolve returns the predicate for a name, invoking the factory with the
// given bindings for factory-style registrations.
func (r *ConditionRegistry) Resolve(name string, b *Bindings) (ConditionFunc, error) {
	entry, ok := r.entries.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: condition %q", ErrUnknownReference, name)
	}
	if entry.factory != nil {
		return entry.factory(b), nil
	}
	return entry.fn, nil
}

// Has returns true if a predicate is registered under the name.
func (r *ConditionRegistry) Has(name string) bool {
	return r.entries.Has(name)
}

// Names returns all registered predicate names in unspecified order.
func (r *ConditionRegistry) Names() []string {
	return r.entries.Keys()
}
