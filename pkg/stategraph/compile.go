package stategraph

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Compiler validates graph definitions against live registries and
// produces executable compiled graphs.
//
// Compilation is pure: it resolves references and binds factories but
// never invokes a node or predicate.
type Compiler struct {
	nodes      *NodeRegistry
	conditions *ConditionRegistry
	schema     *Schema
}

// NewCompiler creates a compiler over the given registries.
// A nil schema treats every state field as Overwrite.
func NewCompiler(nodes *NodeRegistry, conditions *ConditionRegistry) *Compiler {
	if nodes == nil {
		nodes = NewNodeRegistry()
	}
	if conditions == nil {
		conditions = NewConditionRegistry()
	}
	return &Compiler{nodes: nodes, conditions: conditions}
}

// WithSchema sets the state schema baked into compiled graphs.
// Returns the compiler for method chaining.
func (c *Compiler) WithSchema(schema *Schema) *Compiler {
	c.schema = schema
	return c
}

// Compile validates the definition and returns an immutable CompiledGraph
// with every function and condition reference resolved and bound.
//
// Validation accumulates every violation before failing, so a single call
// surfaces the complete problem list (joined with errors.Join):
//  1. Entry point set and declared
//  2. Node IDs non-empty, non-reserved, unique
//  3. Every function_ref and condition_ref resolves against the registries
//  4. Every edge source and target (other than END) is a declared node
//  5. At most one outgoing unconditional edge OR one conditional edge per node
func (c *Compiler) Compile(def *GraphDefinition, b *Bindings) (*CompiledGraph, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}

	var errs []error

	// Node declarations and function resolution.
	steps := make(map[string]NodeFunc, len(def.Nodes))
	declared := make(map[string]bool, len(def.Nodes))
	for _, n := range def.Nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("%w: empty node ID", ErrInvalidNodeID))
			continue
		}
		if lower := strings.ToLower(n.ID); lower == "end" || lower == END {
			errs = append(errs, fmt.Errorf("%w: %q is reserved", ErrInvalidNodeID, n.ID))
			continue
		}
		if declared[n.ID] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID))
			continue
		}
		declared[n.ID] = true

		fn, err := c.nodes.Resolve(n.Function, b)
		if err != nil {
			errs = append(errs, fmt.Errorf("node %q: %w", n.ID, err))
			continue
		}
		steps[n.ID] = fn
	}

	// Entry point.
	if def.EntryPoint == "" {
		errs = append(errs, ErrNoEntryPoint)
	} else if !declared[def.EntryPoint] {
		errs = append(errs, fmt.Errorf("%w: %s", ErrEntryNotFound, def.EntryPoint))
	}

	// Unconditional edges.
	next := make(map[string]string, len(def.Edges))
	for _, e := range def.Edges {
		if !declared[e.Source] {
			errs = append(errs, fmt.Errorf("%w: edge source %q", ErrNodeNotFound, e.Source))
		}
		if e.Target != END && !declared[e.Target] {
			errs = append(errs, fmt.Errorf("%w: edge target %q", ErrNodeNotFound, e.Target))
		}
		if _, dup := next[e.Source]; dup {
			errs = append(errs, fmt.Errorf("%w: node %q has multiple unconditional edges", ErrAmbiguousRouting, e.Source))
			continue
		}
		next[e.Source] = e.Target
	}

	// Conditional edges.
	routes := make(map[string]conditionalRoute, len(def.ConditionalEdges))
	for _, ce := range def.ConditionalEdges {
		if !declared[ce.Source] {
			errs = append(errs, fmt.Errorf("%w: conditional edge source %q", ErrNodeNotFound, ce.Source))
		}
		if _, dup := routes[ce.Source]; dup {
			errs = append(errs, fmt.Errorf("%w: node %q has multiple conditional edges", ErrAmbiguousRouting, ce.Source))
			continue
		}
		if _, both := next[ce.Source]; both {
			errs = append(errs, fmt.Errorf("%w: node %q has both an edge and a conditional edge", ErrAmbiguousRouting, ce.Source))
		}
		if len(ce.Paths) == 0 {
			errs = append(errs, fmt.Errorf("conditional edge from %q has no paths", ce.Source))
		}

		paths := make(map[string]string, len(ce.Paths))
		for label, target := range ce.Paths {
			if target != END && !declared[target] {
				errs = append(errs, fmt.Errorf("%w: path %q -> %q from node %q", ErrNodeNotFound, label, target, ce.Source))
			}
			paths[label] = target
		}

		predicate, err := c.conditions.Resolve(ce.Condition, b)
		if err != nil {
			errs = append(errs, fmt.Errorf("conditional edge from %q: %w", ce.Source, err))
			continue
		}
		routes[ce.Source] = conditionalRoute{
			condition: ce.Condition,
			predicate: predicate,
			paths:     paths,
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	warnUnreachableNodes(def, declared)

	return &CompiledGraph{
		schema:      c.schema,
		entryPoint:  def.EntryPoint,
		steps:       steps,
		next:        next,
		routes:      routes,
		fingerprint: def.Fingerprint(),
		bindingID:   b.ID(),
	}, nil
}

// warnUnreachableNodes logs nodes not reachable from the entry point.
// Unlike dangling references this is not an error: an administratively
// edited definition may park nodes it intends to re-wire later.
func warnUnreachableNodes(def *GraphDefinition, declared map[string]bool) {
	reachable := map[string]bool{def.EntryPoint: true}
	queue := []string{def.EntryPoint}

	targets := make(map[string][]string)
	for _, e := range def.Edges {
		targets[e.Source] = append(targets[e.Source], e.Target)
	}
	for _, ce := range def.ConditionalEdges {
		for _, t := range ce.Paths {
			targets[ce.Source] = append(targets[ce.Source], t)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, t := range targets[current] {
			if t != END && !reachable[t] {
				reachable[t] = true
				queue = append(queue, t)
			}
		}
	}

	for id := range declared {
		if !reachable[id] {
			slog.Warn("node is unreachable from entry", "node_id", id)
		}
	}
}
