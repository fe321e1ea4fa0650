package stategraph

import "sort"

// conditionalRoute is a resolved conditional edge: a bound predicate and
// its label-to-target paths.
type conditionalRoute struct {
	condition string
	predicate ConditionFunc
	paths     map[string]string
}

// CompiledGraph is the validated, resolved, executable form of a graph
// definition. It is immutable and safe to share across concurrent runs;
// each Run() owns its own state.
//
// CompiledGraphs are produced by a Compiler and usually owned by a Cache.
type CompiledGraph struct {
	schema     *Schema
	entryPoint string
	steps      map[string]NodeFunc
	next       map[string]string
	routes     map[string]conditionalRoute

	fingerprint string
	bindingID   string
}

// EntryPoint returns the entry node ID.
func (cg *CompiledGraph) EntryPoint() string {
	return cg.entryPoint
}

// Fingerprint returns the structural hash of the definition this graph
// was compiled from.
func (cg *CompiledGraph) Fingerprint() string {
	return cg.fingerprint
}

// BindingID returns the identity of the bindings this graph was compiled
// with. Empty for nil bindings.
func (cg *CompiledGraph) BindingID() string {
	return cg.bindingID
}

// NodeIDs returns all node identifiers in the graph, sorted.
func (cg *CompiledGraph) NodeIDs() []string {
	ids := make([]string, 0, len(cg.steps))
	for id := range cg.steps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasNode checks if a node exists in the graph.
func (cg *CompiledGraph) HasNode(id string) bool {
	_, exists := cg.steps[id]
	return exists
}

// IsConditional returns true if the node routes through a predicate.
func (cg *CompiledGraph) IsConditional(id string) bool {
	_, exists := cg.routes[id]
	return exists
}

// Target returns the unconditional edge target for a node, if any.
func (cg *CompiledGraph) Target(id string) (string, bool) {
	target, exists := cg.next[id]
	return target, exists
}

// Labels returns the declared path labels for a conditional node, sorted.
// Returns nil for non-conditional nodes.
func (cg *CompiledGraph) Labels(id string) []string {
	route, exists := cg.routes[id]
	if !exists {
		return nil
	}
	labels := make([]string, 0, len(route.paths))
	for label := range route.paths {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// getStep returns the bound step function for a node.
// Used internally by the executor.
func (cg *CompiledGraph) getStep(id string) (NodeFunc, bool) {
	fn, exists := cg.steps[id]
	return fn, exists
}

// getRoute returns the conditional route for a node.
// Used internally by the executor.
func (cg *CompiledGraph) getRoute(id string) (conditionalRoute, bool) {
	route, exists := cg.routes[id]
	return route, exists
}
