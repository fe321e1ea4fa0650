package stategraph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
)

// END is the terminal target identifier.
// Use it as an edge target or conditional path target to end the run.
const END = "__end__"

// Node names a unit of work in a graph definition.
// The Function reference is resolved against a NodeRegistry at compile
// time, not at definition time, so the same definition can bind to
// different behavior in different processes.
type Node struct {
	ID       string `json:"id" yaml:"id"`
	Function string `json:"function" yaml:"function"`
}

// Edge is an unconditional transition: after Source executes, control
// always passes to Target (a node ID or END).
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// ConditionalEdge routes by predicate: after Source executes, the named
// Condition is evaluated against the current state and its returned label
// is looked up in Paths to find the next node (or END).
type ConditionalEdge struct {
	Source    string            `json:"source" yaml:"source"`
	Condition string            `json:"condition" yaml:"condition"`
	Paths     map[string]string `json:"paths" yaml:"paths"`
}

// GraphDefinition is the declarative, serializable description of a
// workflow graph. It may come from code, a config file, or an
// administrative API; the compiler accepts any value satisfying the
// structural invariants regardless of origin.
//
// Definitions are plain data. Compile one with a Compiler (or through a
// Cache) to obtain an executable CompiledGraph.
type GraphDefinition struct {
	Nodes            []Node            `json:"nodes" yaml:"nodes"`
	Edges            []Edge            `json:"edges,omitempty" yaml:"edges,omitempty"`
	ConditionalEdges []ConditionalEdge `json:"conditional_edges,omitempty" yaml:"conditional_edges,omitempty"`
	EntryPoint       string            `json:"entry_point" yaml:"entry_point"`
}

// Clone returns a deep copy of the definition.
// Use it when handing a definition to code that may mutate it, since a
// mutated definition must be re-fingerprinted (and caches invalidated).
func (d *GraphDefinition) Clone() *GraphDefinition {
	if d == nil {
		return nil
	}
	out := &GraphDefinition{
		Nodes:      append([]Node(nil), d.Nodes...),
		Edges:      append([]Edge(nil), d.Edges...),
		EntryPoint: d.EntryPoint,
	}
	for _, ce := range d.ConditionalEdges {
		paths := make(map[string]string, len(ce.Paths))
		for label, target := range ce.Paths {
			paths[label] = target
		}
		out.ConditionalEdges = append(out.ConditionalEdges, ConditionalEdge{
			Source:    ce.Source,
			Condition: ce.Condition,
			Paths:     paths,
		})
	}
	return out
}

// Fingerprint returns a stable structural hash of the definition, used as
// part of the compiled-graph cache key.
//
// Node and edge order is part of the fingerprint: reordering a definition
// is a meaningful configuration change. Path labels are encoded sorted
// only because Go map iteration order is unstable; the label strings
// themselves participate byte-for-byte.
func (d *GraphDefinition) Fingerprint() string {
	h := sha256.New()
	writeCanonical(h, d)
	return hex.EncodeToString(h.Sum(nil))
}

// writeCanonical writes a deterministic byte encoding of the definition.
// NUL separates fields within a record, LF separates records; neither
// occurs in well-formed identifiers or labels.
func writeCanonical(w io.Writer, d *GraphDefinition) {
	for _, n := range d.Nodes {
		fmt.Fprintf(w, "n\x00%s\x00%s\n", n.ID, n.Function)
	}
	for _, e := range d.Edges {
		fmt.Fprintf(w, "e\x00%s\x00%s\n", e.Source, e.Target)
	}
	for _, ce := range d.ConditionalEdges {
		fmt.Fprintf(w, "c\x00%s\x00%s", ce.Source, ce.Condition)
		labels := make([]string, 0, len(ce.Paths))
		for label := range ce.Paths {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(w, "\x00%s\x00%s", label, ce.Paths[label])
		}
		fmt.Fprint(w, "\n")
	}
	fmt.Fprintf(w, "entry\x00%s\n", d.EntryPoint)
}
