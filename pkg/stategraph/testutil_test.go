package stategraph

import (
	"context"
	"errors"
)

// Shared fixtures used across tests.

// errBoom is the canonical failure injected by failing test nodes.
var errBoom = errors.New("boom")

// testCtx creates a simple test context.
func testCtx() Context {
	return NewContext(context.Background())
}

// testSchema declares the fields the test graphs use.
// "messages" accumulates; everything else overwrites.
func testSchema() *Schema {
	return NewSchema().
		Declare("messages", Append).
		Declare("count", Overwrite)
}

// increment bumps the "count" field by one.
func increment(ctx Context, s State) (Update, error) {
	count, _ := s["count"].(int)
	return Update{"count": count + 1}, nil
}

// noop returns an empty update.
func noop(ctx Context, s State) (Update, error) {
	return nil, nil
}

// makeTrackingNode returns a node that records its execution order and
// appends its name to the accumulating "messages" field.
func makeTrackingNode(name string, tracker *[]string) NodeFunc {
	return func(ctx Context, s State) (Update, error) {
		*tracker = append(*tracker, name)
		return Update{"messages": []any{name}}, nil
	}
}

// makeFailingNode returns a node that fails with the given error.
func makeFailingNode(err error) NodeFunc {
	return func(ctx Context, s State) (Update, error) {
		return nil, err
	}
}

// makePanicNode returns a node that panics with the given value.
func makePanicNode(value any) NodeFunc {
	return func(ctx Context, s State) (Update, error) {
		panic(value)
	}
}

// doneAfterThree routes "yes" once "count" reaches 3, "no" otherwise.
func doneAfterThree(ctx Context, s State) string {
	count, _ := s["count"].(int)
	if count >= 3 {
		return "yes"
	}
	return "no"
}

// checkError routes "error" when a step failure has been captured.
func checkError(ctx Context, s State) string {
	if s[ErrorField] != nil {
		return "error"
	}
	return "ok"
}

// testRegistries returns registries pre-populated with the shared fixtures.
func testRegistries() (*NodeRegistry, *ConditionRegistry) {
	nodes := NewNodeRegistry().
		Register("increment", increment).
		Register("noop", noop)
	conditions := NewConditionRegistry().
		Register("done", doneAfterThree).
		Register("check_error", checkError)
	return nodes, conditions
}

// testCompiler returns a compiler over the shared fixtures with the test
// schema applied.
func testCompiler() *Compiler {
	nodes, conditions := testRegistries()
	return NewCompiler(nodes, conditions).WithSchema(testSchema())
}

// linearDefinition builds a->b->END over the given function refs.
func linearDefinition(fnA, fnB string) *GraphDefinition {
	return &GraphDefinition{
		Nodes: []Node{
			{ID: "a", Function: fnA},
			{ID: "b", Function: fnB},
		},
		Edges: []Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: END},
		},
		EntryPoint: "a",
	}
}

// retryLoopDefinition builds the canonical bounded loop:
// a -> b, then b routes "yes" -> END or "no" -> a via the "done" condition.
func retryLoopDefinition() *GraphDefinition {
	return &GraphDefinition{
		Nodes: []Node{
			{ID: "a", Function: "increment"},
			{ID: "b", Function: "noop"},
		},
		Edges: []Edge{
			{Source: "a", Target: "b"},
		},
		ConditionalEdges: []ConditionalEdge{
			{
				Source:    "b",
				Condition: "done",
				Paths: map[string]string{
					"yes": END,
					"no":  "a",
				},
			},
		},
		EntryPoint: "a",
	}
}

// mustCompile compiles a definition with the shared fixtures, panicking
// on validation errors. For fixtures known to be valid.
func mustCompile(def *GraphDefinition) *CompiledGraph {
	cg, err := testCompiler().Compile(def, nil)
	if err != nil {
		panic(err)
	}
	return cg
}
