/*
Package stategraph provides a declarative, registry-driven workflow
execution engine.

# Overview

stategraph executes directed graphs of named steps over an accumulating
state object. Unlike builder-style graph libraries, the graph itself is
plain data: a GraphDefinition lists nodes, unconditional edges,
conditional edges with label-to-target paths, and an entry point, and
every function or predicate it names is resolved against live registries
at compile time. The same definition can be stored, transported over an
administrative API, edited, and recompiled without touching code.

The engine knows nothing about what its steps do. Collaborators such as
model clients ride in an opaque Bindings bag forwarded to factory-style
registrations.

# Basic Usage

Register functions, define the graph as data, compile, run:

	nodes := stategraph.NewNodeRegistry().
	    Register("greet", func(ctx stategraph.Context, s stategraph.State) (stategraph.Update, error) {
	        return stategraph.Update{"greeting": "hello, " + s["name"].(string)}, nil
	    })

	def := &stategraph.GraphDefinition{
	    Nodes:      []stategraph.Node{{ID: "greet", Function: "greet"}},
	    Edges:      []stategraph.Edge{{Source: "greet", Target: stategraph.END}},
	    EntryPoint: "greet",
	}

	compiled, err := stategraph.NewCompiler(nodes, nil).Compile(def, nil)
	if err != nil {
	    log.Fatal(err)
	}

	ctx := stategraph.NewContext(context.Background())
	final, err := compiled.Run(ctx, stategraph.State{"name": "world"})

Compilation validates every structural invariant and reports all
violations in one joined error, not just the first.

# State Merging

State fields merge by declared kind. Overwrite fields replace; Append
fields accumulate an ordered sequence:

	schema := stategraph.NewSchema().
	    Declare("messages", stategraph.Append).
	    Declare("retry_count", stategraph.Overwrite)

	compiler := stategraph.NewCompiler(nodes, conditions).WithSchema(schema)

Undeclared fields are Overwrite.

# Failures Are Data

A step that returns an error or panics does not abort the run. The engine
records a StepFailure under stategraph.ErrorField and proceeds to the
routing decision, so graphs route their own recovery:

	conditions.Register("check", func(ctx stategraph.Context, s stategraph.State) string {
	    if s[stategraph.ErrorField] != nil {
	        return "error"
	    }
	    return "ok"
	})

A predicate returning a label with no declared path is different: that is
a defect in the graph or predicate, and the run fails with *RouterError.

# Loops

Cycles are legitimate (retry loops gated by a counter in state). The
engine imposes no iteration cap of its own; bounding loops is the graph's
contract, via a retry-count field its looping node increments and its
predicate inspects. WithMaxSteps adds an opt-in guard for defense against
defective definitions.

# Caching

Compiled graphs are memoized by (definition fingerprint, bindings ID):

	cache := stategraph.NewCache(compiler)
	cg, err := cache.GetOrCompile(def, bindings)

The fingerprint is a stable structural hash; node and edge order counts.
Callers that mutate a definition in place must call cache.Invalidate().
A failed recompilation never evicts a previously good entry.

# Thread Safety

  - GraphDefinition is plain data; do not mutate it while shared
  - CompiledGraph is immutable and safe for concurrent runs
  - Registries and Cache are safe for concurrent use
  - Each run owns its own state; runs never observe each other

# Subpackages

  - registry: generic thread-safe name registry
  - journal: run journal storage (memory, SQLite)
  - config: config and definition loading (YAML, JSON)
  - observability: logging, metrics, and tracing helpers
*/
package stategraph
