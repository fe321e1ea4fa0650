package benchmarks

import (
	"fmt"

	"github.com/randalmurphal/stategraph/pkg/stategraph"
)

// Shared builders for the benchmark graphs.

func passthrough(ctx stategraph.Context, s stategraph.State) (stategraph.Update, error) {
	return stategraph.Update{"touched": true}, nil
}

func bump(ctx stategraph.Context, s stategraph.State) (stategraph.Update, error) {
	count, _ := s["count"].(int)
	return stategraph.Update{"count": count + 1}, nil
}

func benchRegistries() (*stategraph.NodeRegistry, *stategraph.ConditionRegistry) {
	nodes := stategraph.NewNodeRegistry().
		Register("passthrough", passthrough).
		Register("bump", bump)
	conditions := stategraph.NewConditionRegistry().
		Register("keep_going", func(ctx stategraph.Context, s stategraph.State) string {
			count, _ := s["count"].(int)
			limit, _ := s["limit"].(int)
			if count >= limit {
				return "stop"
			}
			return "go"
		})
	return nodes, conditions
}

// linearDefinition builds an n-node chain ending at END.
func linearDefinition(n int) *stategraph.GraphDefinition {
	def := &stategraph.GraphDefinition{EntryPoint: "node-0"}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("node-%d", i)
		def.Nodes = append(def.Nodes, stategraph.Node{ID: id, Function: "passthrough"})

		target := stategraph.END
		if i < n-1 {
			target = fmt.Sprintf("node-%d", i+1)
		}
		def.Edges = append(def.Edges, stategraph.Edge{Source: id, Target: target})
	}
	return def
}

// loopDefinition builds a single node looping on itself until "count"
// reaches the "limit" carried in state.
func loopDefinition() *stategraph.GraphDefinition {
	return &stategraph.GraphDefinition{
		Nodes: []stategraph.Node{{ID: "work", Function: "bump"}},
		ConditionalEdges: []stategraph.ConditionalEdge{
			{
				Source:    "work",
				Condition: "keep_going",
				Paths: map[string]string{
					"go":   "work",
					"stop": stategraph.END,
				},
			},
		},
		EntryPoint: "work",
	}
}

func mustCompile(def *stategraph.GraphDefinition) *stategraph.CompiledGraph {
	nodes, conditions := benchRegistries()
	cg, err := stategraph.NewCompiler(nodes, conditions).Compile(def, nil)
	if err != nil {
		panic(err)
	}
	return cg
}
