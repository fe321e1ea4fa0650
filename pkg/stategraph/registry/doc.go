// Package registry provides a generic thread-safe registry for values indexed by key.
//
// Registry is designed for read-heavy workloads using sync.RWMutex. It supports
// any comparable key type and any value type through Go generics. The engine's
// node and condition registries are built on it.
//
// # Basic Usage
//
// Create a registry and register values:
//
//	r := registry.New[string, int]()
//	r.Register("one", 1)
//	r.Register("two", 2)
//
//	value, ok := r.Get("one")
//	if ok {
//	    fmt.Println(value) // Output: 1
//	}
//
// # Factory Pattern
//
// Registries work well for factory patterns where you register constructors
// resolved by name at compile time:
//
//	factories := registry.New[string, func(b *Bindings) StepFunc]()
//	factories.Register("analyze", newAnalyzeStep)
//
//	factory, ok := factories.Get("analyze")
//	if ok {
//	    step := factory(bindings)
//	    // bind step into the compiled graph...
//	}
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. The Range method iterates
// over a snapshot of the registry, allowing mutations during iteration without
// affecting the iteration itself:
//
//	r.Range(func(key string, value int) bool {
//	    if value < 0 {
//	        r.Delete(key) // Won't affect current iteration
//	    }
//	    return true // continue iteration
//	})
package registry
