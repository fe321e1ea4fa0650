package stategraph

import "sync"

// cacheKey identifies a compiled graph by definition structure and
// binding identity.
type cacheKey struct {
	fingerprint string
	bindingID   string
}

// Cache memoizes compiled graphs keyed by (definition fingerprint,
// bindings ID). It is the one resource shared across concurrent runs:
// reads are lock-free of compilation, and invalidation swaps the entry
// map atomically so readers never observe a half-updated cache.
//
// The cache never revalidates on its own. A caller that mutates a live
// GraphDefinition in place must call Invalidate explicitly; a definition
// replaced by a structurally different one simply keys a new entry.
type Cache struct {
	mu       sync.RWMutex
	compiler *Compiler
	entries  map[cacheKey]*CompiledGraph
}

// NewCache creates a cache that compiles with the given compiler.
func NewCache(compiler *Compiler) *Cache {
	if compiler == nil {
		panic("stategraph: cache compiler cannot be nil")
	}
	return &Cache{
		compiler: compiler,
		entries:  make(map[cacheKey]*CompiledGraph),
	}
}

// GetOrCompile returns the cached compiled graph for the definition and
// bindings, compiling on first use. A cache hit returns the identical
// *CompiledGraph instance.
//
// A failed compilation returns the validation error and leaves every
// previously cached entry untouched: an old compiled graph stays
// servable until a successful recompilation replaces it.
func (c *Cache) GetOrCompile(def *GraphDefinition, b *Bindings) (*CompiledGraph, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}
	key := cacheKey{fingerprint: def.Fingerprint(), bindingID: b.ID()}

	c.mu.RLock()
	cg, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cg, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock.
	if cg, ok := c.entries[key]; ok {
		return cg, nil
	}

	cg, err := c.compiler.Compile(def, b)
	if err != nil {
		return nil, err
	}
	c.entries[key] = cg
	return cg, nil
}

// Invalidate discards all cached entries. The next GetOrCompile for any
// definition compiles a fresh instance.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*CompiledGraph)
}

// Len returns the number of cached compiled graphs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
