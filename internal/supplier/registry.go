package supplier

import (
	"sort"
	"sync"
)

// Registry maps supplier names to adapter instances. It is populated once at
// process start and read-only afterwards; the lock exists so tests can
// register fakes concurrently without care. There is no removal: entries live
// for the process lifetime.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under the given name. Registering the same name
// twice overwrites the previous entry (last writer wins).
func (r *Registry) Register(name string, adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[name] = adapter
}

// Get returns the adapter registered under name, if any.
func (r *Registry) Get(name string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[name]
	return adapter, ok
}

// Names returns the currently registered supplier names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
