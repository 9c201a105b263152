package aggregate

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Engine)
	mu       sync.RWMutex
)

// Register adds an engine to the registry.
func Register(e Engine) {
	mu.Lock()
	defer mu.Unlock()
	registry[e.Name()] = e
}

// Get retrieves an engine by name.
func Get(name string) (Engine, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown aggregation engine: %s", name)
	}
	return e, nil
}

// List returns all registered engine names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(NewSQLEngine())
	Register(NewMemoryEngine())
}
