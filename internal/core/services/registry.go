package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// Registry holds the configured destination adapters, keyed by name.
// Registration happens once at wiring time; lookups are concurrent.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]driven.DestinationAdapter
}

// NewRegistry creates an empty destination registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]driven.DestinationAdapter),
	}
}

// Register adds an adapter under its own name. Registering the same name
// twice replaces the earlier adapter.
func (r *Registry) Register(adapter driven.DestinationAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.Name()] = adapter
}

// Get returns the adapter for a destination name.
func (r *Registry) Get(name string) (driven.DestinationAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrDestinationUnsupported, name)
	}
	return adapter, nil
}

// List returns all registered adapters in name order.
func (r *Registry) List() []driven.DestinationAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)

	adapters := make([]driven.DestinationAdapter, 0, len(names))
	for _, name := range names {
		adapters = append(adapters, r.adapters[name])
	}
	return adapters
}
