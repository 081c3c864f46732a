package ext

import (
	"context"
	"slices"
	"sync"

	"github.com/ardnew/pl2/lang"
)

// Registry is a [Loader] for modules linked into the binary.
type Registry struct {
	mods map[string]Module
	mu   sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{mods: make(map[string]Module)}
}

// Register adds a module under id. It panics if id is invalid, mod is nil,
// or id is already registered.
func (r *Registry) Register(id string, mod Module) {
	if !ValidID(id) {
		panic("ext: Register: invalid module id " + id)
	}

	if mod == nil {
		panic("ext: Register: module is nil for " + id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.mods[id]; dup {
		panic("ext: Register called twice for module " + id)
	}

	r.mods[id] = mod
}

// Load implements [Loader].
func (r *Registry) Load(_ context.Context, id string) (Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if mod, ok := r.mods[id]; ok {
		return mod, nil
	}

	return nil, lang.ErrModuleNotFound.Wrapf("%s", id)
}

// IDs returns the sorted ids of all registered modules.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.mods))
	for id := range r.mods {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry that [Register] adds to.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a module to the default registry.
func Register(id string, mod Module) { defaultRegistry.Register(id, mod) }
