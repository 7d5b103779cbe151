package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps configured provider names to their models and client
// implementations. Built once at startup and read-only afterwards.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Provider
	models  map[string]map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Provider),
		models:  make(map[string]map[string]struct{}),
	}
}

// Register adds a provider with its served models. Registering the same
// name twice is an error: provider identity is the name.
func (r *Registry) Register(name string, models []string, client Provider) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownProvider)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateProvider, name)
	}

	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[m] = struct{}{}
	}
	r.clients[name] = client
	r.models[name] = set
	return nil
}

// Resolve returns the client for ref, or an error naming what is missing.
func (r *Registry) Resolve(ref ModelRef) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[ref.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, ref.Provider)
	}
	if _, ok := r.models[ref.Provider][ref.Model]; !ok {
		return nil, fmt.Errorf("%w: %q has no model %q", ErrUnknownModel, ref.Provider, ref.Model)
	}
	return client, nil
}

// Validate checks that ref resolves without returning the client.
func (r *Registry) Validate(ref ModelRef) error {
	_, err := r.Resolve(ref)
	return err
}

// Providers returns the registered provider names, sorted.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
