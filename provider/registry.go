package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// ProviderRegistry manages all payment provider factories
type ProviderRegistry struct {
	providers map[string]Factory
	mu        sync.RWMutex
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]Factory),
	}
}

// Register adds a payment provider factory to the registry
func (r *ProviderRegistry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = factory
}

// Get retrieves a payment provider factory by name
func (r *ProviderRegistry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("payment provider '%s' is not registered", name)
	}

	return factory, nil
}

// Create builds a configured gateway for the named provider
func (r *ProviderRegistry) Create(name string, settings map[string]string, logger zerolog.Logger) (Gateway, error) {
	factory, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	return factory(settings, logger)
}

// GetAvailableProviders returns the sorted names of all registered providers
func (r *ProviderRegistry) GetAvailableProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// DefaultRegistry is the registry providers add themselves to on import
var DefaultRegistry = NewProviderRegistry()

// Register registers a provider with the default registry
func Register(name string, factory Factory) {
	DefaultRegistry.Register(name, factory)
}

// Get retrieves a provider factory from the default registry
func Get(name string) (Factory, error) {
	return DefaultRegistry.Get(name)
}

// GetAvailableProviders lists the providers in the default registry
func GetAvailableProviders() []string {
	return DefaultRegistry.GetAvailableProviders()
}
