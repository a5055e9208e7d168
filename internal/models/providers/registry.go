package providers

import (
	"fmt"
	"sort"
	"sync"
)

// Provider names accepted in configuration
const (
	OpenAI       = "openai"
	GitHubModels = "github_models"
	AzureOpenAI  = "azure_openai"
)

// Factory builds a provider from configuration
type Factory func(cfg Config) (Provider, error)

// Registry maps provider names onto factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in providers
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(OpenAI, func(cfg Config) (Provider, error) { return NewOpenAIProvider(cfg) })
	r.Register(GitHubModels, func(cfg Config) (Provider, error) { return NewGitHubModelsProvider(cfg) })
	r.Register(AzureOpenAI, func(cfg Config) (Provider, error) { return NewAzureOpenAIProvider(cfg) })
	return r
}

// Register adds or replaces the factory for name
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Names returns the registered provider names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the provider named by cfg.Provider
func (r *Registry) Build(cfg Config) (Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Provider]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}

	p, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}
