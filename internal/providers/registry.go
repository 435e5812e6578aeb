package providers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds references to LLM clients by name. It supports config-driven
// instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	llmClients map[string]LLMClient
	logger     *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients: make(map[string]LLMClient),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name, replacing any existing entry.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	if r.logger != nil {
		r.logger.Info("registered LLM client", "name", name)
	}
}

// UnregisterLLM removes an LLM client by name.
func (r *Registry) UnregisterLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.llmClients, name)
	if r.logger != nil {
		r.logger.Info("unregistered LLM client", "name", name)
	}
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// ResolveLLM returns a client that looks up name in the registry on every
// call, so a replacement registered later (config hot reload) takes effect on
// the next request. A missing registration surfaces as a ConfigurationError
// from Generate.
func (r *Registry) ResolveLLM(name string) LLMClient {
	return &resolvedLLM{registry: r, name: name}
}

type resolvedLLM struct {
	registry *Registry
	name     string
}

func (c *resolvedLLM) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	client, err := c.registry.GetLLM(c.name)
	if err != nil {
		return nil, &ConfigurationError{Message: err.Error()}
	}
	return client.Generate(ctx, req)
}

func (c *resolvedLLM) Name() string {
	return c.name
}

func (c *resolvedLLM) Model() string {
	if client, err := c.registry.GetLLM(c.name); err == nil {
		return client.Model()
	}
	return ""
}

var _ LLMClient = (*resolvedLLM)(nil)

// ListLLM returns all registered LLM client names.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	return names
}
