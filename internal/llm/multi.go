package llm

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// MultiClient routes each model to the provider that serves it. Models
// without a mapping go to the fallback provider.
type MultiClient struct {
	clients  map[string]Client // provider name → client
	models   map[string]string // model name → provider name
	fallback string
}

// NewMultiClient creates a router whose unmapped models go to the
// provider registered under fallback.
func NewMultiClient(fallback string) *MultiClient {
	return &MultiClient{
		clients:  make(map[string]Client),
		models:   make(map[string]string),
		fallback: fallback,
	}
}

// AddProvider registers a client under a provider name.
func (m *MultiClient) AddProvider(name string, client Client) {
	m.clients[name] = client
}

// AddModel maps a model name to a provider.
func (m *MultiClient) AddModel(modelName, providerName string) {
	m.models[modelName] = providerName
}

// ProviderFor names the provider that will serve model. A mapping to a
// provider that was never registered falls back.
func (m *MultiClient) ProviderFor(model string) string {
	if p, ok := m.models[model]; ok {
		if _, ok := m.clients[p]; ok {
			return p
		}
	}
	return m.fallback
}

// Providers lists the registered provider names, sorted.
func (m *MultiClient) Providers() []string {
	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Chat sends a request to the provider serving the model.
func (m *MultiClient) Chat(ctx context.Context, model string, messages []Message, tools []map[string]any, opts ...Option) (*ChatResponse, error) {
	client, ok := m.clients[m.ProviderFor(model)]
	if !ok {
		return nil, fmt.Errorf("no provider configured for model %q", model)
	}
	return client.Chat(ctx, model, messages, tools, opts...)
}

// Ping checks every registered provider and reports all failures.
func (m *MultiClient) Ping(ctx context.Context) error {
	if len(m.clients) == 0 {
		return errors.New("no providers configured")
	}
	var errs []error
	for _, name := range m.Providers() {
		if err := m.clients[name].Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
