// Package llm provides the model-provider clients used by the
// conversation orchestrator and the vision analyzers.
package llm

import "context"

// Client is the interface that all model providers implement.
type Client interface {
	// Chat sends a single, non-streaming chat completion request.
	Chat(ctx context.Context, model string, messages []Message, tools []map[string]any, opts ...Option) (*ChatResponse, error)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// Option adjusts a single Chat call.
type Option func(*CallOptions)

// CallOptions are the per-call sampling settings. Zero values mean
// "use the client's configured default".
type CallOptions struct {
	Temperature *float64
	MaxTokens   int
}

// WithTemperature overrides the sampling temperature for one call.
func WithTemperature(t float64) Option {
	return func(o *CallOptions) { o.Temperature = &t }
}

// WithMaxTokens caps the completion length for one call.
func WithMaxTokens(n int) Option {
	return func(o *CallOptions) { o.MaxTokens = n }
}

// Defaults are the client-wide sampling settings applied when a call
// does not override them.
type Defaults struct {
	Temperature float64
	MaxTokens   int
}

func (d Defaults) resolve(opts []Option) (float64, int) {
	var co CallOptions
	for _, o := range opts {
		o(&co)
	}
	temp := d.Temperature
	if co.Temperature != nil {
		temp = *co.Temperature
	}
	maxTokens := d.MaxTokens
	if co.MaxTokens > 0 {
		maxTokens = co.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	return temp, maxTokens
}
