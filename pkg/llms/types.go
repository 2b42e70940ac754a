// Package llms provides a provider-agnostic text-generation and embedding
// layer: one text (or structured-JSON) request in, one response out, with
// retry, structured-output parsing, and a pluggable provider registry.
//
// Streaming and tool-calling are deliberately absent — this layer serves
// flows and taggers, neither of which need a multi-turn conversational
// agent loop.
package llms

import "context"

// Message is a single role/content pair sent to a provider.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CallOptions carries the per-call parameters a Provider forwards to the
// underlying API, after merging a block's configured defaults with any
// call-time overrides.
type CallOptions struct {
	Model          string
	Temperature    float64
	MaxTokens      int
	TopP           float64
	BaseURL        string
	APIKey         string
	APIVersion     string
	TimeoutSeconds int
	ExtraParams    map[string]any

	// ResponseSchema, when non-nil, asks the provider for structured JSON
	// output conforming to this JSON Schema document.
	ResponseSchema map[string]any
}

// Option mutates CallOptions, the call-time override mechanism accepted by
// LLMBlock.GenerateText / GenerateStructuredOutput.
type Option func(*CallOptions)

// WithTemperature overrides the sampling temperature for one call.
func WithTemperature(t float64) Option {
	return func(o *CallOptions) { o.Temperature = t }
}

// WithMaxTokens overrides the response length cap for one call.
func WithMaxTokens(n int) Option {
	return func(o *CallOptions) { o.MaxTokens = n }
}

// WithTopP overrides nucleus sampling for one call.
func WithTopP(p float64) Option {
	return func(o *CallOptions) { o.TopP = p }
}

// Provider is the contract every backend (OpenAI, Anthropic, Gemini,
// Ollama) implements: render messages into that provider's wire format,
// make the call, and return the assistant's text.
type Provider interface {
	// GenerateText sends messages and returns the assistant's reply text.
	GenerateText(ctx context.Context, messages []Message, opts CallOptions) (string, error)
}

// EmbeddingProvider is the embedding-side equivalent of Provider.
type EmbeddingProvider interface {
	GenerateEmbeddings(ctx context.Context, texts []string, opts CallOptions) ([][]float64, error)
}
