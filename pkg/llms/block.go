package llms

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/httpclient"
	"github.com/llmquant/quantmind/pkg/tokens"
)

const customInstructionsMarker = "Additional Instructions:\n"

// LLMBlock is a named, configured text-generation endpoint. Flows hold a
// name -> *LLMBlock map built from config.FlowConfig.LLMBlocks.
type LLMBlock struct {
	cfg      config.LLMConfig
	provider Provider
	client   *httpclient.Client
}

// NewLLMBlock resolves cfg's provider from the registry and, when the
// provider's API key is known, sets the corresponding process-wide
// environment variable from the resolved key. This is a deliberate
// process-wide side effect (mirroring litellm-style provider libraries
// that read credentials from the environment at call time); it runs once
// per block construction, not per call.
func NewLLMBlock(cfg config.LLMConfig) (*LLMBlock, error) {
	providerType := cfg.ProviderType()

	apiKey := cfg.ResolveAPIKey()
	setProviderEnv(providerType, apiKey)

	client := httpclient.New(
		httpclient.WithMaxRetries(2),
		httpclient.WithHeaderParser(rateLimitParserFor(providerType)),
	)

	provider, err := newProvider(providerType, client)
	if err != nil {
		return nil, fmt.Errorf("llms: new block: %w", err)
	}

	return &LLMBlock{cfg: cfg, provider: provider, client: client}, nil
}

// NewLLMBlockWithProvider builds a block around an already-constructed
// Provider, bypassing the registry and env-var side effect. Intended for
// tests and for callers assembling a provider out-of-band (e.g. a fake or
// a provider type the registry doesn't know about).
func NewLLMBlockWithProvider(cfg config.LLMConfig, provider Provider) *LLMBlock {
	return &LLMBlock{cfg: cfg, provider: provider}
}

func rateLimitParserFor(provider config.ProviderType) httpclient.HeaderParser {
	switch provider {
	case config.ProviderOpenAI, config.ProviderAzure:
		return httpclient.ParseOpenAIHeaders
	case config.ProviderAnthropic:
		return httpclient.ParseAnthropicHeaders
	case config.ProviderGoogle:
		return httpclient.ParseGeminiHeaders
	default:
		return func(_ http.Header) httpclient.RateLimitInfo {
			return httpclient.RateLimitInfo{}
		}
	}
}

func setProviderEnv(provider config.ProviderType, apiKey string) {
	if apiKey == "" {
		return
	}
	var envVar string
	switch provider {
	case config.ProviderOpenAI:
		envVar = "OPENAI_API_KEY"
	case config.ProviderAzure:
		envVar = "AZURE_OPENAI_API_KEY"
	case config.ProviderAnthropic:
		envVar = "ANTHROPIC_API_KEY"
	case config.ProviderGoogle:
		envVar = "GEMINI_API_KEY"
	case config.ProviderDeepseek:
		envVar = "DEEPSEEK_API_KEY"
	default:
		return
	}
	os.Setenv(envVar, apiKey)
}

func (b *LLMBlock) buildMessages(prompt, systemPrompt string) []Message {
	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	}
	userContent := prompt
	if b.cfg.CustomInstructions != "" {
		userContent = prompt + "\n\n" + customInstructionsMarker + b.cfg.CustomInstructions
	}
	messages = append(messages, Message{Role: RoleUser, Content: userContent})
	return messages
}

func (b *LLMBlock) callOptions(overrides ...Option) CallOptions {
	opts := CallOptions{
		Model:       b.cfg.Model,
		Temperature: b.cfg.Temperature,
		MaxTokens:   b.cfg.MaxTokens,
		TopP:        b.cfg.TopP,
		BaseURL:     b.cfg.BaseURL,
		APIKey:      b.cfg.ResolveAPIKey(),
		APIVersion:  b.cfg.APIVersion,
		ExtraParams: b.cfg.ExtraParams,
	}
	for _, override := range overrides {
		override(&opts)
	}
	return opts
}

// GenerateText generates a response to prompt (with an optional system
// prompt), making up to cfg.RetryAttempts+1 attempts with
// cfg.RetryDelaySeconds between them. The second return value reports success; on
// exhaustion it returns ("", false) after logging the final error.
func (b *LLMBlock) GenerateText(ctx context.Context, prompt, systemPrompt string, overrides ...Option) (string, bool) {
	messages := b.buildMessages(prompt, systemPrompt)
	opts := b.callOptions(overrides...)

	promptTokens := tokens.CountOrEstimate(opts.Model, prompt+systemPrompt)
	if opts.MaxTokens > 0 && promptTokens > opts.MaxTokens {
		slog.Warn("llms: prompt token estimate exceeds max_tokens", "model", opts.Model, "prompt_tokens", promptTokens, "max_tokens", opts.MaxTokens)
	}

	attempts := b.cfg.RetryAttempts + 1
	delay := time.Duration(b.cfg.RetryDelaySeconds * float64(time.Second))

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		text, err := b.provider.GenerateText(ctx, messages, opts)
		if err == nil {
			return text, true
		}
		lastErr = err
		slog.Warn("llms: generate text attempt failed", "attempt", attempt+1, "max", attempts, "model", opts.Model, "error", err)
		if attempt < attempts-1 && delay > 0 {
			select {
			case <-ctx.Done():
				slog.Error("llms: generate text: context cancelled during retry wait", "error", ctx.Err())
				return "", false
			case <-time.After(delay):
			}
		}
	}

	slog.Error("llms: generate text exhausted retries", "model", opts.Model, "error", lastErr)
	return "", false
}

// GenerateStructuredOutput is GenerateText's structured counterpart: it asks
// the provider for JSON conforming to responseFormat and parses the result,
// falling back to a regex scan for the first JSON object/array if direct
// parsing fails (see ParseStructuredJSON).
func (b *LLMBlock) GenerateStructuredOutput(ctx context.Context, prompt, systemPrompt string, responseFormat map[string]any, overrides ...Option) (map[string]any, bool) {
	overrides = append(overrides, func(o *CallOptions) { o.ResponseSchema = responseFormat })
	text, ok := b.GenerateText(ctx, prompt, systemPrompt, overrides...)
	if !ok {
		return nil, false
	}

	parsed, err := ParseStructuredJSON(text)
	if err != nil {
		slog.Error("llms: structured output: parse failed", "error", err)
		return nil, false
	}
	return parsed, true
}

// TemporaryConfig runs fn with cfg applied in place of the block's current
// config, restoring the original on every exit path (including panic).
func (b *LLMBlock) TemporaryConfig(overrides func(*config.LLMConfig), fn func() error) error {
	original := b.cfg
	b.cfg = b.cfg.CreateVariant(overrides)
	defer func() { b.cfg = original }()
	return fn()
}

// TestConnection round-trips a trivial prompt and reports whether the
// provider responded successfully.
func (b *LLMBlock) TestConnection(ctx context.Context) bool {
	_, ok := b.GenerateText(ctx, "ping", "")
	return ok
}

// Config returns the block's current (possibly temporarily overridden)
// configuration.
func (b *LLMBlock) Config() config.LLMConfig { return b.cfg }
