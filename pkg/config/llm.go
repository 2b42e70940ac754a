package config

import (
	"fmt"
	"strings"
)

// ProviderType identifies the LLM/embedding backend a config targets, derived
// from the model name rather than configured explicitly.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderGoogle    ProviderType = "google"
	ProviderAzure     ProviderType = "azure"
	ProviderOllama    ProviderType = "ollama"
	ProviderDeepseek  ProviderType = "deepseek"
	ProviderUnknown   ProviderType = "unknown"
)

// LLMConfig configures a single named LLM endpoint used by a flow block.
type LLMConfig struct {
	Model             string             `yaml:"model" json:"model"`
	Temperature       float64            `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	MaxTokens         int                `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	TopP              float64            `yaml:"top_p,omitempty" json:"top_p,omitempty"`
	APIKey            string             `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	BaseURL           string             `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	APIVersion        string             `yaml:"api_version,omitempty" json:"api_version,omitempty"`
	TimeoutSeconds    int                `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RetryAttempts     int                `yaml:"retry_attempts,omitempty" json:"retry_attempts,omitempty"`
	RetryDelaySeconds float64            `yaml:"retry_delay,omitempty" json:"retry_delay,omitempty"`
	ExtraParams       map[string]any     `yaml:"extra_params,omitempty" json:"extra_params,omitempty"`
	SystemPrompt      string             `yaml:"system_prompt,omitempty" json:"system_prompt,omitempty"`
	CustomInstructions string            `yaml:"custom_instructions,omitempty" json:"custom_instructions,omitempty"`
}

// DefaultLLMConfig returns an LLMConfig carrying spec defaults for fields a
// caller leaves unset.
func DefaultLLMConfig(model string) LLMConfig {
	return LLMConfig{
		Model:          model,
		Temperature:    0.7,
		MaxTokens:      4096,
		TopP:           1.0,
		TimeoutSeconds: 60,
		RetryAttempts:  2,
	}
}

// ProviderType derives the provider from the model name prefix. Recognized
// prefixes: gpt-/openai/ -> openai, claude-/anthropic/ -> anthropic,
// gemini-/google/ -> google; substrings azure/ollama/deepseek route to their
// own provider regardless of position. Anything else is ProviderUnknown.
func (c LLMConfig) ProviderType() ProviderType {
	m := strings.ToLower(c.Model)

	switch {
	case strings.Contains(m, "azure"):
		return ProviderAzure
	case strings.Contains(m, "ollama"):
		return ProviderOllama
	case strings.Contains(m, "deepseek"):
		return ProviderDeepseek
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "openai/"):
		return ProviderOpenAI
	case strings.HasPrefix(m, "claude-"), strings.HasPrefix(m, "anthropic/"):
		return ProviderAnthropic
	case strings.HasPrefix(m, "gemini-"), strings.HasPrefix(m, "google/"):
		return ProviderGoogle
	default:
		return ProviderUnknown
	}
}

// ResolveAPIKey returns APIKey if set, else the provider-specific
// environment variable (see GetProviderAPIKey), leaving it empty for
// providers (ollama) that need none.
func (c LLMConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return GetProviderAPIKey(c.ProviderType())
}

// LitellmParams projects the config's call-time parameters into a generic
// map, the shape the LLM block merges with per-call overrides.
func (c LLMConfig) LitellmParams() map[string]any {
	params := map[string]any{
		"model": c.Model,
	}
	if c.Temperature != 0 {
		params["temperature"] = c.Temperature
	}
	if c.MaxTokens != 0 {
		params["max_tokens"] = c.MaxTokens
	}
	if c.TopP != 0 {
		params["top_p"] = c.TopP
	}
	if c.BaseURL != "" {
		params["base_url"] = c.BaseURL
	}
	if c.APIVersion != "" {
		params["api_version"] = c.APIVersion
	}
	for k, v := range c.ExtraParams {
		params[k] = v
	}
	return params
}

// CreateVariant returns a copy of c with overrides applied, leaving c
// untouched.
func (c LLMConfig) CreateVariant(overrides func(*LLMConfig)) LLMConfig {
	variant := c
	if c.ExtraParams != nil {
		variant.ExtraParams = make(map[string]any, len(c.ExtraParams))
		for k, v := range c.ExtraParams {
			variant.ExtraParams[k] = v
		}
	}
	if overrides != nil {
		overrides(&variant)
	}
	return variant
}

// Validate checks the bounds spec.md places on an LLMConfig.
func (c LLMConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("config: llm: model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: llm: temperature must be within [0,2], got %v", c.Temperature)
	}
	if c.TopP != 0 && (c.TopP < 0 || c.TopP > 1) {
		return fmt.Errorf("config: llm: top_p must be within [0,1], got %v", c.TopP)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config: llm: max_tokens must be > 0")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("config: llm: retry_attempts must be >= 0")
	}
	if c.RetryDelaySeconds < 0 {
		return fmt.Errorf("config: llm: retry_delay must be >= 0")
	}
	return nil
}

// EmbeddingEncoding selects the wire representation an embedding endpoint
// returns.
type EmbeddingEncoding string

const (
	EmbeddingEncodingFloat  EmbeddingEncoding = "float"
	EmbeddingEncodingBase64 EmbeddingEncoding = "base64"
)

// EmbeddingConfig mirrors LLMConfig for embedding endpoints.
type EmbeddingConfig struct {
	LLMConfig      `yaml:",inline" json:",inline"`
	Dimensions     int               `yaml:"dimensions,omitempty" json:"dimensions,omitempty"`
	EncodingFormat EmbeddingEncoding `yaml:"encoding_format,omitempty" json:"encoding_format,omitempty"`
}

// Validate checks EmbeddingConfig, including the inherited LLMConfig bounds.
func (c EmbeddingConfig) Validate() error {
	if err := c.LLMConfig.Validate(); err != nil {
		return err
	}
	if c.EncodingFormat != "" && c.EncodingFormat != EmbeddingEncodingFloat && c.EncodingFormat != EmbeddingEncodingBase64 {
		return fmt.Errorf("config: embedding: encoding_format must be %q or %q, got %q", EmbeddingEncodingFloat, EmbeddingEncodingBase64, c.EncodingFormat)
	}
	return nil
}

// GetProviderAPIKey resolves a provider's API key from its conventional
// environment variable.
func GetProviderAPIKey(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return envOrEmpty("OPENAI_API_KEY")
	case ProviderAzure:
		if key := envOrEmpty("AZURE_OPENAI_API_KEY"); key != "" {
			return key
		}
		return envOrEmpty("AZURE_API_KEY")
	case ProviderAnthropic:
		return envOrEmpty("ANTHROPIC_API_KEY")
	case ProviderGoogle:
		if key := envOrEmpty("GEMINI_API_KEY"); key != "" {
			return key
		}
		return envOrEmpty("GOOGLE_API_KEY")
	case ProviderDeepseek:
		return envOrEmpty("DEEPSEEK_API_KEY")
	default:
		return ""
	}
}
