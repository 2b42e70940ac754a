package llms

import (
	"context"
	"errors"
	"testing"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls     int
	failUntil int
	response  string
	err       error
}

func (f *fakeProvider) GenerateText(ctx context.Context, messages []Message, opts CallOptions) (string, error) {
	f.calls++
	if f.calls <= f.failUntil {
		return "", errors.New("transient failure")
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestBlock(cfg config.LLMConfig, provider Provider) *LLMBlock {
	return &LLMBlock{cfg: cfg, provider: provider}
}

func TestGenerateTextSucceedsFirstTry(t *testing.T) {
	provider := &fakeProvider{response: "hello"}
	block := newTestBlock(config.DefaultLLMConfig("gpt-4o"), provider)

	text, ok := block.GenerateText(context.Background(), "hi", "")
	require.True(t, ok)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, provider.calls)
}

func TestGenerateTextRetriesThenSucceeds(t *testing.T) {
	provider := &fakeProvider{response: "hello", failUntil: 2}
	cfg := config.DefaultLLMConfig("gpt-4o")
	cfg.RetryAttempts = 2
	block := newTestBlock(cfg, provider)

	text, ok := block.GenerateText(context.Background(), "hi", "")
	require.True(t, ok)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 3, provider.calls)
}

func TestGenerateTextExhaustsRetries(t *testing.T) {
	provider := &fakeProvider{failUntil: 100}
	cfg := config.DefaultLLMConfig("gpt-4o")
	cfg.RetryAttempts = 1
	block := newTestBlock(cfg, provider)

	_, ok := block.GenerateText(context.Background(), "hi", "")
	assert.False(t, ok)
	assert.Equal(t, 2, provider.calls)
}

func TestGenerateStructuredOutputParsesResponse(t *testing.T) {
	provider := &fakeProvider{response: `{"tags": ["ml", "nlp"]}`}
	block := newTestBlock(config.DefaultLLMConfig("gpt-4o"), provider)

	out, ok := block.GenerateStructuredOutput(context.Background(), "tag this", "", map[string]any{"type": "object"})
	require.True(t, ok)
	assert.Equal(t, []any{"ml", "nlp"}, out["tags"])
}

func TestTemporaryConfigRestoresOnReturn(t *testing.T) {
	cfg := config.DefaultLLMConfig("gpt-4o")
	block := newTestBlock(cfg, &fakeProvider{response: "x"})

	var sawTemp float64
	err := block.TemporaryConfig(func(c *config.LLMConfig) {
		c.Temperature = 0.99
	}, func() error {
		sawTemp = block.cfg.Temperature
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 0.99, sawTemp)
	assert.Equal(t, 0.7, block.cfg.Temperature)
}

func TestTemporaryConfigRestoresOnError(t *testing.T) {
	cfg := config.DefaultLLMConfig("gpt-4o")
	block := newTestBlock(cfg, &fakeProvider{response: "x"})

	err := block.TemporaryConfig(func(c *config.LLMConfig) {
		c.Temperature = 0.1
	}, func() error {
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 0.7, block.cfg.Temperature)
}

func TestTestConnection(t *testing.T) {
	block := newTestBlock(config.DefaultLLMConfig("gpt-4o"), &fakeProvider{response: "pong"})
	assert.True(t, block.TestConnection(context.Background()))

	failing := newTestBlock(config.DefaultLLMConfig("gpt-4o"), &fakeProvider{failUntil: 100})
	assert.False(t, failing.TestConnection(context.Background()))
}
