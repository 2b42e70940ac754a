package flow

import (
	"errors"
	"testing"

	"github.com/llmquant/quantmind/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPromptSubstitutesVars(t *testing.T) {
	base := newTestBaseFlow("t", nil, map[string]string{"greet": "Hello, {{ name }}!"})

	out, err := base.RenderPrompt("greet", map[string]any{"name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", out)
}

func TestRenderPromptMissingTemplateFails(t *testing.T) {
	base := newTestBaseFlow("t", nil, nil)

	_, err := base.RenderPrompt("missing", nil)
	var notFound *TemplateNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.Name)
}

func TestBlockLookupFailsWhenNameAbsent(t *testing.T) {
	base := newTestBaseFlow("t", map[string]*llms.LLMBlock{}, nil)

	_, err := base.Block("missing")
	var notFound *BlockNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestBlockLookupReturnsNilWithoutErrorWhenConstructionFailed(t *testing.T) {
	base := newTestBaseFlow("t", map[string]*llms.LLMBlock{"broken": nil}, nil)

	block, err := base.Block("broken")
	require.NoError(t, err)
	assert.Nil(t, block)
}
