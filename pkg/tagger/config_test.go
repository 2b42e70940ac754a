package tagger

import (
	"testing"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSectionDecodesLLMAndMaxTags(t *testing.T) {
	section := &config.RawSection{
		Type: "llm",
		Config: map[string]any{
			"llm":      map[string]any{"model": "gpt-4o-mini"},
			"max_tags": 3,
		},
	}

	cfg, err := FromSection(section)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.MaxTags)
}

func TestFromSectionDefaultsMaxTags(t *testing.T) {
	section := &config.RawSection{
		Type:   "llm",
		Config: map[string]any{"llm": map[string]any{"model": "gpt-4o-mini"}},
	}

	cfg, err := FromSection(section)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTags, cfg.MaxTags)
}

func TestFromSectionRejectsUnsupportedType(t *testing.T) {
	section := &config.RawSection{Type: "rules", Config: map[string]any{}}

	_, err := FromSection(section)
	assert.Error(t, err)
}

func TestFromSectionNilReturnsZeroValue(t *testing.T) {
	cfg, err := FromSection(nil)
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}
