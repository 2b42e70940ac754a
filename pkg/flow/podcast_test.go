package flow

import (
	"context"
	"testing"

	"github.com/llmquant/quantmind/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPodcastFlow(blocks map[string]*llms.LLMBlock, templates map[string]string) *PodcastFlow {
	base := newTestBaseFlow("podcast", blocks, templates)
	return &PodcastFlow{BaseFlow: base}
}

func TestPodcastFlowRendersAllConfiguredSections(t *testing.T) {
	blocks := map[string]*llms.LLMBlock{
		"intro_generator": newStubBlock("intro text", false),
		"main_generator":  newStubBlock("main text", false),
		"outro_generator": newStubBlock("outro text", false),
	}
	templates := map[string]string{
		"intro_prompt": "Intro for {{ summary }}",
		"main_prompt":  "Main for {{ summary }}",
		"outro_prompt": "Outro for {{ summary }}",
	}
	flow := newTestPodcastFlow(blocks, templates)

	script, err := flow.Run(context.Background(), "the summary", "", "")
	require.NoError(t, err)
	assert.Equal(t, "intro text", script.Intro)
	assert.Equal(t, "main text", script.Main)
	assert.Equal(t, "outro text", script.Outro)
}

func TestPodcastFlowSkipsSectionsMissingBlockOrTemplate(t *testing.T) {
	blocks := map[string]*llms.LLMBlock{
		"main_generator": newStubBlock("main only", false),
	}
	templates := map[string]string{
		"main_prompt": "Main for {{ summary }}",
	}
	flow := newTestPodcastFlow(blocks, templates)

	script, err := flow.Run(context.Background(), "the summary", "", "")
	require.NoError(t, err)
	assert.Empty(t, script.Intro)
	assert.Equal(t, "main only", script.Main)
	assert.Empty(t, script.Outro)
}

func TestPodcastFlowSectionFailureYieldsEmpty(t *testing.T) {
	blocks := map[string]*llms.LLMBlock{
		"main_generator": newStubBlock("", true),
	}
	templates := map[string]string{
		"main_prompt": "Main for {{ summary }}",
	}
	flow := newTestPodcastFlow(blocks, templates)

	script, err := flow.Run(context.Background(), "the summary", "", "")
	require.NoError(t, err)
	assert.Empty(t, script.Main)
}
