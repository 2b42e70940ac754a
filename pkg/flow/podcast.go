package flow

import (
	"context"

	"github.com/llmquant/quantmind/pkg/config"
)

// PodcastScript is the assembled result of a PodcastFlow run: each section
// is empty when its corresponding block/template pair was not configured.
type PodcastScript struct {
	Intro string
	Main  string
	Outro string
}

// PodcastFlow renders an intro/main/outro podcast script around a summary,
// using named LLM blocks (intro_generator, main_generator, outro_generator)
// and named templates (intro_prompt, main_prompt, outro_prompt). Any
// section whose block or template is absent from configuration is left
// empty rather than erroring, so a podcast config can supply only the
// sections it wants.
type PodcastFlow struct {
	*BaseFlow
}

// NewPodcastFlow builds a PodcastFlow from cfg.
func NewPodcastFlow(cfg *config.BaseFlowConfig) (*PodcastFlow, error) {
	base, err := newBaseFlow(cfg)
	if err != nil {
		return nil, err
	}
	return &PodcastFlow{BaseFlow: base}, nil
}

// Run renders and calls each configured section in turn, feeding summary
// (and the optional intro/outro seed text) into that section's template.
func (f *PodcastFlow) Run(ctx context.Context, summary, intro, outro string) (PodcastScript, error) {
	var script PodcastScript

	introText, err := f.renderSection(ctx, "intro_generator", "intro_prompt", map[string]any{
		"summary": summary,
		"intro":   intro,
	})
	if err != nil {
		return PodcastScript{}, err
	}
	script.Intro = introText

	mainText, err := f.renderSection(ctx, "main_generator", "main_prompt", map[string]any{
		"summary": summary,
	})
	if err != nil {
		return PodcastScript{}, err
	}
	script.Main = mainText

	outroText, err := f.renderSection(ctx, "outro_generator", "outro_prompt", map[string]any{
		"summary": summary,
		"outro":   outro,
	})
	if err != nil {
		return PodcastScript{}, err
	}
	script.Outro = outroText

	return script, nil
}

// renderSection produces one podcast section's text. It returns an empty
// string with no error whenever the named block or template is absent —
// a section is optional, not a configuration failure — and likewise when
// the LLM call itself fails.
func (f *PodcastFlow) renderSection(ctx context.Context, blockName, templateName string, vars map[string]any) (string, error) {
	if _, ok := f.templates[templateName]; !ok {
		return "", nil
	}
	block, ok := f.blocks[blockName]
	if !ok || block == nil {
		return "", nil
	}

	prompt, err := f.RenderPrompt(templateName, vars)
	if err != nil {
		return "", err
	}

	text, success := block.GenerateText(ctx, prompt, block.Config().SystemPrompt)
	if !success {
		return "", nil
	}
	return text, nil
}
