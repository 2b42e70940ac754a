package tagger

import (
	"context"

	"github.com/llmquant/quantmind/pkg/llms"
	"github.com/llmquant/quantmind/pkg/model"
	"github.com/llmquant/quantmind/pkg/template"
)

const defaultPromptTemplate = `Extract up to {{ max_tags }} short, relevant tags from the content below.
Respond with a JSON array of strings and nothing else.

{{ content }}`

// Tagger enriches a KnowledgeItem with tags. It is a small interface, not
// a concrete type, so a future non-LLM tagger (rule-based, embedding
// clustering) can be registered under its own type name the same way a
// flow config is (see RegisterTagger).
type Tagger interface {
	TagItem(ctx context.Context, item model.KnowledgeItem) error
}

// LLMTagger is the built-in, LLM-based Tagger: it builds a prompt from an
// item's content, calls its configured LLM block, parses the response into
// a tag list, and merges the normalized result back into the item.
type LLMTagger struct {
	cfg    Config
	block  *llms.LLMBlock
	prompt *template.Template
}

// NewLLMTagger builds an LLMTagger from cfg, compiling cfg.CustomPrompt (or
// the built-in default) into a reusable template.
func NewLLMTagger(cfg Config) (*LLMTagger, error) {
	block, err := llms.NewLLMBlock(cfg.LLM)
	if err != nil {
		return nil, err
	}

	source := cfg.CustomPrompt
	if source == "" {
		source = defaultPromptTemplate
	}
	prompt, err := template.Parse(source)
	if err != nil {
		return nil, err
	}

	return &LLMTagger{cfg: cfg, block: block, prompt: prompt}, nil
}

// TagItem implements Tagger. A failed or empty LLM response leaves the item
// untouched rather than erroring — tagging is a best-effort enrichment
// step.
func (t *LLMTagger) TagItem(ctx context.Context, item model.KnowledgeItem) error {
	base := item.Base()

	prompt, err := t.prompt.Render(map[string]any{
		"content":  base.Content,
		"max_tags": t.cfg.MaxTags,
	})
	if err != nil {
		return err
	}

	text, ok := t.block.GenerateText(ctx, prompt, t.cfg.LLM.SystemPrompt)
	if !ok || text == "" {
		return nil
	}

	tags := truncate(normalizeTags(parseTags(text)), t.cfg.MaxTags)
	for _, tag := range tags {
		base.AddTag(tag)
	}

	base.SetMeta("tagger", "llm")
	base.SetMeta("model_used", t.cfg.LLM.Model)
	base.SetMeta("tags_generated", tags)

	return nil
}
