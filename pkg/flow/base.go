// Package flow implements the runtime that turns a configured set of LLM
// blocks and prompt templates into concrete operations (summarization,
// podcast scripting) over a KnowledgeItem.
package flow

import (
	"log/slog"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/llms"
	"github.com/llmquant/quantmind/pkg/template"
)

// BaseFlow holds the resources every concrete flow is built from: a
// name->block map of configured LLM endpoints and a name->template map of
// compiled prompt templates. Concrete flows embed it and add their own
// Run method.
type BaseFlow struct {
	name      string
	blocks    map[string]*llms.LLMBlock
	templates map[string]*template.Template
}

// newBaseFlow instantiates an LLM block per (name, llm_config) pair in
// cfg.LLMBlocks, storing nil and logging on a construction failure rather
// than failing the whole flow, then compiles every (name, template_string)
// pair in cfg.PromptTemplates.
func newBaseFlow(cfg *config.BaseFlowConfig) (*BaseFlow, error) {
	blocks := make(map[string]*llms.LLMBlock, len(cfg.LLMBlocks))
	for name, llmCfg := range cfg.LLMBlocks {
		block, err := llms.NewLLMBlock(llmCfg)
		if err != nil {
			slog.Error("flow: llm block construction failed", "flow", cfg.Name, "block", name, "error", err)
			blocks[name] = nil
			continue
		}
		blocks[name] = block
	}

	templates := make(map[string]*template.Template, len(cfg.PromptTemplates))
	for name, source := range cfg.PromptTemplates {
		tmpl, err := template.Parse(source)
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}

	return &BaseFlow{name: cfg.Name, blocks: blocks, templates: templates}, nil
}

// RenderPrompt renders the named template against vars. It fails with
// *TemplateNotFoundError if name is absent from the flow's template map.
func (f *BaseFlow) RenderPrompt(name string, vars map[string]any) (string, error) {
	tmpl, ok := f.templates[name]
	if !ok {
		return "", &TemplateNotFoundError{Name: name}
	}
	return tmpl.Render(vars)
}

// Block returns the named LLM block. It fails with *BlockNotFoundError only
// if name is absent from the map; a name present but nil (construction
// failed at init) is returned as a nil block with no error, mirroring the
// "store null and log" init rule.
func (f *BaseFlow) Block(name string) (*llms.LLMBlock, error) {
	block, ok := f.blocks[name]
	if !ok {
		return nil, &BlockNotFoundError{Name: name}
	}
	return block, nil
}

// Name returns the flow's configured name.
func (f *BaseFlow) Name() string { return f.name }
