package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChunkStrategy selects how SummaryFlow splits long content before the map
// stage.
type ChunkStrategy string

const (
	ChunkStrategyBySize   ChunkStrategy = "BY_SIZE"
	ChunkStrategyByCustom ChunkStrategy = "BY_CUSTOM"
	ChunkStrategyBySection ChunkStrategy = "BY_SECTION"
)

// FlowConfig is the contract every flow-specific config implements: a name,
// a set of named LLM blocks, and a set of named prompt templates.
type FlowConfig interface {
	FlowName() string
	Base() *BaseFlowConfig
}

// BaseFlowConfig holds the fields common to every flow config.
type BaseFlowConfig struct {
	Name                string               `yaml:"name" json:"name"`
	LLMBlocks           map[string]LLMConfig `yaml:"llm_blocks,omitempty" json:"llm_blocks,omitempty"`
	PromptTemplates     map[string]string    `yaml:"prompt_templates,omitempty" json:"prompt_templates,omitempty"`
	PromptTemplatesPath string               `yaml:"prompt_templates_path,omitempty" json:"prompt_templates_path,omitempty"`
}

// FlowName implements FlowConfig.
func (b *BaseFlowConfig) FlowName() string { return b.Name }

// Base implements FlowConfig.
func (b *BaseFlowConfig) Base() *BaseFlowConfig { return b }

// promptTemplatesFile is the shape expected at PromptTemplatesPath: a YAML
// document with a top-level "templates" mapping.
type promptTemplatesFile struct {
	Templates map[string]string `yaml:"templates"`
}

// resolveTemplatesPath loads PromptTemplatesPath, if set, and uses its
// templates section as PromptTemplates. The section is required; a file
// with no top-level templates key is a configuration error.
func (b *BaseFlowConfig) resolveTemplatesPath() error {
	if b.PromptTemplatesPath == "" {
		return nil
	}

	data, err := os.ReadFile(b.PromptTemplatesPath)
	if err != nil {
		return fmt.Errorf("config: flow %q: read prompt_templates_path: %w", b.Name, err)
	}

	var doc promptTemplatesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: flow %q: parse prompt_templates_path: %w", b.Name, err)
	}
	if doc.Templates == nil {
		return fmt.Errorf("config: flow %q: prompt_templates_path %q has no top-level templates section", b.Name, b.PromptTemplatesPath)
	}

	b.PromptTemplates = doc.Templates
	return nil
}

// SummaryFlowConfig extends BaseFlowConfig with chunking and map/reduce
// defaults.
type SummaryFlowConfig struct {
	BaseFlowConfig `yaml:",inline" json:",inline"`

	UseChunking         bool          `yaml:"use_chunking" json:"use_chunking"`
	ChunkSize           int           `yaml:"chunk_size" json:"chunk_size"`
	ChunkStrategy       ChunkStrategy `yaml:"chunk_strategy,omitempty" json:"chunk_strategy,omitempty"`
	ChunkCustomStrategy string        `yaml:"chunk_custom_strategy,omitempty" json:"chunk_custom_strategy,omitempty"`
}

// NewSummaryFlowConfig builds a SummaryFlowConfig with chunking on,
// chunk_size 2000 and the BY_SIZE strategy. It leaves llm_blocks and
// prompt_templates empty; the default cheap_summarizer / powerful_combiner
// blocks and summarize_chunk_template / combine_summaries_template
// templates are filled in by applyDefaults, which FromYAML runs on each
// loaded summary flow.
func NewSummaryFlowConfig(name string) *SummaryFlowConfig {
	return &SummaryFlowConfig{
		BaseFlowConfig: BaseFlowConfig{Name: name},
		UseChunking:    true,
		ChunkSize:      2000,
		ChunkStrategy:  ChunkStrategyBySize,
	}
}

// applyDefaults populates default llm_blocks/prompt_templates only when the
// caller supplied neither, per spec.md's "leave user values untouched"
// rule.
func (c *SummaryFlowConfig) applyDefaults() {
	if len(c.LLMBlocks) == 0 {
		c.LLMBlocks = map[string]LLMConfig{
			"cheap_summarizer":   DefaultLLMConfig("gpt-4o-mini"),
			"powerful_combiner": DefaultLLMConfig("gpt-4o"),
		}
	}
	if len(c.PromptTemplates) == 0 {
		c.PromptTemplates = map[string]string{
			"summarize_chunk_template":    defaultSummarizeChunkTemplate,
			"combine_summaries_template": defaultCombineSummariesTemplate,
		}
	}
}

const defaultSummarizeChunkTemplate = `Summarize the following text concisely, preserving key facts and figures:

{{ chunk_text }}`

const defaultCombineSummariesTemplate = `Combine the following chunk summaries into one coherent summary:

{{ summaries }}`

// Validate checks SummaryFlowConfig's invariants, including the
// BY_SECTION-not-implemented rule.
func (c *SummaryFlowConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: summary flow: name is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: summary flow %q: chunk_size must be > 0", c.Name)
	}
	switch c.ChunkStrategy {
	case "", ChunkStrategyBySize, ChunkStrategyByCustom:
	case ChunkStrategyBySection:
		return fmt.Errorf("config: summary flow %q: chunk_strategy BY_SECTION is not implemented", c.Name)
	default:
		return fmt.Errorf("config: summary flow %q: unknown chunk_strategy %q", c.Name, c.ChunkStrategy)
	}
	if c.ChunkStrategy == ChunkStrategyByCustom && c.ChunkCustomStrategy == "" {
		return fmt.Errorf("config: summary flow %q: chunk_strategy BY_CUSTOM requires chunk_custom_strategy", c.Name)
	}
	for blockName, llmCfg := range c.LLMBlocks {
		if err := llmCfg.Validate(); err != nil {
			return fmt.Errorf("config: summary flow %q: llm block %q: %w", c.Name, blockName, err)
		}
	}
	return nil
}
