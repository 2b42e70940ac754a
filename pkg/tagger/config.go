// Package tagger implements the LLM-based tag extraction component: given a
// KnowledgeItem's content, ask an LLM block for a short list of tags and
// merge the normalized result into the item.
package tagger

import (
	"fmt"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/mitchellh/mapstructure"
)

// DefaultMaxTags is used when a Config's MaxTags is left at zero.
const DefaultMaxTags = 5

// Config configures a Tagger: the LLM block to call, an optional prompt
// overriding the built-in default, and the tag-count ceiling.
type Config struct {
	LLM          config.LLMConfig `yaml:"llm" mapstructure:"llm"`
	CustomPrompt string           `yaml:"custom_prompt,omitempty" mapstructure:"custom_prompt"`
	MaxTags      int              `yaml:"max_tags,omitempty" mapstructure:"max_tags"`
}

// FromSection decodes a tagger Config out of the {type, config} section
// config.Setting.Tagger carries opaquely, mirroring the mapstructure
// decoding config.FromYAML applies to flow sections.
func FromSection(section *config.RawSection) (Config, error) {
	var cfg Config
	if section == nil {
		return cfg, nil
	}
	if section.Type != "" && section.Type != "llm" {
		return cfg, fmt.Errorf("tagger: unsupported type %q (only %q is implemented)", section.Type, "llm")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "yaml",
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(section.Config); err != nil {
		return cfg, fmt.Errorf("tagger: decode config: %w", err)
	}

	if cfg.MaxTags <= 0 {
		cfg.MaxTags = DefaultMaxTags
	}
	return cfg, nil
}
