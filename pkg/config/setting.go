package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LogLevel is one of the spec's five textual log levels.
type LogLevel string

const (
	LogLevelDebug    LogLevel = "DEBUG"
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
)

// SlogLevel maps LogLevel onto log/slog's level scale. log/slog has no
// level above Error, so CRITICAL maps to LevelError; callers that need to
// distinguish it should check IsCritical.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError, LogLevelCritical:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsCritical reports whether the level is the CRITICAL level, which slog
// cannot represent directly.
func (l LogLevel) IsCritical() bool { return l == LogLevelCritical }

// LocalStorageConfig configures the indexed local file store.
type LocalStorageConfig struct {
	StorageDir      string `yaml:"storage_dir" json:"storage_dir"`
	DownloadTimeout int    `yaml:"download_timeout,omitempty" json:"download_timeout,omitempty"`
}

// typedSection is the {type, config} envelope every top-level component
// section in the YAML file uses.
type typedSection struct {
	Type   string `yaml:"type"`
	Config any    `yaml:"config"`
}

// Setting is the root configuration, decoded from a single YAML file.
// Source and Parser sections are carried opaquely: this implementation's
// component set covers configuration, LLM blocks, storage, flow runtime,
// and the LLM tagger, not the source/parser ingestion adapters referenced
// by the canonical YAML shape in spec.md §6.
type Setting struct {
	Source  *RawSection
	Parser  *RawSection
	Tagger  *RawSection
	Storage LocalStorageConfig
	Flows   map[string]FlowConfig
	LLM     LLMConfig
	LogLevel LogLevel
}

// RawSection preserves a {type, config} section this implementation does
// not model as a typed struct, so SaveToYAML can round-trip it unchanged.
type RawSection struct {
	Type   string
	Config any
}

// FromYAML loads and resolves a Setting from a YAML file at path:
//  1. optionally auto-discover and load a .env file,
//  2. parse the YAML into a generic tree,
//  3. recursively substitute ${VAR} / ${VAR:default} in every string leaf,
//  4. resolve the flows section against the flow config registry,
//  5. decode storage into its typed shape and keep source/parser/tagger
//     as raw {type, config} sections.
func FromYAML(path string, loadEnv bool) (*Setting, error) {
	if loadEnv {
		if err := LoadEnvFile(); err != nil {
			return nil, fmt.Errorf("config: load env file: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	expanded, ok := ExpandEnvVarsInTree(tree).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config: %s: top level must be a mapping", path)
	}

	setting := &Setting{}

	if raw, exists := expanded["log_level"]; exists {
		level, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("config: log_level must be a string")
		}
		setting.LogLevel = LogLevel(level)
	}

	if raw, exists := expanded["llm"]; exists {
		if err := decodeInto(raw, &setting.LLM); err != nil {
			return nil, fmt.Errorf("config: llm: %w", err)
		}
	}

	if raw, exists := expanded["storage"]; exists {
		section, err := decodeTypedSection(raw)
		if err != nil {
			return nil, fmt.Errorf("config: storage: %w", err)
		}
		if section.Type != "" && section.Type != "local" {
			return nil, fmt.Errorf("config: storage: unsupported type %q (only %q is implemented)", section.Type, "local")
		}
		if err := decodeInto(section.Config, &setting.Storage); err != nil {
			return nil, fmt.Errorf("config: storage: %w", err)
		}
	}

	for _, name := range []string{"source", "parser", "tagger"} {
		raw, exists := expanded[name]
		if !exists {
			continue
		}
		section, err := decodeTypedSection(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", name, err)
		}
		rs := &RawSection{Type: section.Type, Config: section.Config}
		switch name {
		case "source":
			setting.Source = rs
		case "parser":
			setting.Parser = rs
		case "tagger":
			setting.Tagger = rs
		}
	}

	if raw, exists := expanded["flows"]; exists {
		flowsTree, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("config: flows: must be a mapping")
		}
		setting.Flows = make(map[string]FlowConfig, len(flowsTree))
		for flowName, flowRaw := range flowsTree {
			section, err := decodeTypedSection(flowRaw)
			if err != nil {
				return nil, fmt.Errorf("config: flows.%s: %w", flowName, err)
			}
			factory, err := lookupFlowFactory(section.Type)
			if err != nil {
				return nil, fmt.Errorf("config: flows.%s: %w", flowName, err)
			}
			flowCfg := factory()
			if err := decodeInto(section.Config, flowCfg); err != nil {
				return nil, fmt.Errorf("config: flows.%s: %w", flowName, err)
			}
			if flowCfg.Base().Name == "" {
				flowCfg.Base().Name = flowName
			}
			if err := flowCfg.Base().resolveTemplatesPath(); err != nil {
				return nil, err
			}
			if summary, ok := flowCfg.(*SummaryFlowConfig); ok {
				summary.applyDefaults()
				if err := summary.Validate(); err != nil {
					return nil, err
				}
			}
			setting.Flows[flowName] = flowCfg
		}
	}

	return setting, nil
}

func decodeTypedSection(raw any) (typedSection, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return typedSection{}, fmt.Errorf("section must be a mapping")
	}
	section := typedSection{}
	if t, ok := m["type"].(string); ok {
		section.Type = t
	}
	section.Config = m["config"]
	return section, nil
}

func decodeInto(raw any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "yaml",
		Squash:           true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// SaveToYAML writes the config back to path, stripping api_key fields and
// rendering it as plain YAML, per spec.md §6's export rule.
func (s *Setting) SaveToYAML(path string) error {
	out := map[string]any{
		"log_level": string(s.LogLevel),
	}

	llm := s.LLM
	llm.APIKey = ""
	out["llm"] = llm

	out["storage"] = map[string]any{
		"type":   "local",
		"config": s.Storage,
	}

	if s.Source != nil {
		out["source"] = map[string]any{"type": s.Source.Type, "config": s.Source.Config}
	}
	if s.Parser != nil {
		out["parser"] = map[string]any{"type": s.Parser.Type, "config": s.Parser.Config}
	}
	if s.Tagger != nil {
		out["tagger"] = map[string]any{"type": s.Tagger.Type, "config": s.Tagger.Config}
	}

	if len(s.Flows) > 0 {
		flows := make(map[string]any, len(s.Flows))
		for name, flowCfg := range s.Flows {
			stripped := stripAPIKeys(flowCfg)
			flows[name] = map[string]any{
				"type":   flowTypeName(flowCfg),
				"config": stripped,
			}
		}
		out["flows"] = flows
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	return writeFileAtomic(path, data)
}

func flowTypeName(cfg FlowConfig) string {
	switch cfg.(type) {
	case *SummaryFlowConfig:
		return "summary"
	default:
		return "base"
	}
}

func stripAPIKeys(cfg FlowConfig) any {
	switch c := cfg.(type) {
	case *SummaryFlowConfig:
		clone := *c
		clone.LLMBlocks = stripBlockKeys(c.LLMBlocks)
		return clone
	case *BaseFlowConfig:
		clone := *c
		clone.LLMBlocks = stripBlockKeys(c.LLMBlocks)
		return clone
	default:
		return cfg
	}
}

func stripBlockKeys(blocks map[string]LLMConfig) map[string]LLMConfig {
	if blocks == nil {
		return nil
	}
	stripped := make(map[string]LLMConfig, len(blocks))
	for name, block := range blocks {
		block.APIKey = ""
		stripped[name] = block
	}
	return stripped
}
