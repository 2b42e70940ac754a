package tagger

import (
	"fmt"
	"log/slog"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/registry"
)

// Constructor builds a Tagger from its decoded {type, config} section.
type Constructor func(section *config.RawSection) (Tagger, error)

var taggerRegistry = registry.NewBaseRegistry[Constructor]()

func init() {
	if err := taggerRegistry.Register("llm", newLLMTaggerFromSection); err != nil {
		panic(err)
	}
}

// RegisterTagger registers a Tagger constructor under name, the extension
// point a non-LLM tagger uses to plug into config.Setting.Tagger the same
// way a flow config registers under config.RegisterFlowConfig.
func RegisterTagger(name string, ctor Constructor) error {
	if err := taggerRegistry.Register(name, ctor); err != nil {
		slog.Debug("tagger: overwriting registered constructor", "name", name)
		_ = taggerRegistry.Remove(name)
		return taggerRegistry.Register(name, ctor)
	}
	return nil
}

// New builds the Tagger named by section.Type (defaulting to "llm" when
// Type is empty), or returns (nil, nil) when section itself is nil —
// tagging is optional configuration.
func New(section *config.RawSection) (Tagger, error) {
	if section == nil {
		return nil, nil
	}

	typeName := section.Type
	if typeName == "" {
		typeName = "llm"
	}

	ctor, ok := taggerRegistry.Get(typeName)
	if !ok {
		return nil, fmt.Errorf("tagger: no tagger registered under type %q", typeName)
	}
	return ctor(section)
}

func newLLMTaggerFromSection(section *config.RawSection) (Tagger, error) {
	cfg, err := FromSection(section)
	if err != nil {
		return nil, err
	}
	return NewLLMTagger(cfg)
}
