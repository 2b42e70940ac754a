package flow

import (
	"context"
	"errors"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/llms"
	"github.com/llmquant/quantmind/pkg/template"
)

// stubProvider is a minimal llms.Provider used to drive flow tests without
// any network access.
type stubProvider struct {
	response string
	fail     bool
}

func (s *stubProvider) GenerateText(ctx context.Context, messages []llms.Message, opts llms.CallOptions) (string, error) {
	if s.fail {
		return "", errors.New("stub provider: forced failure")
	}
	return s.response, nil
}

func newStubBlock(response string, fail bool) *llms.LLMBlock {
	cfg := config.DefaultLLMConfig("stub-model")
	cfg.RetryAttempts = 0
	return llms.NewLLMBlockWithProvider(cfg, &stubProvider{response: response, fail: fail})
}

func newTestBaseFlow(name string, blocks map[string]*llms.LLMBlock, templates map[string]string) *BaseFlow {
	compiled := make(map[string]*template.Template, len(templates))
	for n, src := range templates {
		compiled[n] = template.MustParse(src)
	}
	return &BaseFlow{name: name, blocks: blocks, templates: compiled}
}
