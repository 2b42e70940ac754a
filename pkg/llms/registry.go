package llms

import (
	"fmt"
	"sync"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/httpclient"
)

// ProviderConstructor builds a Provider bound to one HTTP client, mirroring
// the teacher's registry.go constructor-registry shape (pkg/llms/registry.go
// in the original), keyed by config.ProviderType instead of by name string.
type ProviderConstructor func(client *httpclient.Client) Provider

// EmbeddingConstructor is the embedding-side equivalent of ProviderConstructor.
type EmbeddingConstructor func(client *httpclient.Client) EmbeddingProvider

var providerRegistry = struct {
	mu    sync.RWMutex
	ctors map[config.ProviderType]ProviderConstructor
}{
	ctors: map[config.ProviderType]ProviderConstructor{
		config.ProviderOpenAI:    func(c *httpclient.Client) Provider { return &openAIProvider{client: c} },
		config.ProviderAzure:     func(c *httpclient.Client) Provider { return &openAIProvider{client: c} },
		config.ProviderAnthropic: func(c *httpclient.Client) Provider { return &anthropicProvider{client: c} },
		config.ProviderGoogle:    func(c *httpclient.Client) Provider { return &geminiProvider{client: c} },
		config.ProviderOllama:    func(c *httpclient.Client) Provider { return &ollamaProvider{client: c} },
	},
}

var embeddingRegistry = struct {
	mu    sync.RWMutex
	ctors map[config.ProviderType]EmbeddingConstructor
}{
	ctors: map[config.ProviderType]EmbeddingConstructor{
		config.ProviderOpenAI: func(c *httpclient.Client) EmbeddingProvider { return &openAIProvider{client: c} },
		config.ProviderAzure:  func(c *httpclient.Client) EmbeddingProvider { return &openAIProvider{client: c} },
		config.ProviderOllama: func(c *httpclient.Client) EmbeddingProvider { return &ollamaProvider{client: c} },
	},
}

// RegisterProvider lets a plugin add or override a text-generation provider
// constructor for a provider type.
func RegisterProvider(provider config.ProviderType, ctor ProviderConstructor) {
	providerRegistry.mu.Lock()
	defer providerRegistry.mu.Unlock()
	providerRegistry.ctors[provider] = ctor
}

func newProvider(provider config.ProviderType, client *httpclient.Client) (Provider, error) {
	providerRegistry.mu.RLock()
	defer providerRegistry.mu.RUnlock()

	ctor, ok := providerRegistry.ctors[provider]
	if !ok {
		return nil, fmt.Errorf("llms: no provider registered for %q", provider)
	}
	return ctor(client), nil
}

func newEmbeddingProvider(provider config.ProviderType, client *httpclient.Client) (EmbeddingProvider, error) {
	embeddingRegistry.mu.RLock()
	defer embeddingRegistry.mu.RUnlock()

	ctor, ok := embeddingRegistry.ctors[provider]
	if !ok {
		return nil, fmt.Errorf("llms: no embedding provider registered for %q", provider)
	}
	return ctor(client), nil
}
