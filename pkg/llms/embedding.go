package llms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/httpclient"
)

// EmbeddingBlock is the embedding-side equivalent of LLMBlock.
type EmbeddingBlock struct {
	cfg      config.EmbeddingConfig
	provider EmbeddingProvider
}

// NewEmbeddingBlock resolves cfg's embedding provider from the registry.
func NewEmbeddingBlock(cfg config.EmbeddingConfig) (*EmbeddingBlock, error) {
	providerType := cfg.ProviderType()
	setProviderEnv(providerType, cfg.ResolveAPIKey())

	client := httpclient.New(
		httpclient.WithMaxRetries(2),
		httpclient.WithHeaderParser(rateLimitParserFor(providerType)),
	)

	provider, err := newEmbeddingProvider(providerType, client)
	if err != nil {
		return nil, fmt.Errorf("llms: new embedding block: %w", err)
	}

	return &EmbeddingBlock{cfg: cfg, provider: provider}, nil
}

func (b *EmbeddingBlock) callOptions() CallOptions {
	return CallOptions{
		Model:   b.cfg.Model,
		BaseURL: b.cfg.BaseURL,
		APIKey:  b.cfg.ResolveAPIKey(),
	}
}

// GenerateEmbedding embeds a single text, returning (nil, false) on
// failure after logging the error.
func (b *EmbeddingBlock) GenerateEmbedding(ctx context.Context, text string) ([]float64, bool) {
	embeddings, ok := b.GenerateEmbeddings(ctx, []string{text})
	if !ok || len(embeddings) == 0 {
		return nil, false
	}
	return embeddings[0], true
}

// GenerateEmbeddings embeds a batch of texts in one request.
func (b *EmbeddingBlock) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float64, bool) {
	embeddings, err := b.provider.GenerateEmbeddings(ctx, texts, b.callOptions())
	if err != nil {
		slog.Error("llms: generate embeddings failed", "model", b.cfg.Model, "count", len(texts), "error", err)
		return nil, false
	}
	return embeddings, true
}

// BatchEmbed embeds texts in fixed-size batches, sleeping cfg.RetryDelaySeconds
// between batches (when set) to stay under provider rate limits. Results
// preserve input order across batch boundaries.
func (b *EmbeddingBlock) BatchEmbed(ctx context.Context, texts []string, batchSize int) ([][]float64, bool) {
	if batchSize <= 0 {
		batchSize = len(texts)
	}
	if batchSize == 0 {
		return nil, true
	}

	delay := time.Duration(b.cfg.RetryDelaySeconds * float64(time.Second))
	var result [][]float64

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		embeddings, ok := b.GenerateEmbeddings(ctx, texts[start:end])
		if !ok {
			return nil, false
		}
		result = append(result, embeddings...)

		if end < len(texts) && delay > 0 {
			select {
			case <-ctx.Done():
				return nil, false
			case <-time.After(delay):
			}
		}
	}

	return result, true
}
