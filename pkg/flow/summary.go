package flow

import (
	"context"
	"strings"
	"sync"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/flow/chunking"
	"github.com/llmquant/quantmind/pkg/model"
	"golang.org/x/sync/errgroup"
)

const (
	noContentMessage        = "No content available for summarization."
	singleCallFailureText   = "Failed to generate summary."
	zeroChunkSummariesText  = "Failed to summarize content."
	combineFailureText      = "Failed to generate final summary."
	maxConcurrentSummarizes = 4
)

// SummaryFlow maps a KnowledgeItem's content to a summary, optionally
// chunking long content and combining per-chunk summaries.
type SummaryFlow struct {
	*BaseFlow
	cfg *config.SummaryFlowConfig
}

// NewSummaryFlow builds a SummaryFlow from cfg.
func NewSummaryFlow(cfg *config.SummaryFlowConfig) (*SummaryFlow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := newBaseFlow(&cfg.BaseFlowConfig)
	if err != nil {
		return nil, err
	}
	return &SummaryFlow{BaseFlow: base, cfg: cfg}, nil
}

// Run summarizes item's content per the flow's configured chunking
// strategy. It never returns a non-nil error for an LLM failure — those
// degrade to fixed fallback text — only for a configuration problem
// (missing template/block name, unresolved custom chunker).
func (f *SummaryFlow) Run(ctx context.Context, item model.KnowledgeItem) (string, error) {
	content := item.Base().Content
	if content == "" {
		return noContentMessage, nil
	}

	if !f.cfg.UseChunking {
		return f.summarizeWhole(ctx, content)
	}

	chunks, err := f.splitContent(content)
	if err != nil {
		return "", err
	}

	summaries, err := f.summarizeChunks(ctx, chunks)
	if err != nil {
		return "", err
	}

	switch len(summaries) {
	case 0:
		return zeroChunkSummariesText, nil
	case 1:
		return summaries[0], nil
	default:
		return f.combineSummaries(ctx, summaries)
	}
}

func (f *SummaryFlow) summarizeWhole(ctx context.Context, content string) (string, error) {
	prompt, err := f.RenderPrompt("summarize_chunk_template", map[string]any{"chunk_text": content})
	if err != nil {
		return "", err
	}

	block, err := f.Block("powerful_combiner")
	if err != nil {
		return "", err
	}
	if block == nil {
		return singleCallFailureText, nil
	}

	result, ok := block.GenerateText(ctx, prompt, block.Config().SystemPrompt)
	if !ok {
		return singleCallFailureText, nil
	}
	return result, nil
}

func (f *SummaryFlow) splitContent(content string) ([]string, error) {
	switch f.cfg.ChunkStrategy {
	case "", config.ChunkStrategyBySize:
		return chunking.BySize(content, f.cfg.ChunkSize), nil
	case config.ChunkStrategyByCustom:
		chunker, err := chunking.Resolve(f.cfg.ChunkCustomStrategy)
		if err != nil {
			return nil, err
		}
		return chunker(content, f.cfg.ChunkSize), nil
	default:
		// config.SummaryFlowConfig.Validate already rejects BY_SECTION at
		// construction time; this branch is unreachable at run time.
		return chunking.BySize(content, f.cfg.ChunkSize), nil
	}
}

// summarizeChunks renders and calls cheap_summarizer for every chunk,
// bounded-parallel, preserving original chunk order in the returned slice
// (only non-empty results are kept, in order).
func (f *SummaryFlow) summarizeChunks(ctx context.Context, chunks []string) ([]string, error) {
	block, err := f.Block("cheap_summarizer")
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, nil
	}

	results := make([]string, len(chunks))
	ok := make([]bool, len(chunks))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentSummarizes)

	var mu sync.Mutex
	for i, chunk := range chunks {
		i, chunk := i, chunk
		group.Go(func() error {
			prompt, err := f.RenderPrompt("summarize_chunk_template", map[string]any{"chunk_text": chunk})
			if err != nil {
				return err
			}
			text, success := block.GenerateText(gctx, prompt, block.Config().SystemPrompt)
			if success && text != "" {
				mu.Lock()
				results[i] = text
				ok[i] = true
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]string, 0, len(chunks))
	for i, text := range results {
		if ok[i] {
			summaries = append(summaries, text)
		}
	}
	return summaries, nil
}

func (f *SummaryFlow) combineSummaries(ctx context.Context, summaries []string) (string, error) {
	prompt, err := f.RenderPrompt("combine_summaries_template", map[string]any{
		"summaries": strings.Join(summaries, "\n\n"),
	})
	if err != nil {
		return "", err
	}

	block, err := f.Block("powerful_combiner")
	if err != nil {
		return "", err
	}
	if block == nil {
		return combineFailureText, nil
	}

	result, success := block.GenerateText(ctx, prompt, block.Config().SystemPrompt)
	if !success {
		return combineFailureText, nil
	}
	return result, nil
}
