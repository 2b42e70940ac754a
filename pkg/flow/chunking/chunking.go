// Package chunking splits long content into pieces for SummaryFlow's map
// stage. BY_SIZE is built in; BY_CUSTOM strategies are registered by name,
// since config.SummaryFlowConfig's chunk_custom_strategy field cannot
// carry a Go closure across a YAML boundary (the open question spec.md
// leaves unresolved is settled here: serialization is forbidden, a
// registered name is required).
package chunking

import (
	"fmt"
	"strings"

	"github.com/llmquant/quantmind/pkg/registry"
)

// Chunker splits text into pieces no longer than chunkSize runes where
// possible, preferring to break on whitespace.
type Chunker func(text string, chunkSize int) []string

var customChunkers = registry.NewBaseRegistry[Chunker]()

// RegisterChunker registers a BY_CUSTOM chunking strategy under name, the
// only way a chunk_custom_strategy value in config resolves to actual
// code.
func RegisterChunker(name string, chunker Chunker) error {
	return customChunkers.Register(name, chunker)
}

// Resolve looks up a registered custom chunker by name.
func Resolve(name string) (Chunker, error) {
	chunker, ok := customChunkers.Get(name)
	if !ok {
		return nil, fmt.Errorf("chunking: no chunker registered under %q", name)
	}
	return chunker, nil
}

// BySize walks text with a fixed stride of chunkSize runes: the i-th window
// is always text[i*chunkSize : i*chunkSize+chunkSize], never adjusted by a
// previous window's trim. For every non-final chunk, the window is trimmed
// back to its last whitespace boundary when that boundary lies past the
// window's midpoint (so a chunk never loses more than half its size to the
// trim); each resulting piece is stripped of leading/trailing whitespace.
// Because the stride never shifts to the trim point, content between a
// trim point and the next fixed-stride boundary is dropped — this mirrors
// the original implementation's behavior and is not a bug.
func BySize(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		if text == "" {
			return nil
		}
		return []string{strings.TrimSpace(text)}
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		final := end >= len(runes)
		if final {
			end = len(runes)
		}

		window := runes[start:end]
		consumed := len(window)

		if !final {
			if breakAt := lastWhitespace(window); breakAt > len(window)/2 {
				consumed = breakAt
			}
		}

		piece := strings.TrimSpace(string(window[:consumed]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
	}

	return chunks
}

func lastWhitespace(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if isWhitespace(window[i]) {
			return i
		}
	}
	return -1
}

func isWhitespace(r rune) bool {
	return strings.ContainsRune(" \t\n\r", r)
}
