// Package tokens provides per-model token counting backed by tiktoken-go,
// used to estimate prompt size before an LLM call and decide whether a
// prompt needs trimming to fit a model's context window.
package tokens

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingCache = make(map[string]*tiktoken.Tiktoken)
	cacheMu       sync.RWMutex
)

// encodingForModel resolves (and caches) the tiktoken encoding for model,
// falling back to cl100k_base for models tiktoken-go doesn't recognize
// (Anthropic, Gemini, Ollama models all land here — an approximation, not
// an exact count, since none of those providers publish a public BPE
// vocabulary).
func encodingForModel(model string) (*tiktoken.Tiktoken, error) {
	cacheMu.RLock()
	cached, ok := encodingCache[model]
	cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding(encodingNameFor(model))
		if err != nil {
			return nil, err
		}
	}

	cacheMu.Lock()
	encodingCache[model] = encoding
	cacheMu.Unlock()
	return encoding, nil
}

// Count returns the number of tokens text encodes to under model's
// encoding. It returns (0, err) if tiktoken-go has no encoding registered
// at all (should not happen, since cl100k_base is always available).
func Count(model, text string) (int, error) {
	encoding, err := encodingForModel(model)
	if err != nil {
		return 0, err
	}
	return len(encoding.Encode(text, nil, nil)), nil
}

// CountOrEstimate is Count but never fails: on any tiktoken error it falls
// back to a rough 4-characters-per-token estimate.
func CountOrEstimate(model, text string) int {
	if n, err := Count(model, text); err == nil {
		return n
	}
	return len(text) / 4
}

// encodingNameFor maps a model name to a tiktoken base encoding by prefix,
// used when tiktoken-go has no exact entry for the model.
func encodingNameFor(model string) string {
	switch {
	case strings.HasPrefix(model, "gpt-4o"):
		return "o200k_base"
	case strings.HasPrefix(model, "gpt-4"), strings.HasPrefix(model, "gpt-3.5"):
		return "cl100k_base"
	default:
		return "cl100k_base"
	}
}
