package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTagsFromJSONArray(t *testing.T) {
	tags := parseTags(`["machine learning", "NLP", "transformers"]`)
	assert.Equal(t, []string{"machine learning", "NLP", "transformers"}, tags)
}

func TestParseTagsFallsBackToQuotedItems(t *testing.T) {
	tags := parseTags(`Here are the tags: "ml", "nlp", "transformers".`)
	assert.Equal(t, []string{"ml", "nlp", "transformers"}, tags)
}

func TestParseTagsFallsBackToCommaSeparated(t *testing.T) {
	tags := parseTags("ml, nlp, transformers")
	assert.Equal(t, []string{"ml", " nlp", " transformers"}, tags)
}

func TestNormalizeTagsDropsEmptyAndSingleChar(t *testing.T) {
	tags := normalizeTags([]string{" ML ", "a", "", "NLP", "x "})
	assert.Equal(t, []string{"ml", "nlp"}, tags)
}

func TestTruncateKeepsOrderAndLimit(t *testing.T) {
	tags := truncate([]string{"a", "b", "c", "d"}, 2)
	assert.Equal(t, []string{"a", "b"}, tags)
}

func TestTruncateNoLimitReturnsUnchanged(t *testing.T) {
	tags := truncate([]string{"a", "b"}, 0)
	assert.Equal(t, []string{"a", "b"}, tags)
}
