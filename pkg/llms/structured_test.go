package llms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuredJSONDirect(t *testing.T) {
	got, err := ParseStructuredJSON(`{"tags": ["a", "b"]}`)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got["tags"])
}

func TestParseStructuredJSONFallbackExtraction(t *testing.T) {
	text := "Sure, here you go:\n```json\n{\"tags\": [\"a\"]}\n```\nLet me know if that helps."
	got, err := ParseStructuredJSON(text)
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, got["tags"])
}

func TestParseStructuredJSONFallbackArray(t *testing.T) {
	text := "the tags are: [\"x\", \"y\", \"z\"]"
	got, err := ParseStructuredJSON(text)
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y", "z"}, got["items"])
}

func TestParseStructuredJSONNoMatch(t *testing.T) {
	_, err := ParseStructuredJSON("no json here at all")
	assert.Error(t, err)
}
