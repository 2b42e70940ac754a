package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSimpleVar(t *testing.T) {
	tpl, err := Parse("Hello, {{ name }}!")
	require.NoError(t, err)

	out, err := tpl.Render(map[string]any{"name": "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", out)
}

func TestRenderMissingVariableRaises(t *testing.T) {
	tpl, err := Parse("Hello, {{ name }}!")
	require.NoError(t, err)

	_, err = tpl.Render(map[string]any{})
	require.Error(t, err)

	var missing *MissingVariableError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, "name", missing.Name)
}

func TestRenderAllowMissing(t *testing.T) {
	tpl, err := Parse("Hello, {{ name }}!")
	require.NoError(t, err)

	out, err := tpl.Render(map[string]any{}, AllowMissing())
	require.NoError(t, err)
	assert.Equal(t, "Hello, !", out)
}

func TestRenderIfElse(t *testing.T) {
	tpl, err := Parse("{% if active %}on{% else %}off{% endif %}")
	require.NoError(t, err)

	out, err := tpl.Render(map[string]any{"active": true})
	require.NoError(t, err)
	assert.Equal(t, "on", out)

	out, err = tpl.Render(map[string]any{"active": false})
	require.NoError(t, err)
	assert.Equal(t, "off", out)
}

func TestRenderIfNot(t *testing.T) {
	tpl, err := Parse("{% if not active %}off{% endif %}")
	require.NoError(t, err)

	out, err := tpl.Render(map[string]any{"active": false})
	require.NoError(t, err)
	assert.Equal(t, "off", out)
}

func TestRenderFor(t *testing.T) {
	tpl, err := Parse("{% for item in items %}[{{ item }}]{% endfor %}")
	require.NoError(t, err)

	out, err := tpl.Render(map[string]any{"items": []any{"a", "b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, "[a][b][c]", out)
}

func TestRenderForOverStrings(t *testing.T) {
	tpl, err := Parse("{% for tag in tags %}{{ tag }},{% endfor %}")
	require.NoError(t, err)

	out, err := tpl.Render(map[string]any{"tags": []string{"x", "y"}})
	require.NoError(t, err)
	assert.Equal(t, "x,y,", out)
}

func TestRenderNestedIfInFor(t *testing.T) {
	tpl, err := Parse("{% for item in items %}{% if item %}yes {% endif %}{% endfor %}")
	require.NoError(t, err)

	out, err := tpl.Render(map[string]any{"items": []any{true, false, true}})
	require.NoError(t, err)
	assert.Equal(t, "yes yes ", out)
}

func TestParseUnbalancedIfFails(t *testing.T) {
	_, err := Parse("{% if x %}hi")
	assert.Error(t, err)
}

func TestParseUnbalancedForFails(t *testing.T) {
	_, err := Parse("{% for x in items %}hi")
	assert.Error(t, err)
}

func TestParseUnexpectedEndIfFails(t *testing.T) {
	_, err := Parse("hi {% endif %}")
	assert.Error(t, err)
}

func TestDottedLookup(t *testing.T) {
	tpl, err := Parse("{{ item.title }}")
	require.NoError(t, err)

	out, err := tpl.Render(map[string]any{"item": map[string]any{"title": "Paper Title"}})
	require.NoError(t, err)
	assert.Equal(t, "Paper Title", out)
}
