// Package template implements a small Jinja-flavored renderer: bare
// "{{ var }}" substitution (not Go text/template's "{{.Var}}" dot-access),
// "{% if %}"/"{% for %}" blocks, and missing-variable-raises-by-default
// semantics. No example repo in the retrieved pack carries a Jinja,
// Mustache, or Handlebars dependency, so this is written against the
// standard library only.
package template

import (
	"fmt"
	"strings"
)

// MissingVariableError reports a variable referenced by the template but
// absent from the render-time variable map.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template: missing variable %q", e.Name)
}

// Template is a parsed, render-ready template.
type Template struct {
	source string
	nodes  []node
}

// Parse compiles source into a Template. It does not evaluate any
// variables; errors here are structural (unbalanced if/for, bad tag
// syntax).
func Parse(source string) (*Template, error) {
	tokens, err := lex(source)
	if err != nil {
		return nil, err
	}

	nodes, rest, err := parseNodes(tokens)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("template: unexpected %q with no matching block start", rest[0].text)
	}

	return &Template{source: source, nodes: nodes}, nil
}

// MustParse is Parse but panics on error, for default templates known to
// be well-formed at compile time.
func MustParse(source string) *Template {
	t, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return t
}

// Render evaluates the template against vars. By default, a variable
// referenced in the template but missing from vars raises
// *MissingVariableError; pass AllowMissing() to return empty strings for
// those instead.
func (t *Template) Render(vars map[string]any, opts ...RenderOption) (string, error) {
	cfg := renderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var sb strings.Builder
	if err := renderNodes(t.nodes, vars, &cfg, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderOption configures a single Render call.
type RenderOption func(*renderConfig)

type renderConfig struct {
	allowMissing bool
}

// AllowMissing makes a missing variable render as an empty string instead
// of raising MissingVariableError.
func AllowMissing() RenderOption {
	return func(c *renderConfig) { c.allowMissing = true }
}

// Source returns the original, unparsed template text.
func (t *Template) Source() string { return t.source }
