package template

import (
	"fmt"
	"strings"
)

type node interface {
	render(vars map[string]any, cfg *renderConfig, sb *strings.Builder) error
}

type textNode struct{ text string }

func (n *textNode) render(_ map[string]any, _ *renderConfig, sb *strings.Builder) error {
	sb.WriteString(n.text)
	return nil
}

type varNode struct{ name string }

func (n *varNode) render(vars map[string]any, cfg *renderConfig, sb *strings.Builder) error {
	value, ok := lookup(vars, n.name)
	if !ok {
		if cfg.allowMissing {
			return nil
		}
		return &MissingVariableError{Name: n.name}
	}
	sb.WriteString(stringify(value))
	return nil
}

type ifNode struct {
	cond        string
	negate      bool
	thenNodes   []node
	elseNodes   []node
}

func (n *ifNode) render(vars map[string]any, cfg *renderConfig, sb *strings.Builder) error {
	value, ok := lookup(vars, n.cond)
	truthy := ok && isTruthy(value)
	if n.negate {
		truthy = !truthy
	}

	if truthy {
		return renderNodes(n.thenNodes, vars, cfg, sb)
	}
	return renderNodes(n.elseNodes, vars, cfg, sb)
}

type forNode struct {
	iterVar string
	listVar string
	body    []node
}

func (n *forNode) render(vars map[string]any, cfg *renderConfig, sb *strings.Builder) error {
	listValue, ok := lookup(vars, n.listVar)
	if !ok {
		if cfg.allowMissing {
			return nil
		}
		return &MissingVariableError{Name: n.listVar}
	}

	items, err := toSlice(listValue)
	if err != nil {
		return fmt.Errorf("template: for %s in %s: %w", n.iterVar, n.listVar, err)
	}

	for _, item := range items {
		scoped := make(map[string]any, len(vars)+1)
		for k, v := range vars {
			scoped[k] = v
		}
		scoped[n.iterVar] = item

		if err := renderNodes(n.body, scoped, cfg, sb); err != nil {
			return err
		}
	}
	return nil
}

func renderNodes(nodes []node, vars map[string]any, cfg *renderConfig, sb *strings.Builder) error {
	for _, n := range nodes {
		if err := n.render(vars, cfg, sb); err != nil {
			return err
		}
	}
	return nil
}

// parseNodes builds a node tree from a flat token stream, stopping (and
// returning the remainder) when it hits a tokenElse/tokenEndIf/tokenEndFor
// that the caller is responsible for consuming.
func parseNodes(tokens []token) ([]node, []token, error) {
	var nodes []node

	for len(tokens) > 0 {
		tok := tokens[0]

		switch tok.kind {
		case tokenText:
			nodes = append(nodes, &textNode{text: tok.text})
			tokens = tokens[1:]

		case tokenVar:
			nodes = append(nodes, &varNode{name: tok.text})
			tokens = tokens[1:]

		case tokenElse, tokenEndIf, tokenEndFor:
			return nodes, tokens, nil

		case tokenIf:
			cond := tok.text
			negate := false
			if strings.HasPrefix(cond, "not ") {
				negate = true
				cond = strings.TrimSpace(strings.TrimPrefix(cond, "not "))
			}

			thenNodes, remainder, err := parseNodes(tokens[1:])
			if err != nil {
				return nil, nil, err
			}
			if len(remainder) == 0 {
				return nil, nil, fmt.Errorf("template: {%% if %s %%} missing {%% endif %%}", tok.text)
			}

			var elseNodes []node
			switch remainder[0].kind {
			case tokenElse:
				elseNodes, remainder, err = parseNodes(remainder[1:])
				if err != nil {
					return nil, nil, err
				}
				if len(remainder) == 0 || remainder[0].kind != tokenEndIf {
					return nil, nil, fmt.Errorf("template: {%% if %s %%} missing {%% endif %%}", tok.text)
				}
				remainder = remainder[1:]
			case tokenEndIf:
				remainder = remainder[1:]
			default:
				return nil, nil, fmt.Errorf("template: {%% if %s %%} missing {%% endif %%}", tok.text)
			}

			nodes = append(nodes, &ifNode{cond: cond, negate: negate, thenNodes: thenNodes, elseNodes: elseNodes})
			tokens = remainder

		case tokenFor:
			body, remainder, err := parseNodes(tokens[1:])
			if err != nil {
				return nil, nil, err
			}
			if len(remainder) == 0 || remainder[0].kind != tokenEndFor {
				return nil, nil, fmt.Errorf("template: {%% for %s in %s %%} missing {%% endfor %%}", tok.iterVar, tok.listVar)
			}
			nodes = append(nodes, &forNode{iterVar: tok.iterVar, listVar: tok.listVar, body: body})
			tokens = remainder[1:]

		default:
			return nil, nil, fmt.Errorf("template: unknown token kind %d", tok.kind)
		}
	}

	return nodes, nil, nil
}
