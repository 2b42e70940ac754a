package template

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenVar
	tokenIf
	tokenElse
	tokenEndIf
	tokenFor
	tokenEndFor
)

type token struct {
	kind  tokenKind
	text  string // raw text (tokenText) or expression (tokenVar/tokenIf)
	iterVar, listVar string // populated for tokenFor
}

// lex scans source into a flat token stream. Nesting of if/for blocks is
// resolved afterwards by parseNodes.
func lex(source string) ([]token, error) {
	var tokens []token
	rest := source

	for {
		varIdx := strings.Index(rest, "{{")
		tagIdx := strings.Index(rest, "{%")

		nextIdx := -1
		isVar := false
		switch {
		case varIdx == -1 && tagIdx == -1:
			if rest != "" {
				tokens = append(tokens, token{kind: tokenText, text: rest})
			}
			return tokens, nil
		case varIdx == -1:
			nextIdx, isVar = tagIdx, false
		case tagIdx == -1:
			nextIdx, isVar = varIdx, true
		case varIdx < tagIdx:
			nextIdx, isVar = varIdx, true
		default:
			nextIdx, isVar = tagIdx, false
		}

		if nextIdx > 0 {
			tokens = append(tokens, token{kind: tokenText, text: rest[:nextIdx]})
		}
		rest = rest[nextIdx:]

		if isVar {
			end := strings.Index(rest, "}}")
			if end == -1 {
				return nil, fmt.Errorf("template: unterminated {{ ... }}")
			}
			expr := strings.TrimSpace(rest[2:end])
			if expr == "" {
				return nil, fmt.Errorf("template: empty {{ }} expression")
			}
			tokens = append(tokens, token{kind: tokenVar, text: expr})
			rest = rest[end+2:]
			continue
		}

		end := strings.Index(rest, "%}")
		if end == -1 {
			return nil, fmt.Errorf("template: unterminated {%% ... %%}")
		}
		stmt := strings.TrimSpace(rest[2:end])
		rest = rest[end+2:]

		tok, err := parseStatement(stmt)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

func parseStatement(stmt string) (token, error) {
	switch {
	case stmt == "else":
		return token{kind: tokenElse}, nil
	case stmt == "endif":
		return token{kind: tokenEndIf}, nil
	case stmt == "endfor":
		return token{kind: tokenEndFor}, nil
	case strings.HasPrefix(stmt, "if "):
		cond := strings.TrimSpace(strings.TrimPrefix(stmt, "if "))
		if cond == "" {
			return token{}, fmt.Errorf("template: empty if condition")
		}
		return token{kind: tokenIf, text: cond}, nil
	case strings.HasPrefix(stmt, "for "):
		body := strings.TrimSpace(strings.TrimPrefix(stmt, "for "))
		parts := strings.SplitN(body, " in ", 2)
		if len(parts) != 2 {
			return token{}, fmt.Errorf("template: malformed for statement %q, want 'for x in list'", stmt)
		}
		iterVar := strings.TrimSpace(parts[0])
		listVar := strings.TrimSpace(parts[1])
		if iterVar == "" || listVar == "" {
			return token{}, fmt.Errorf("template: malformed for statement %q", stmt)
		}
		return token{kind: tokenFor, iterVar: iterVar, listVar: listVar}, nil
	default:
		return token{}, fmt.Errorf("template: unrecognized statement %q", stmt)
	}
}
