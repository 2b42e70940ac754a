package tagger

import (
	"encoding/json"
	"regexp"
	"strings"
)

var quotedItem = regexp.MustCompile(`"([^"]+)"`)

// parseTags extracts a list of tag strings from an LLM's raw text response.
// It tries a direct JSON array decode first (the requested format); failing
// that, it extracts quoted substrings; failing that, it splits on commas.
func parseTags(text string) []string {
	if tags, ok := parseJSONArray(text); ok {
		return tags
	}
	if tags := quotedItem.FindAllStringSubmatch(text, -1); len(tags) > 0 {
		out := make([]string, 0, len(tags))
		for _, m := range tags {
			out = append(out, m[1])
		}
		return out
	}
	return strings.Split(text, ",")
}

func parseJSONArray(text string) ([]string, bool) {
	var raw []any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, false
	}
	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		tags = append(tags, s)
	}
	return tags, true
}

// normalizeTags strips whitespace, lowercases, and drops empty or
// single-character entries.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if len(normalized) < 2 {
			continue
		}
		out = append(out, normalized)
	}
	return out
}

// truncate keeps at most max entries, preserving order.
func truncate(tags []string, max int) []string {
	if max <= 0 || len(tags) <= max {
		return tags
	}
	return tags[:max]
}
