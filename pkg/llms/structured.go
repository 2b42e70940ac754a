package llms

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var jsonObjectOrArray = regexp.MustCompile(`(?s)[\{\[].*[\}\]]`)

// ParseStructuredJSON parses text as a JSON object, first by direct
// unmarshal and, on failure, by taking the span from the first { or [ to
// the last } or ] and retrying — the fallback a provider's
// preamble/trailing commentary around the JSON payload requires. A JSON
// array found this way is returned wrapped as {"items": [...]}.
func ParseStructuredJSON(text string) (map[string]any, error) {
	var direct map[string]any
	if err := json.Unmarshal([]byte(text), &direct); err == nil {
		return direct, nil
	}

	match := jsonObjectOrArray.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("llms: no JSON object or array found in response")
	}

	var fallback map[string]any
	if err := json.Unmarshal([]byte(match), &fallback); err != nil {
		var arr []any
		if arrErr := json.Unmarshal([]byte(match), &arr); arrErr == nil {
			return map[string]any{"items": arr}, nil
		}
		return nil, fmt.Errorf("llms: extracted JSON candidate did not parse: %w", err)
	}

	return fallback, nil
}
