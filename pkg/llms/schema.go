package llms

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// BuildResponseSchema builds a JSON Schema document for a Go struct type
// via reflection, for callers that would rather supply a typed result
// shape than hand-write the map[string]any responseFormat.
//
// Usage: BuildResponseSchema(MyResultType{})
func BuildResponseSchema(shape any) (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:           true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(shape)

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("llms: build response schema: %w", err)
	}

	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, fmt.Errorf("llms: build response schema: %w", err)
	}

	return asMap, nil
}
