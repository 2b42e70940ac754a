package model

import (
	"encoding/json"
	"fmt"
)

// typePeek reads only the discriminator field out of a knowledge JSON blob.
type typePeek struct {
	ContentType ContentType `json:"content_type"`
}

// Decode deserializes a knowledge JSON blob into the concrete KnowledgeItem
// subtype named by its content_type field, satisfying the round-trip
// invariant Decode(Encode(x)) == x for every subtype.
func Decode(data []byte) (KnowledgeItem, error) {
	var peek typePeek
	if err := json.Unmarshal(data, &peek); err != nil {
		return nil, fmt.Errorf("model: decode content_type: %w", err)
	}

	switch peek.ContentType {
	case ContentTypePaper:
		p := &Paper{}
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("model: decode paper: %w", err)
		}
		return p, nil
	case ContentTypeSearch:
		s := &SearchContent{}
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("model: decode search content: %w", err)
		}
		return s, nil
	default:
		b := &BaseItem{}
		if err := json.Unmarshal(data, b); err != nil {
			return nil, fmt.Errorf("model: decode generic item: %w", err)
		}
		return b, nil
	}
}

// Encode serializes a KnowledgeItem to its canonical JSON representation
// (UTF-8, 2-space indent), used for every write under knowledges/.
func Encode(item KnowledgeItem) ([]byte, error) {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("model: encode: %w", err)
	}
	return data, nil
}
