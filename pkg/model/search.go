package model

// SearchContent is a KnowledgeItem subtype for web search results and
// snippets.
type SearchContent struct {
	BaseItem

	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	Query   string `json:"query,omitempty"`
}

// NewSearchContent constructs a SearchContent with its content type already
// set so it deserializes back into this subtype.
func NewSearchContent() *SearchContent {
	return &SearchContent{BaseItem: BaseItem{ContentType: ContentTypeSearch}}
}

// GetContentType implements KnowledgeItem.
func (s *SearchContent) GetContentType() ContentType { return ContentTypeSearch }

// Base implements KnowledgeItem.
func (s *SearchContent) Base() *BaseItem { return &s.BaseItem }

// GetPrimaryID implements KnowledgeItem: the source URL, when present, else
// the shared source+title hash fallback.
func (s *SearchContent) GetPrimaryID() string {
	if s.URL != "" {
		return s.URL
	}
	return HashIdentity(s.Source, s.Title)
}

// GetTextForEmbedding implements KnowledgeItem as title + snippet, per
// spec.
func (s *SearchContent) GetTextForEmbedding() string {
	if s.Snippet != "" {
		return s.Title + " " + s.Snippet
	}
	return s.Title
}
