package model

import "time"

// Paper is a KnowledgeItem subtype for academic papers (e.g. arXiv).
type Paper struct {
	BaseItem

	ArxivID         string    `json:"arxiv_id,omitempty"`
	PDFURL          string    `json:"pdf_url,omitempty"`
	PublishedDate   time.Time `json:"published_date,omitempty"`
	PrimaryCategory string    `json:"primary_category,omitempty"`
}

// NewPaper constructs a Paper with its content type already set so it
// deserializes back into this subtype.
func NewPaper() *Paper {
	return &Paper{BaseItem: BaseItem{ContentType: ContentTypePaper}}
}

// GetContentType implements KnowledgeItem.
func (p *Paper) GetContentType() ContentType { return ContentTypePaper }

// Base implements KnowledgeItem.
func (p *Paper) Base() *BaseItem { return &p.BaseItem }

// GetPrimaryID implements KnowledgeItem: the arXiv ID when present, else the
// shared source+title hash fallback.
func (p *Paper) GetPrimaryID() string {
	if p.ArxivID != "" {
		return p.ArxivID
	}
	return HashIdentity(p.Source, p.Title)
}

// GetTextForEmbedding implements KnowledgeItem.
func (p *Paper) GetTextForEmbedding() string {
	if p.Abstract != "" {
		return p.Title + " " + p.Abstract
	}
	return p.Title
}

// FullText is a backward-compatible accessor aliasing Content.
func (p *Paper) FullText() string { return p.Content }
