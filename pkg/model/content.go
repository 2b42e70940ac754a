// Package model defines the knowledge-item content model: the polymorphic
// entity that flows through sources, parsers, flows, taggers, and storage.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ContentType discriminates the concrete shape of a KnowledgeItem when it is
// deserialized from storage.
type ContentType string

const (
	ContentTypeGeneric ContentType = "generic"
	ContentTypePaper    ContentType = "paper"
	ContentTypeSearch   ContentType = "search"
)

// KnowledgeItem is the identity and enrichment contract every content
// subtype (Paper, SearchContent, or a bare generic item) satisfies.
type KnowledgeItem interface {
	// GetPrimaryID returns the stable identity used for storage addressing.
	// It must be pure: the same item always yields the same ID.
	GetPrimaryID() string

	// GetContentType reports the discriminator stored alongside the item so
	// storage can deserialize it back into the correct concrete type.
	GetContentType() ContentType

	// GetTextForEmbedding returns the text an embedding model should see.
	GetTextForEmbedding() string

	// Base returns the shared attribute block so generic code (storage,
	// taggers, flows) can read/write common fields without a type switch.
	Base() *BaseItem
}

// BaseItem holds the attributes common to every KnowledgeItem subtype.
type BaseItem struct {
	Title       string         `json:"title"`
	Abstract    string         `json:"abstract,omitempty"`
	Content     string         `json:"content,omitempty"`
	Authors     []string       `json:"authors,omitempty"`
	Categories  []string       `json:"categories,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Source      string         `json:"source,omitempty"`
	ContentType ContentType    `json:"content_type"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	MetaInfo    map[string]any `json:"meta_info,omitempty"`
}

// GetContentType implements KnowledgeItem for a bare BaseItem (the
// "generic" subtype used when content_type carries no more specific shape).
func (b *BaseItem) GetContentType() ContentType {
	if b.ContentType == "" {
		return ContentTypeGeneric
	}
	return b.ContentType
}

// GetTextForEmbedding implements KnowledgeItem for a bare BaseItem.
func (b *BaseItem) GetTextForEmbedding() string {
	if b.Abstract != "" {
		return b.Title + " " + b.Abstract
	}
	return b.Title
}

// Base implements KnowledgeItem for a bare BaseItem.
func (b *BaseItem) Base() *BaseItem { return b }

// GetPrimaryID implements KnowledgeItem's default identity rule: a stable
// hash of source and title, used when no subtype-specific identity
// (arXiv ID, URL) is available.
func (b *BaseItem) GetPrimaryID() string {
	return HashIdentity(b.Source, b.Title)
}

// HashIdentity computes the default primary-ID fallback shared by all
// subtypes: a SHA-256 hash of "source|title", hex-truncated to 16 bytes so
// IDs stay short and filesystem-friendly.
func HashIdentity(source, title string) string {
	sum := sha256.Sum256([]byte(source + "|" + title))
	return hex.EncodeToString(sum[:16])
}

// AddTag merges a normalized tag into the item's tag set (idempotent; no
// duplicates).
func (b *BaseItem) AddTag(tag string) {
	for _, existing := range b.Tags {
		if existing == tag {
			return
		}
	}
	b.Tags = append(b.Tags, tag)
}

// SetMeta records a key in the item's open-ended meta_info map, creating the
// map on first use.
func (b *BaseItem) SetMeta(key string, value any) {
	if b.MetaInfo == nil {
		b.MetaInfo = make(map[string]any)
	}
	b.MetaInfo[key] = value
}
