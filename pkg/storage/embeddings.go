package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EmbeddingRecord is the on-disk shape of embeddings/{id}.json.
type EmbeddingRecord struct {
	KnowledgeID string    `json:"knowledge_id"`
	Embedding   []float64 `json:"embedding"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Store) embeddingPath(knowledgeID string) string {
	return filepath.Join(s.rootDir, embeddingsDir, knowledgeID+".json")
}

// StoreEmbedding serializes rec to embeddings/{id}.json and updates the
// index; a later StoreEmbedding for the same knowledge ID overwrites it.
func (s *Store) StoreEmbedding(rec EmbeddingRecord) error {
	if rec.KnowledgeID == "" {
		return fmt.Errorf("storage: store embedding: knowledge_id is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	path := s.embeddingPath(rec.KnowledgeID)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: store embedding %s: %w", rec.KnowledgeID, err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("storage: store embedding %s: %w", rec.KnowledgeID, err)
	}

	s.embeddingsMu.Lock()
	defer s.embeddingsMu.Unlock()

	s.embeddings[rec.KnowledgeID] = embeddingEntry{Path: path}
	return s.persistEmbeddingsIndexLocked()
}

// GetEmbedding is symmetric to GetKnowledge: index lookup, self-heal on
// missing file, fallback scan, backfill on hit.
func (s *Store) GetEmbedding(knowledgeID string) (EmbeddingRecord, bool) {
	s.embeddingsMu.Lock()
	path, ok := s.resolveEmbeddingPathLocked(knowledgeID)
	s.embeddingsMu.Unlock()
	if !ok {
		return EmbeddingRecord{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return EmbeddingRecord{}, false
	}

	var rec EmbeddingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return EmbeddingRecord{}, false
	}
	return rec, true
}

func (s *Store) resolveEmbeddingPathLocked(knowledgeID string) (string, bool) {
	if entry, ok := s.embeddings[knowledgeID]; ok {
		if _, err := os.Stat(entry.Path); err == nil {
			return entry.Path, true
		}
		delete(s.embeddings, knowledgeID)
		_ = s.persistEmbeddingsIndexLocked()
	}

	path := s.embeddingPath(knowledgeID)
	if _, err := os.Stat(path); err == nil {
		s.embeddings[knowledgeID] = embeddingEntry{Path: path}
		_ = s.persistEmbeddingsIndexLocked()
		return path, true
	}

	return "", false
}
