package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/llmquant/quantmind/pkg/model"
)

func (s *Store) knowledgePath(primaryID string) string {
	return filepath.Join(s.rootDir, knowledgesDir, primaryID+".json")
}

// StoreKnowledge serializes item to knowledges/{primary_id}.json and
// updates the index, overwriting any existing record with the same ID.
func (s *Store) StoreKnowledge(item model.KnowledgeItem) error {
	primaryID := item.GetPrimaryID()
	path := s.knowledgePath(primaryID)

	data, err := model.Encode(item)
	if err != nil {
		return fmt.Errorf("storage: store knowledge %s: %w", primaryID, err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("storage: store knowledge %s: %w", primaryID, err)
	}

	s.knowledgesMu.Lock()
	defer s.knowledgesMu.Unlock()

	s.knowledges[primaryID] = knowledgeEntry{Path: path}
	return s.persistKnowledgesIndexLocked()
}

// GetKnowledge resolves primaryID via the index, self-healing on a missing
// file (prune, fallback scan, backfill) exactly like GetRawFile, then
// deserializes into the correct polymorphic subtype.
func (s *Store) GetKnowledge(primaryID string) (model.KnowledgeItem, bool) {
	s.knowledgesMu.Lock()
	path, ok := s.resolveKnowledgePathLocked(primaryID)
	s.knowledgesMu.Unlock()
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	item, err := model.Decode(data)
	if err != nil {
		return nil, false
	}
	return item, true
}

func (s *Store) resolveKnowledgePathLocked(primaryID string) (string, bool) {
	if entry, ok := s.knowledges[primaryID]; ok {
		if _, err := os.Stat(entry.Path); err == nil {
			return entry.Path, true
		}
		delete(s.knowledges, primaryID)
		_ = s.persistKnowledgesIndexLocked()
	}

	path := s.knowledgePath(primaryID)
	if _, err := os.Stat(path); err == nil {
		s.knowledges[primaryID] = knowledgeEntry{Path: path}
		_ = s.persistKnowledgesIndexLocked()
		return path, true
	}

	return "", false
}

// DeleteKnowledge removes both the record and its index entry.
func (s *Store) DeleteKnowledge(primaryID string) error {
	s.knowledgesMu.Lock()
	defer s.knowledgesMu.Unlock()

	entry, ok := s.knowledges[primaryID]
	path := s.knowledgePath(primaryID)
	if ok {
		path = entry.Path
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete knowledge %s: %w", primaryID, err)
	}

	delete(s.knowledges, primaryID)
	return s.persistKnowledgesIndexLocked()
}
