package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// RebuildAllIndexes clears each in-memory index, rescans its subdirectory
// from scratch, and persists the reconstructed index — the recovery path
// when an index file is lost or corrupted.
func (s *Store) RebuildAllIndexes() error {
	if err := s.rebuildRawFiles(); err != nil {
		return err
	}
	if err := s.rebuildKnowledges(); err != nil {
		return err
	}
	return s.rebuildEmbeddings()
}

func (s *Store) rebuildRawFiles() error {
	s.rawFilesMu.Lock()
	defer s.rawFilesMu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.rootDir, rawFilesDir))
	if err != nil {
		return fmt.Errorf("storage: rebuild raw_files index: %w", err)
	}

	rebuilt := make(map[string]rawFileEntry, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		fileID := stemOf(name)
		rebuilt[fileID] = rawFileEntry{
			Path:      filepath.Join(s.rootDir, rawFilesDir, name),
			Extension: filepath.Ext(name),
		}
	}

	s.rawFiles = rebuilt
	return s.persistRawFilesIndexLocked()
}

func (s *Store) rebuildKnowledges() error {
	s.knowledgesMu.Lock()
	defer s.knowledgesMu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.rootDir, knowledgesDir))
	if err != nil {
		return fmt.Errorf("storage: rebuild knowledges index: %w", err)
	}

	rebuilt := make(map[string]knowledgeEntry, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		primaryID := stemOf(name)
		rebuilt[primaryID] = knowledgeEntry{Path: filepath.Join(s.rootDir, knowledgesDir, name)}
	}

	s.knowledges = rebuilt
	return s.persistKnowledgesIndexLocked()
}

func (s *Store) rebuildEmbeddings() error {
	s.embeddingsMu.Lock()
	defer s.embeddingsMu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.rootDir, embeddingsDir))
	if err != nil {
		return fmt.Errorf("storage: rebuild embeddings index: %w", err)
	}

	rebuilt := make(map[string]embeddingEntry, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		knowledgeID := stemOf(name)
		rebuilt[knowledgeID] = embeddingEntry{Path: filepath.Join(s.rootDir, embeddingsDir, name)}
	}

	s.embeddings = rebuilt
	return s.persistEmbeddingsIndexLocked()
}
