// Package storage implements the indexed local file store every flow and
// tagger reads knowledge items, raw source files, and embeddings from and
// writes them back to: a root directory with four subdirectories
// (raw_files/, knowledges/, embeddings/, extra/) and three persistent JSON
// indexes that make ID lookups O(1) instead of a directory scan.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/httpclient"
)

const (
	rawFilesDir   = "raw_files"
	knowledgesDir = "knowledges"
	embeddingsDir = "embeddings"
	extraDir      = "extra"

	rawFilesIndexName   = "raw_files_index.json"
	knowledgesIndexName = "knowledges_index.json"
	embeddingsIndexName = "embeddings_index.json"

	defaultDownloadTimeout = 30 * time.Second
)

// rawFileEntry is one raw_files_index.json value.
type rawFileEntry struct {
	Path      string `json:"path"`
	Extension string `json:"extension"`
}

// knowledgeEntry is one knowledges_index.json value.
type knowledgeEntry struct {
	Path string `json:"path"`
}

// embeddingEntry is one embeddings_index.json value.
type embeddingEntry struct {
	Path string `json:"path"`
}

// Store is the indexed local file store. Index mutations are serialized
// per namespace (rawFilesMu/knowledgesMu/embeddingsMu); cross-namespace
// operations need no global lock, since every operation touches exactly
// one namespace's files and index. This mirrors the teacher's
// sync.RWMutex-guarded map pattern (DocumentStore.mu, BaseRegistry.mu)
// applied once per namespace instead of once per store.
type Store struct {
	rootDir         string
	downloadTimeout time.Duration
	httpClient      *httpclient.Client

	rawFilesMu    sync.Mutex
	rawFiles      map[string]rawFileEntry
	knowledgesMu  sync.Mutex
	knowledges    map[string]knowledgeEntry
	embeddingsMu  sync.Mutex
	embeddings    map[string]embeddingEntry
	extraMu       sync.Mutex
}

// Open creates (if absent) the store's directory layout and loads its
// three indexes, tolerating a missing or corrupt index file by starting
// from empty (a later RebuildAllIndexes call repairs it from disk).
func Open(cfg config.LocalStorageConfig) (*Store, error) {
	if cfg.StorageDir == "" {
		return nil, fmt.Errorf("storage: storage_dir is required")
	}

	timeout := defaultDownloadTimeout
	if cfg.DownloadTimeout > 0 {
		timeout = time.Duration(cfg.DownloadTimeout) * time.Second
	}

	s := &Store{
		rootDir:         cfg.StorageDir,
		downloadTimeout: timeout,
		httpClient:      httpclient.New(httpclient.WithMaxRetries(1)),
		rawFiles:        map[string]rawFileEntry{},
		knowledges:      map[string]knowledgeEntry{},
		embeddings:      map[string]embeddingEntry{},
	}

	for _, sub := range []string{rawFilesDir, knowledgesDir, embeddingsDir, extraDir} {
		if err := os.MkdirAll(filepath.Join(s.rootDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("storage: create %s: %w", sub, err)
		}
	}

	s.loadIndex(rawFilesIndexName, &s.rawFiles)
	s.loadIndex(knowledgesIndexName, &s.knowledges)
	s.loadIndex(embeddingsIndexName, &s.embeddings)

	return s, nil
}

func (s *Store) indexPath(name string) string {
	return filepath.Join(s.rootDir, extraDir, name)
}

func (s *Store) loadIndex(name string, target any) {
	path := s.indexPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, target); err != nil {
		slog.Warn("storage: index file is corrupt, starting empty (rebuild with RebuildAllIndexes)", "index", name, "error", err)
	}
}

func (s *Store) persistIndex(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal %s: %w", name, err)
	}
	return writeFileAtomic(s.indexPath(name), data, 0o644)
}

func (s *Store) persistRawFilesIndexLocked() error {
	return s.persistIndex(rawFilesIndexName, s.rawFiles)
}

func (s *Store) persistKnowledgesIndexLocked() error {
	return s.persistIndex(knowledgesIndexName, s.knowledges)
}

func (s *Store) persistEmbeddingsIndexLocked() error {
	return s.persistIndex(embeddingsIndexName, s.embeddings)
}

// stemOf returns "everything before the last dot" in a filename, the raw
// file ID derivation rule spec.md names.
func stemOf(filename string) string {
	ext := filepath.Ext(filename)
	return filename[:len(filename)-len(ext)]
}
