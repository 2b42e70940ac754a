package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StoreRawFile writes a raw source file under raw_files/ and returns its
// absolute path. Exactly one of filePath or content must be non-empty;
// supplying both or neither is a configuration error. ext, when empty, is
// derived from filePath.
func (s *Store) StoreRawFile(fileID, filePath string, content []byte, ext string) (string, error) {
	if (filePath == "") == (len(content) == 0) {
		return "", fmt.Errorf("storage: store raw file: exactly one of filePath or content is required")
	}

	if fileID == "" {
		fileID = uuid.NewString()
	}
	if ext == "" && filePath != "" {
		ext = filepath.Ext(filePath)
	}

	dest := filepath.Join(s.rootDir, rawFilesDir, fileID+ext)

	var data []byte
	if filePath != "" {
		var err error
		data, err = os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("storage: store raw file: read source %s: %w", filePath, err)
		}
	} else {
		data = content
	}

	if err := writeFileAtomic(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: store raw file: %w", err)
	}

	s.rawFilesMu.Lock()
	defer s.rawFilesMu.Unlock()

	s.rawFiles[fileID] = rawFileEntry{Path: dest, Extension: ext}
	if err := s.persistRawFilesIndexLocked(); err != nil {
		return "", fmt.Errorf("storage: store raw file: %w", err)
	}

	return dest, nil
}

// GetRawFile resolves fileID to an absolute path via the index. If the
// indexed file is missing from disk, the stale entry is pruned and
// ("", false) is returned after a fallback directory scan also fails to
// find it; a scan hit backfills the index so future lookups stay O(1).
func (s *Store) GetRawFile(fileID string) (string, bool) {
	s.rawFilesMu.Lock()
	defer s.rawFilesMu.Unlock()

	if entry, ok := s.rawFiles[fileID]; ok {
		if _, err := os.Stat(entry.Path); err == nil {
			return entry.Path, true
		}
		delete(s.rawFiles, fileID)
		_ = s.persistRawFilesIndexLocked()
	}

	path, ext, found := s.scanForRawFile(fileID)
	if !found {
		return "", false
	}

	s.rawFiles[fileID] = rawFileEntry{Path: path, Extension: ext}
	_ = s.persistRawFilesIndexLocked()
	return path, true
}

func (s *Store) scanForRawFile(fileID string) (string, string, bool) {
	dir := filepath.Join(s.rootDir, rawFilesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", false
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if stemOf(name) == fileID {
			return filepath.Join(dir, name), filepath.Ext(name), true
		}
	}
	return "", "", false
}

// DeleteRawFile removes both the file and its index entry.
func (s *Store) DeleteRawFile(fileID string) error {
	s.rawFilesMu.Lock()
	defer s.rawFilesMu.Unlock()

	entry, ok := s.rawFiles[fileID]
	if !ok {
		path, _, found := s.scanForRawFile(fileID)
		if !found {
			return nil
		}
		entry = rawFileEntry{Path: path}
	}

	if err := os.Remove(entry.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete raw file %s: %w", fileID, err)
	}

	delete(s.rawFiles, fileID)
	return s.persistRawFilesIndexLocked()
}

// readRawFile reads the whole file at path. Nothing in this package calls
// it.
func readRawFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
