package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func (s *Store) extraPath(key string) string {
	return filepath.Join(s.rootDir, extraDir, key+".json")
}

// StoreExtra serializes value to extra/{key}.json. This is a plain JSON
// namespace with no secondary index; callers address it directly by key.
func (s *Store) StoreExtra(key string, value any) error {
	s.extraMu.Lock()
	defer s.extraMu.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: store extra %s: %w", key, err)
	}
	return writeFileAtomic(s.extraPath(key), data, 0o644)
}

// GetExtra deserializes extra/{key}.json into target.
func (s *Store) GetExtra(key string, target any) (bool, error) {
	s.extraMu.Lock()
	defer s.extraMu.Unlock()

	data, err := os.ReadFile(s.extraPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: get extra %s: %w", key, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("storage: get extra %s: %w", key, err)
	}
	return true, nil
}

// DeleteExtra removes extra/{key}.json, if present.
func (s *Store) DeleteExtra(key string) error {
	s.extraMu.Lock()
	defer s.extraMu.Unlock()

	if err := os.Remove(s.extraPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete extra %s: %w", key, err)
	}
	return nil
}
