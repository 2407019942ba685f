package storage

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// JSONStore keeps every key in a single JSON object file.
type JSONStore struct {
	path string
	data map[string]string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

// Init creates the file with an empty object if it does not exist yet.
func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.data = map[string]string{}
	return s.write(s.data)
}

func (s *JSONStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	data := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to parse storage: %w", err)
		}
	}
	s.data = data
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Get(key string) (string, bool, error) {
	if s.data == nil {
		return "", false, fmt.Errorf("storage not loaded")
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.data == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return slices.Sorted(maps.Keys(s.data)), nil
}

// Commit applies b to a copy of the documents, writes the copy through a
// temp file and rename, and only then swaps it in.
func (s *JSONStore) Commit(b *Batch) error {
	if s.data == nil {
		return fmt.Errorf("storage not loaded")
	}
	if b.Len() == 0 {
		return nil
	}

	next := maps.Clone(s.data)
	b.ApplyTo(next)
	if err := s.write(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *JSONStore) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
