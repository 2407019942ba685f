package storage

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

// MemoryStore is an in-process Provider for tests and dry runs. FailCommits
// makes every Commit fail, to exercise persistence error paths.
type MemoryStore struct {
	mu          sync.RWMutex
	data        map[string]string
	FailCommits bool
	commits     int
}

// ErrCommitRejected is returned by a MemoryStore with FailCommits set.
var ErrCommitRejected = errors.New("memory store rejected commit")

// NewMemoryStore returns a store seeded with a copy of seed.
func NewMemoryStore(seed map[string]string) *MemoryStore {
	data := map[string]string{}
	maps.Copy(data, seed)
	return &MemoryStore{data: data}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data)), nil
}

func (s *MemoryStore) Commit(b *Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCommits {
		return ErrCommitRejected
	}
	b.ApplyTo(s.data)
	s.commits++
	return nil
}

// Commits returns how many batches were applied.
func (s *MemoryStore) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Snapshot returns a copy of every stored key.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.data)
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}
