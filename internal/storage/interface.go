package storage

import "errors"

// ErrNotInitialized is returned by Load when the storage file does not exist yet.
var ErrNotInitialized = errors.New("storage not initialized, run 'cheese init' first")

// Provider is client-local key-value storage with string values. Writes only
// happen through Commit, which applies a whole Batch or nothing.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Reads
	Get(key string) (string, bool, error)
	Keys() ([]string, error)

	// Writes
	Commit(b *Batch) error

	// Utils
	GetConfigPath() string
}

// Reader is the read half of a Provider.
type Reader interface {
	Get(key string) (string, bool, error)
	Keys() ([]string, error)
}

// GenerationRecord is one completed document migration.
type GenerationRecord struct {
	FromGeneration int
	EntriesBefore  int
	EntriesAfter   int
	RanAt          string
}

// Journal is implemented by backends that keep a history of document
// migrations. It is optional.
type Journal interface {
	RecordGeneration(rec GenerationRecord) error
	Generations() ([]GenerationRecord, error)
}
