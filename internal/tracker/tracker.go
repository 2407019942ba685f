// Package tracker is the state container for hamsters, their entries and the
// global settings. Every mutation is prepared on a copy of the state,
// committed to storage as one batch, and only then made visible.
//
// A Tracker is not safe for concurrent use.
package tracker

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/logger"
	"github.com/julianstephens/cheese/internal/migration"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/storage"
	"github.com/julianstephens/cheese/internal/utils"
)

var (
	ErrHamsterNotFound = errors.New("hamster not found")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrNoEntries       = errors.New("hamster has no entries yet")
	ErrNoSelection     = errors.New("no hamster selected")
	ErrPhotoTooLarge   = errors.New("photo is too large")
)

// PersistError reports that a mutation was computed but could not be
// written. The in-memory state is unchanged when it is returned.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist state: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Hint implements the CLI hint interface.
func (e *PersistError) Hint() string {
	return "your data was not changed; run 'cheese doctor' to check storage"
}

// Options tune a Tracker. Zero values fall back to defaults.
type Options struct {
	MaxPhotoBytes int
	Clock         utils.Clock
	NewHamsterID  func() string
	NewEntryID    func() string
}

func (o *Options) applyDefaults() {
	if o.MaxPhotoBytes <= 0 {
		o.MaxPhotoBytes = constants.DefaultMaxPhotoBytes
	}
	if o.Clock == nil {
		o.Clock = utils.SystemClock
	}
	if o.NewHamsterID == nil {
		o.NewHamsterID = uuid.NewString
	}
	if o.NewEntryID == nil {
		o.NewEntryID = newEntryID
	}
}

// newEntryID returns a time-ordered UUIDv7, falling back to v4.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type Tracker struct {
	store storage.Provider
	state models.State
	opts  Options
	log   *log.Logger
}

// Open migrates whatever generation store holds and returns a tracker over
// the resulting state. The store must already be loaded.
func Open(store storage.Provider, opts Options) (*Tracker, migration.Result, error) {
	opts.applyDefaults()

	engine := migration.NewEngine(store)
	engine.Clock = opts.Clock
	engine.NewID = opts.NewHamsterID

	res, err := engine.Run()
	if err != nil {
		return nil, migration.Result{}, fmt.Errorf("failed to migrate storage: %w", err)
	}
	return New(store, res.State, opts), res, nil
}

// New wraps an already-normalized state without touching storage.
func New(store storage.Provider, state models.State, opts Options) *Tracker {
	opts.applyDefaults()
	return &Tracker{
		store: store,
		state: state.Clone(),
		opts:  opts,
		log:   logger.Component("tracker"),
	}
}

// State returns a deep copy of the live state.
func (t *Tracker) State() models.State {
	return t.state.Clone()
}

// Now returns the tracker's clock reading.
func (t *Tracker) Now() string {
	return utils.Timestamp(t.opts.Clock())
}

// Flush rewrites the full current state to storage.
func (t *Tracker) Flush() error {
	return t.commit(t.state)
}

// Close flushes and closes the underlying store.
func (t *Tracker) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	return t.store.Close()
}

// Replace swaps the whole state, e.g. after an import merge.
func (t *Tracker) Replace(state models.State) error {
	return t.mutate(func(s *models.State) error {
		*s = state.Clone()
		s.Normalize()
		return nil
	})
}

// mutate runs fn on a copy of the state, commits the copy and swaps it in.
func (t *Tracker) mutate(fn func(s *models.State) error) error {
	next := t.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := t.commit(next); err != nil {
		return err
	}
	t.state = next
	return nil
}

func (t *Tracker) commit(state models.State) error {
	persisted := state.Clone()
	// A dangling pointer is persisted as no selection.
	if persisted.Index(persisted.CurrentID) < 0 {
		persisted.CurrentID = ""
	}

	b := storage.NewBatch()
	if err := migration.EncodeState(b, persisted); err != nil {
		return err
	}
	if err := t.store.Commit(b); err != nil {
		t.log.Error("commit failed", "error", err)
		return &PersistError{Err: err}
	}
	return nil
}

// resolve maps "" to the current selection and checks the hamster exists.
func (t *Tracker) resolve(s *models.State, hamsterID string) (int, error) {
	if hamsterID == "" {
		hamsterID = s.CurrentID
		if s.Index(hamsterID) < 0 {
			return -1, ErrNoSelection
		}
	}
	idx := s.Index(hamsterID)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrHamsterNotFound, hamsterID)
	}
	return idx, nil
}

func (t *Tracker) checkPhoto(photo *string) error {
	if photo == nil {
		return nil
	}
	if size := models.PhotoSize(*photo); size > t.opts.MaxPhotoBytes {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrPhotoTooLarge, size, t.opts.MaxPhotoBytes)
	}
	return nil
}
