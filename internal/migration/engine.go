package migration

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/logger"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/storage"
	"github.com/julianstephens/cheese/internal/utils"
)

// Generation identifies an on-disk schema shape.
type Generation int

const (
	GenerationFresh Generation = iota
	Generation1
	Generation2
	Generation3
)

func (g Generation) String() string {
	switch g {
	case Generation1:
		return "generation 1"
	case Generation2:
		return "generation 2"
	case Generation3:
		return "generation 3"
	default:
		return "fresh install"
	}
}

// ErrEntriesLost aborts a migration whose output would hold a different
// number of entries than its input. Storage is left untouched.
var ErrEntriesLost = errors.New("migration would not conserve entries")

// Store is what the engine needs from a storage backend.
type Store interface {
	storage.Reader
	Commit(b *storage.Batch) error
}

// Result describes a completed run.
type Result struct {
	From          Generation
	State         models.State
	EntriesBefore int
	EntriesAfter  int
	Wrote         bool     // storage was rewritten
	Notes         []string // repairs made along the way
}

// Engine upgrades persisted documents to the current generation. It runs once
// per process before any other component touches storage.
type Engine struct {
	store Store
	log   *log.Logger

	// Clock and NewID are replaceable for tests.
	Clock utils.Clock
	NewID IDFunc
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		log:   logger.Component("migration"),
		Clock: utils.SystemClock,
		NewID: uuid.NewString,
	}
}

// Detect inspects persisted keys and reports the newest generation present,
// in priority order 3, 2, 1. A key whose document does not decode does not
// count as present.
func Detect(r storage.Reader) (Generation, error) {
	var hamsters []models.Hamster
	ok, err := storage.GetJSON(r, constants.KeyHamsters, &hamsters)
	if err != nil && !ok {
		return GenerationFresh, err
	}
	if ok && err == nil {
		return Generation3, nil
	}

	raw, ok, err := r.Get(constants.LegacyKeyHamsters)
	if err != nil {
		return GenerationFresh, err
	}
	if ok {
		if _, derr := DecodeProfiles([]byte(raw)); derr == nil {
			return Generation2, nil
		}
	}

	for _, key := range []string{constants.LegacyKeyData, constants.LegacyKeySettings} {
		_, ok, err := r.Get(key)
		if err != nil {
			return GenerationFresh, err
		}
		if ok {
			return Generation1, nil
		}
	}
	return GenerationFresh, nil
}

// Run detects the stored generation, upgrades it to generation 3 in a single
// batch and returns the normalized state. Running it against generation 3
// storage does not rewrite anything.
func (e *Engine) Run() (Result, error) {
	gen, err := Detect(e.store)
	if err != nil {
		return Result{}, fmt.Errorf("failed to detect storage generation: %w", err)
	}
	e.log.Debug("detected storage generation", "generation", gen)

	b := storage.NewBatch()
	var res Result
	switch gen {
	case Generation3:
		res, err = e.loadCurrent(b)
	case Generation2:
		res, err = e.fromGen2(b)
	case Generation1:
		res, err = e.fromGen1(b)
	default:
		res, err = e.fresh(b)
	}
	if err != nil {
		return Result{}, err
	}
	res.From = gen

	if b.Len() > 0 {
		if err := e.store.Commit(b); err != nil {
			return Result{}, fmt.Errorf("failed to persist migrated state: %w", err)
		}
		res.Wrote = true
	}

	for _, note := range res.Notes {
		e.log.Warn(note)
	}
	if gen == Generation1 || gen == Generation2 {
		e.log.Info("migrated storage", "from", gen, "entries", res.EntriesAfter, "hamsters", len(res.State.Hamsters))
		e.journal(res)
	}
	return res, nil
}

func (e *Engine) journal(res Result) {
	j, ok := e.store.(storage.Journal)
	if !ok {
		return
	}
	err := j.RecordGeneration(storage.GenerationRecord{
		FromGeneration: int(res.From),
		EntriesBefore:  res.EntriesBefore,
		EntriesAfter:   res.EntriesAfter,
		RanAt:          utils.Timestamp(e.Clock()),
	})
	if err != nil {
		e.log.Warn("failed to record migration", "error", err)
	}
}

func (e *Engine) loadCurrent(b *storage.Batch) (Result, error) {
	var state models.State
	if _, err := storage.GetJSON(e.store, constants.KeyHamsters, &state.Hamsters); err != nil {
		return Result{}, err
	}

	settingsRaw, ok, err := e.store.Get(constants.KeySettings)
	if err != nil {
		return Result{}, err
	}
	state.Settings = models.DefaultSettings()
	if ok {
		if err := json.Unmarshal([]byte(settingsRaw), &state.Settings); err != nil {
			e.quarantine(b, constants.KeySettings, settingsRaw, err)
			state.Settings = models.DefaultSettings()
		}
	}

	current, _, err := e.store.Get(constants.KeyCurrentHamster)
	if err != nil {
		return Result{}, err
	}
	state.CurrentID = DecodeSelection(current)
	state.Normalize()

	// Leftovers of an interrupted earlier upgrade are never migrated twice.
	for _, key := range constants.LegacyKeys {
		if _, ok, err := e.store.Get(key); err == nil && ok {
			e.log.Warn("removing stale legacy key", "key", key)
			b.Delete(key)
		}
	}

	n := state.EntryCount()
	return Result{State: state, EntriesBefore: n, EntriesAfter: n}, nil
}

func (e *Engine) fromGen2(b *storage.Batch) (Result, error) {
	e.quarantineCurrent(b)

	entries, err := e.readEntries(b)
	if err != nil {
		return Result{}, err
	}
	raw, _, err := e.store.Get(constants.LegacyKeyHamsters)
	if err != nil {
		return Result{}, err
	}
	profiles, err := DecodeProfiles([]byte(raw))
	if err != nil {
		return Result{}, err
	}
	settings, err := e.readSettings(b)
	if err != nil {
		return Result{}, err
	}
	current, _, err := e.store.Get(constants.LegacyKeyCurrentHamster)
	if err != nil {
		return Result{}, err
	}

	state, notes := PromoteGen2(Gen2{
		Entries:  entries,
		Profiles: profiles,
		Settings: settings,
		Current:  DecodeSelection(current),
	}, e.NewID, utils.Timestamp(e.Clock()))

	res, err := e.finish(b, len(entries), state)
	res.Notes = append(notes, res.Notes...)
	return res, err
}

func (e *Engine) fromGen1(b *storage.Batch) (Result, error) {
	e.quarantineCurrent(b)

	entries, err := e.readEntries(b)
	if err != nil {
		return Result{}, err
	}
	settings, err := e.readSettings(b)
	if err != nil {
		return Result{}, err
	}

	state := PromoteGen1(Gen1{Entries: entries, Settings: settings}, e.NewID, utils.Timestamp(e.Clock()))
	return e.finish(b, len(entries), state)
}

func (e *Engine) fresh(b *storage.Batch) (Result, error) {
	if raw, ok, err := e.store.Get(constants.KeyHamsters); err == nil && ok {
		e.quarantine(b, constants.KeyHamsters, raw, errors.New("hamster list does not decode"))
		b.Delete(constants.KeyHamsters)
	}
	return Result{State: models.NewState()}, nil
}

// finish checks entry conservation and queues the generation 3 write and the
// removal of every legacy key.
func (e *Engine) finish(b *storage.Batch, before int, state models.State) (Result, error) {
	after := state.EntryCount()
	if after != before {
		return Result{}, fmt.Errorf("%w: %d entries before, %d after", ErrEntriesLost, before, after)
	}
	if err := EncodeState(b, state); err != nil {
		return Result{}, err
	}
	for _, key := range constants.LegacyKeys {
		b.Delete(key)
	}
	return Result{State: state, EntriesBefore: before, EntriesAfter: after}, nil
}

// readEntries decodes the legacy flat history. A document that is not an
// array, and any element that does not decode, is moved to quarantine.
func (e *Engine) readEntries(b *storage.Batch) ([]LegacyEntry, error) {
	raw, ok, err := e.store.Get(constants.LegacyKeyData)
	if err != nil || !ok {
		return nil, err
	}
	entries, rejected, err := DecodeEntries([]byte(raw))
	if err != nil {
		e.quarantine(b, constants.LegacyKeyData, raw, err)
		return nil, nil
	}
	if len(rejected) > 0 {
		data, merr := json.Marshal(rejected)
		if merr != nil {
			return nil, fmt.Errorf("failed to encode rejected entries: %w", merr)
		}
		e.quarantine(b, constants.LegacyKeyData, string(data), fmt.Errorf("%d entries did not decode", len(rejected)))
	}
	return entries, nil
}

func (e *Engine) readSettings(b *storage.Batch) (models.LegacySettingsPatch, error) {
	raw, ok, err := e.store.Get(constants.LegacyKeySettings)
	if err != nil || !ok {
		return models.LegacySettingsPatch{}, err
	}
	settings, err := DecodeSettings([]byte(raw))
	if err != nil {
		e.quarantine(b, constants.LegacyKeySettings, raw, err)
		return models.LegacySettingsPatch{}, nil
	}
	return settings, nil
}

// quarantineCurrent moves aside a generation 3 hamster list that failed to
// decode before a legacy upgrade overwrites it.
func (e *Engine) quarantineCurrent(b *storage.Batch) {
	if raw, ok, err := e.store.Get(constants.KeyHamsters); err == nil && ok {
		e.quarantine(b, constants.KeyHamsters, raw, errors.New("hamster list does not decode"))
	}
}

func (e *Engine) quarantine(b *storage.Batch, key, raw string, cause error) {
	e.log.Warn("malformed document moved to quarantine", "key", key, "error", cause)
	b.Put(constants.QuarantinePrefix+key, raw)
}
