package tracker

import (
	"fmt"
	"math"

	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/utils"
)

// AddEntry creates an entry from draft and prepends it to the hamster's
// history. An empty hamsterID targets the current selection.
func (t *Tracker) AddEntry(hamsterID string, draft models.EntryDraft) (models.Entry, error) {
	if err := draft.Validate(); err != nil {
		return models.Entry{}, err
	}
	draft.ApplyDefaults()

	ts, err := t.entryTimestamp(draft.Timestamp)
	if err != nil {
		return models.Entry{}, err
	}

	entry := models.Entry{
		ID:          t.opts.NewEntryID(),
		Timestamp:   ts,
		Weight:      copyFloat(draft.Weight),
		FoodIntake:  copyFloat(draft.FoodIntake),
		WheelTurns:  copyInt(draft.WheelTurns),
		Poop:        draft.Poop,
		Activity:    draft.Activity,
		Interaction: draft.Interaction,
		Environment: draft.Environment,
		Notes:       draft.Notes,
	}

	err = t.mutate(func(s *models.State) error {
		idx, err := t.resolve(s, hamsterID)
		if err != nil {
			return err
		}
		h := &s.Hamsters[idx]
		h.Data = append([]models.Entry{entry}, h.Data...)
		return nil
	})
	if err != nil {
		return models.Entry{}, err
	}
	t.log.Debug("entry added", "entry", entry.ID)
	return entry.Clone(), nil
}

// UpdateEntry applies patch to one entry.
func (t *Tracker) UpdateEntry(hamsterID, entryID string, patch models.EntryPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.Timestamp != nil {
		ts, err := t.entryTimestamp(*patch.Timestamp)
		if err != nil {
			return err
		}
		patch.Timestamp = &ts
	}

	return t.mutate(func(s *models.State) error {
		idx, err := t.resolve(s, hamsterID)
		if err != nil {
			return err
		}
		h := &s.Hamsters[idx]
		i := h.FindEntry(entryID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
		}
		patch.Apply(&h.Data[i])
		return nil
	})
}

// DeleteEntry removes one entry.
func (t *Tracker) DeleteEntry(hamsterID, entryID string) error {
	return t.mutate(func(s *models.State) error {
		idx, err := t.resolve(s, hamsterID)
		if err != nil {
			return err
		}
		h := &s.Hamsters[idx]
		i := h.FindEntry(entryID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
		}
		h.Data = append(h.Data[:i], h.Data[i+1:]...)
		return nil
	})
}

// ClearEntries empties one hamster's history and keeps its profile and the
// global settings. It returns how many entries were removed.
func (t *Tracker) ClearEntries(hamsterID string) (int, error) {
	removed := 0
	err := t.mutate(func(s *models.State) error {
		idx, err := t.resolve(s, hamsterID)
		if err != nil {
			return err
		}
		removed = len(s.Hamsters[idx].Data)
		s.Hamsters[idx].Data = []models.Entry{}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// AccumulateToday folds a quick update into the newest entry. Food intake is
// added and rounded to one decimal, wheel turns are added, and a note is
// appended on its own line. The newest entry is assumed to be today's; its
// date is not checked. Zero fields of delta are skipped.
func (t *Tracker) AccumulateToday(hamsterID string, delta models.Delta) (models.Entry, error) {
	var updated models.Entry
	err := t.mutate(func(s *models.State) error {
		idx, err := t.resolve(s, hamsterID)
		if err != nil {
			return err
		}
		h := &s.Hamsters[idx]
		if len(h.Data) == 0 {
			return ErrNoEntries
		}

		head := &h.Data[0]
		if delta.FoodIntake != 0 {
			prior := 0.0
			if head.FoodIntake != nil {
				prior = *head.FoodIntake
			}
			head.FoodIntake = models.Float(roundTenth(prior + delta.FoodIntake))
		}
		if delta.WheelTurns != 0 {
			prior := 0
			if head.WheelTurns != nil {
				prior = *head.WheelTurns
			}
			head.WheelTurns = models.Int(prior + delta.WheelTurns)
		}
		if delta.Note != "" {
			if head.Notes != "" {
				head.Notes += "\n" + delta.Note
			} else {
				head.Notes = delta.Note
			}
		}
		updated = head.Clone()
		return nil
	})
	if err != nil {
		return models.Entry{}, err
	}
	return updated, nil
}

// Entries returns a copy of a hamster's history, newest first.
func (t *Tracker) Entries(hamsterID string) ([]models.Entry, error) {
	idx, err := t.resolve(&t.state, hamsterID)
	if err != nil {
		return nil, err
	}
	return models.CloneEntries(t.state.Hamsters[idx].Data), nil
}

func (t *Tracker) entryTimestamp(s string) (string, error) {
	if s == "" {
		return utils.Timestamp(t.opts.Clock()), nil
	}
	parsed, ok := utils.ParseInstant(s)
	if !ok {
		return "", fmt.Errorf("invalid timestamp %q (expected YYYY-MM-DD or RFC3339)", s)
	}
	return utils.Timestamp(parsed), nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return models.Float(*v)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	return models.Int(*v)
}
