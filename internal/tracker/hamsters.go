package tracker

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/models"
)

// AddHamster registers a new hamster with an empty history and selects it.
func (t *Tracker) AddHamster(profile models.Profile) (string, error) {
	if err := t.checkPhoto(&profile.Photo); err != nil {
		return "", err
	}
	if !profile.BeddingType.Valid() {
		return "", fmt.Errorf("invalid bedding type: %s", profile.BeddingType)
	}
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		profile.Name = constants.DefaultHamsterName
	}

	h := models.Hamster{
		ID:        t.opts.NewHamsterID(),
		Data:      []models.Entry{},
		CreatedAt: t.Now(),
	}
	profile.Patch().Apply(&h)

	err := t.mutate(func(s *models.State) error {
		s.Hamsters = append(s.Hamsters, h)
		s.CurrentID = h.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	t.log.Info("hamster added", "id", h.ID, "name", h.Name)
	return h.ID, nil
}

// UpdateHamster merges the set fields of patch into a hamster's profile.
func (t *Tracker) UpdateHamster(id string, patch models.ProfilePatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if err := t.checkPhoto(patch.Photo); err != nil {
		return err
	}
	return t.mutate(func(s *models.State) error {
		idx := s.Index(id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrHamsterNotFound, id)
		}
		patch.Apply(&s.Hamsters[idx])
		return nil
	})
}

// DeleteHamster removes a hamster and its whole history. Deleting the
// current hamster selects the first remaining one, or nothing.
func (t *Tracker) DeleteHamster(id string) error {
	err := t.mutate(func(s *models.State) error {
		idx := s.Index(id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrHamsterNotFound, id)
		}
		s.Hamsters = append(s.Hamsters[:idx], s.Hamsters[idx+1:]...)
		if s.CurrentID == id {
			s.CurrentID = ""
			if len(s.Hamsters) > 0 {
				s.CurrentID = s.Hamsters[0].ID
			}
		}
		return nil
	})
	if err == nil {
		t.log.Info("hamster deleted", "id", id)
	}
	return err
}

// SelectHamster points the selection at id. Existence is not checked here;
// a pointer to an unknown hamster reads and persists as no selection.
func (t *Tracker) SelectHamster(id string) error {
	return t.mutate(func(s *models.State) error {
		s.CurrentID = id
		return nil
	})
}

// ClearAll empties the registry, clears the selection and resets global
// settings, in a single commit.
func (t *Tracker) ClearAll() error {
	err := t.mutate(func(s *models.State) error {
		*s = models.NewState()
		return nil
	})
	if err == nil {
		t.log.Warn("all data cleared")
	}
	return err
}

// Hamsters returns a copy of the registry in insertion order.
func (t *Tracker) Hamsters() []models.Hamster {
	return t.state.Clone().Hamsters
}

// Hamster returns a copy of one hamster.
func (t *Tracker) Hamster(id string) (models.Hamster, error) {
	idx := t.state.Index(id)
	if idx < 0 {
		return models.Hamster{}, fmt.Errorf("%w: %s", ErrHamsterNotFound, id)
	}
	return t.state.Hamsters[idx].Clone(), nil
}

// Current returns the selected hamster. It reports false when nothing is
// selected or the pointer is dangling.
func (t *Tracker) Current() (models.Hamster, bool) {
	idx := t.state.Index(t.state.CurrentID)
	if idx < 0 {
		return models.Hamster{}, false
	}
	return t.state.Hamsters[idx].Clone(), true
}

// CurrentID returns the selected hamster id, or "" for no (or a dangling) selection.
func (t *Tracker) CurrentID() string {
	if t.state.Index(t.state.CurrentID) < 0 {
		return ""
	}
	return t.state.CurrentID
}
