package migration

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/models"
)

// Gen1 is the content of a generation 1 install or backup: one flat history
// and one settings object that also described the only hamster.
type Gen1 struct {
	Entries  []LegacyEntry
	Settings models.LegacySettingsPatch
}

// Gen2 is the content of a generation 2 install or backup: a flat history
// whose entries point at their owner, and a separate hamster list.
type Gen2 struct {
	Entries  []LegacyEntry
	Profiles []LegacyProfile
	Settings models.LegacySettingsPatch
	Current  string
	// AdoptUnowned hands entries without an owner to the first hamster
	// instead of an "unassigned" group, when there is a first hamster.
	AdoptUnowned bool
}

// IDFunc mints ids for hamsters that have to be synthesized.
type IDFunc func() string

func globalSettings(p models.LegacySettingsPatch) models.Settings {
	s := models.DefaultSettings()
	_, global := p.Split()
	global.Apply(&s)
	models.ApplyDefaultSettings(&s)
	return s
}

// PromoteGen1 turns a generation 1 document into current state. One hamster
// is synthesized from the settings profile fields and owns every entry. If
// there is neither a profile nor any entry, the registry stays empty.
func PromoteGen1(in Gen1, newID IDFunc, now string) models.State {
	state := models.NewState()
	state.Settings = globalSettings(in.Settings)

	if len(in.Entries) == 0 && !hasProfile(in.Settings) {
		return state
	}

	h := models.Hamster{
		ID:        newID(),
		Data:      StripOwners(in.Entries),
		CreatedAt: now,
	}
	profile, _ := in.Settings.Split()
	profile.Apply(&h)
	if strings.TrimSpace(h.Name) == "" {
		h.Name = constants.DefaultHamsterName
	}

	state.Hamsters = []models.Hamster{h}
	state.CurrentID = h.ID
	return state
}

// PromoteGen2 groups the flat history by owner and attaches each group to
// its hamster. Entries without an owner form the "unassigned" group unless
// in.AdoptUnowned is set and a profile exists. A group
// whose owner is not in the profile list gets a synthesized hamster so no
// entry is dropped. The returned notes describe every repair made.
func PromoteGen2(in Gen2, newID IDFunc, now string) (models.State, []string) {
	var notes []string

	groups := map[string][]models.Entry{}
	var order []string
	for _, e := range in.Entries {
		key := e.HamsterID
		if key == "" {
			key = constants.UnassignedGroup
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e.Entry)
	}

	state := models.NewState()
	state.Settings = globalSettings(in.Settings)

	seen := map[string]bool{}
	for _, p := range in.Profiles {
		id := string(p.ID)
		if id == "" {
			p.ID = looseID(newID())
			notes = append(notes, fmt.Sprintf("hamster %q had no id, assigned %s", p.Name, p.ID))
			id = string(p.ID)
		}
		if seen[id] {
			notes = append(notes, fmt.Sprintf("duplicate hamster id %s dropped", id))
			continue
		}
		seen[id] = true

		h := p.Hamster(groups[id])
		if h.CreatedAt == "" {
			h.CreatedAt = now
		}
		state.Hamsters = append(state.Hamsters, h)
	}

	if unowned := groups[constants.UnassignedGroup]; in.AdoptUnowned && len(unowned) > 0 &&
		len(state.Hamsters) > 0 && !seen[constants.UnassignedGroup] {
		first := &state.Hamsters[0]
		first.Data = append(first.Data, unowned...)
		seen[constants.UnassignedGroup] = true
		notes = append(notes, fmt.Sprintf("%d entries without a hamster assigned to %q", len(unowned), first.Name))
	}

	for _, key := range order {
		if seen[key] {
			continue
		}
		name := constants.DefaultHamsterName
		if key == constants.UnassignedGroup {
			name = constants.UnassignedName
		}
		state.Hamsters = append(state.Hamsters, models.Hamster{
			ID:        key,
			Name:      name,
			Data:      groups[key],
			CreatedAt: now,
		})
		notes = append(notes, fmt.Sprintf("%d entries for unknown hamster %s kept under %q", len(groups[key]), key, name))
	}

	state.CurrentID = in.Current
	state.Normalize()
	return state, notes
}
