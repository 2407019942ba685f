package tracker

import "github.com/julianstephens/cheese/internal/models"

// UpdateSettings accepts an update in the blended legacy settings shape.
// Profile fields go to the current hamster and apiKey/theme go to the global
// settings; both land in one commit or not at all.
func (t *Tracker) UpdateSettings(patch models.LegacySettingsPatch) error {
	profile, global := patch.Split()
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := t.checkPhoto(profile.Photo); err != nil {
		return err
	}
	if profile.IsEmpty() && global.IsEmpty() {
		return nil
	}

	return t.mutate(func(s *models.State) error {
		if !profile.IsEmpty() {
			idx, err := t.resolve(s, "")
			if err != nil {
				return err
			}
			profile.Apply(&s.Hamsters[idx])
		}
		global.Apply(&s.Settings)
		models.ApplyDefaultSettings(&s.Settings)
		return nil
	})
}

// LegacySettingsView blends global settings with the current hamster's
// profile under the legacy field names. It is a read-only view and is never
// stored.
func (t *Tracker) LegacySettingsView() models.LegacySettings {
	var profile models.Profile
	if h, ok := t.Current(); ok {
		profile = h.Profile()
	}
	return models.LegacyView(t.state.Settings, profile)
}
