package tracker

import "github.com/julianstephens/cheese/internal/models"

// Settings returns the global settings.
func (t *Tracker) Settings() models.Settings {
	return t.state.Settings
}

// UpdateGlobalSettings merges apiKey and theme. Profile fields never reach
// this layer; see UpdateSettings.
func (t *Tracker) UpdateGlobalSettings(patch models.SettingsPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	return t.mutate(func(s *models.State) error {
		patch.Apply(&s.Settings)
		models.ApplyDefaultSettings(&s.Settings)
		return nil
	})
}
