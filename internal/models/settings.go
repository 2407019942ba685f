package models

import "github.com/julianstephens/cheese/internal/constants"

// Settings holds process-wide configuration that does not belong to any hamster.
type Settings struct {
	APIKey string `json:"apiKey"` // key for the external analysis service
	Theme  string `json:"theme"`  // theme token, e.g. "cherry"
}

// SettingsPatch updates the non-nil global settings fields.
type SettingsPatch struct {
	APIKey *string
	Theme  *string
}

// DefaultSettings returns first-run settings.
func DefaultSettings() Settings {
	return Settings{Theme: constants.DefaultTheme}
}

// ApplyDefaultSettings fills missing settings with defaults.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Theme == "" {
		settings.Theme = constants.DefaultTheme
	}
}

// IsEmpty reports whether the patch sets no field.
func (p SettingsPatch) IsEmpty() bool {
	return p.APIKey == nil && p.Theme == nil
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.APIKey != nil {
		s.APIKey = *p.APIKey
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
}

// LegacySettings is the blended settings shape older versions persisted and
// older consumers still read: global settings plus the profile of the single
// (generation 1) or current hamster under hamster-prefixed names.
type LegacySettings struct {
	APIKey              string      `json:"apiKey"`
	Theme               string      `json:"theme"`
	HamsterName         string      `json:"hamsterName"`
	HamsterPhoto        string      `json:"hamsterPhoto"`
	HamsterBirthday     string      `json:"hamsterBirthday"`
	ArrivalDate         string      `json:"arrivalDate"`
	BeddingType         BeddingType `json:"beddingType"`
	LastBeddingChange   string      `json:"lastBeddingChange"`
	HamsterBackground   string      `json:"hamsterBackground"`
	OnboardingCompleted bool        `json:"onboardingCompleted,omitempty"`
}

// LegacySettingsPatch is a legacy settings document or update request where
// absent keys stay nil. It is split into a ProfilePatch and a SettingsPatch
// before reaching the stores.
type LegacySettingsPatch struct {
	APIKey              *string      `json:"apiKey,omitempty"`
	Theme               *string      `json:"theme,omitempty"`
	HamsterName         *string      `json:"hamsterName,omitempty"`
	HamsterPhoto        *string      `json:"hamsterPhoto,omitempty"`
	HamsterBirthday     *string      `json:"hamsterBirthday,omitempty"`
	ArrivalDate         *string      `json:"arrivalDate,omitempty"`
	BeddingType         *BeddingType `json:"beddingType,omitempty"`
	LastBeddingChange   *string      `json:"lastBeddingChange,omitempty"`
	HamsterBackground   *string      `json:"hamsterBackground,omitempty"`
	OnboardingCompleted *bool        `json:"onboardingCompleted,omitempty"`
}

// Split routes profile fields to a ProfilePatch and apiKey/theme to a SettingsPatch.
func (p LegacySettingsPatch) Split() (ProfilePatch, SettingsPatch) {
	profile := ProfilePatch{
		Name:              p.HamsterName,
		Photo:             p.HamsterPhoto,
		Birthday:          p.HamsterBirthday,
		ArrivalDate:       p.ArrivalDate,
		BeddingType:       p.BeddingType,
		LastBeddingChange: p.LastBeddingChange,
		HamsterBackground: p.HamsterBackground,
	}
	global := SettingsPatch{
		APIKey: p.APIKey,
		Theme:  p.Theme,
	}
	return profile, global
}

// LegacyView blends global settings and a profile into the legacy shape.
func LegacyView(settings Settings, profile Profile) LegacySettings {
	return LegacySettings{
		APIKey:              settings.APIKey,
		Theme:               settings.Theme,
		HamsterName:         profile.Name,
		HamsterPhoto:        profile.Photo,
		HamsterBirthday:     profile.Birthday,
		ArrivalDate:         profile.ArrivalDate,
		BeddingType:         profile.BeddingType,
		LastBeddingChange:   profile.LastBeddingChange,
		HamsterBackground:   profile.HamsterBackground,
		OnboardingCompleted: profile.Name != "",
	}
}
