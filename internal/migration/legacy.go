package migration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/cheese/internal/models"
)

// looseID accepts a JSON string, number or null. Older versions were not
// consistent about the type of ids.
type looseID string

func (id *looseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = looseID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}
		*id = looseID(n.String())
	}
	return nil
}

// LegacyEntry is an entry as stored by generations 1 and 2, with the owner
// reference generation 2 added. HamsterID is "" when absent.
type LegacyEntry struct {
	models.Entry
	HamsterID string
}

type legacyEntryWire struct {
	ID          looseID            `json:"id"`
	HamsterID   looseID            `json:"hamsterId"`
	Timestamp   string             `json:"timestamp"`
	Weight      *float64           `json:"weight"`
	FoodIntake  *float64           `json:"foodIntake"`
	WheelTurns  *int               `json:"wheelTurns"`
	Poop        models.Poop        `json:"poop"`
	Activity    models.Activity    `json:"activity"`
	Interaction models.Interaction `json:"interaction"`
	Environment models.Environment `json:"environment"`
	Notes       string             `json:"notes"`
}

func (e *LegacyEntry) UnmarshalJSON(data []byte) error {
	var w legacyEntryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("entry has no id")
	}
	*e = LegacyEntry{
		Entry: models.Entry{
			ID:          string(w.ID),
			Timestamp:   w.Timestamp,
			Weight:      w.Weight,
			FoodIntake:  w.FoodIntake,
			WheelTurns:  w.WheelTurns,
			Poop:        w.Poop,
			Activity:    w.Activity,
			Interaction: w.Interaction,
			Environment: w.Environment,
			Notes:       w.Notes,
		},
		HamsterID: string(w.HamsterID),
	}
	return nil
}

// LegacyProfile is a generation 2 hamster record. It never carried history.
type LegacyProfile struct {
	ID                looseID            `json:"id"`
	Name              string             `json:"name"`
	Photo             string             `json:"photo"`
	Birthday          string             `json:"birthday"`
	ArrivalDate       string             `json:"arrivalDate"`
	BeddingType       models.BeddingType `json:"beddingType"`
	LastBeddingChange string             `json:"lastBeddingChange"`
	HamsterBackground string             `json:"hamsterBackground"`
	CreatedAt         string             `json:"createdAt"`
}

// Hamster converts the profile into a current-generation hamster with the given history.
func (p LegacyProfile) Hamster(data []models.Entry) models.Hamster {
	if data == nil {
		data = []models.Entry{}
	}
	return models.Hamster{
		ID:                string(p.ID),
		Name:              p.Name,
		Photo:             p.Photo,
		Birthday:          p.Birthday,
		ArrivalDate:       p.ArrivalDate,
		BeddingType:       p.BeddingType,
		LastBeddingChange: p.LastBeddingChange,
		HamsterBackground: p.HamsterBackground,
		Data:              data,
		CreatedAt:         p.CreatedAt,
	}
}

// DecodeEntries decodes a JSON array of legacy entries one element at a
// time. Elements that fail to decode are returned in rejected instead of
// failing the whole list. An error means the document is not an array at all.
func DecodeEntries(raw []byte) (entries []LegacyEntry, rejected []json.RawMessage, err error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil, fmt.Errorf("expected an array of entries: %w", err)
	}
	entries = make([]LegacyEntry, 0, len(items))
	for _, item := range items {
		var e LegacyEntry
		if err := json.Unmarshal(item, &e); err != nil {
			rejected = append(rejected, item)
			continue
		}
		entries = append(entries, e)
	}
	return entries, rejected, nil
}

// DecodeProfiles decodes a generation 2 hamster list.
func DecodeProfiles(raw []byte) ([]LegacyProfile, error) {
	var profiles []LegacyProfile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("expected an array of hamsters: %w", err)
	}
	return profiles, nil
}

// DecodeSettings decodes a legacy settings object, keeping absent fields nil.
func DecodeSettings(raw []byte) (models.LegacySettingsPatch, error) {
	var s models.LegacySettingsPatch
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("expected a settings object: %w", err)
	}
	return s, nil
}

// DecodeSelection reads a stored selection pointer. Both the bare id and a
// JSON encoded string are accepted; "null" means no selection.
func DecodeSelection(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" || raw == "undefined" {
		return ""
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s
		}
	}
	return raw
}

// StripOwners drops the owner reference, yielding current-generation entries.
func StripOwners(entries []LegacyEntry) []models.Entry {
	out := make([]models.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Entry
	}
	return out
}

// hasProfile reports whether a generation 1 settings object carries any
// hamster profile field worth promoting into a hamster.
func hasProfile(s models.LegacySettingsPatch) bool {
	for _, v := range []*string{
		s.HamsterName, s.HamsterPhoto, s.HamsterBirthday, s.ArrivalDate,
		s.LastBeddingChange, s.HamsterBackground,
	} {
		if v != nil && *v != "" {
			return true
		}
	}
	return s.BeddingType != nil && *s.BeddingType != ""
}
