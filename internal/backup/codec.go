package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/migration"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/utils"
)

// Kind classifies an import document.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindBackup
	KindEntriesOnly
	KindSettingsOnly
)

func (k Kind) String() string {
	switch k {
	case KindBackup:
		return "backup"
	case KindEntriesOnly:
		return "entries-only"
	case KindSettingsOnly:
		return "settings-only"
	default:
		return "unrecognized"
	}
}

// Backup is the validated payload of a full backup document in any
// generation.
type Backup struct {
	Generation migration.Generation
	// Hamsters replaces the registry when Replace is set and is appended to
	// it otherwise.
	Hamsters []models.Hamster
	Replace  bool
	// AdoptCurrent gives the single synthesized hamster of a generation 1
	// backup the id of the live selection, so its history is unioned with
	// the live one instead of duplicated.
	AdoptCurrent bool
	// Entries have no owner in the document and go to the target hamster.
	Entries   []models.Entry
	Settings  models.SettingsPatch
	CurrentID string
	Notes     []string
}

// settings returns the global settings the backup carries, with defaults
// for absent fields.
func (b Backup) settings() models.Settings {
	s := models.DefaultSettings()
	b.Settings.Apply(&s)
	models.ApplyDefaultSettings(&s)
	return s
}

// Decoded is the result of Decode. Exactly one payload is set, per Kind.
type Decoded struct {
	Kind     Kind
	Backup   Backup
	Entries  []models.Entry
	Settings models.LegacySettingsPatch
}

// settingsFields are the keys that mark an object as a settings document.
var settingsFields = []string{
	"apiKey", "theme", "onboardingCompleted",
	"hamsterName", "hamsterPhoto", "hamsterBirthday", "arrivalDate",
	"beddingType", "lastBeddingChange", "hamsterBackground",
}

// Codec decodes and merges import documents.
type Codec struct {
	Clock         utils.Clock
	NewID         migration.IDFunc
	MaxPhotoBytes int
}

func NewCodec() *Codec {
	return &Codec{
		Clock:         utils.SystemClock,
		NewID:         uuid.NewString,
		MaxPhotoBytes: constants.DefaultMaxPhotoBytes,
	}
}

// Decode classifies raw and validates its payload. Shapes are tried in a
// fixed order: current backup, legacy backup, settings object, entry list.
func (c *Codec) Decode(raw []byte) (Decoded, error) {
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		var probe any
		return Decoded{}, parseError(json.Unmarshal(raw, &probe))
	}

	switch raw[0] {
	case '[':
		entries, err := decodeEntryList(raw, "entry list")
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Kind: KindEntriesOnly, Entries: migration.StripOwners(entries)}, nil
	case '{':
	default:
		return Decoded{}, &ImportError{Outcome: OutcomeFormatUnrecognized, Reason: "document is neither an object nor a list"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Decoded{}, parseError(err)
	}

	_, hasHamsters := fields["hamsters"]
	_, hasData := fields["data"]
	_, hasSettings := fields["settings"]

	switch {
	case hasHamsters && !hasData:
		b, err := c.decodeCurrent(fields)
		return Decoded{Kind: KindBackup, Backup: b}, err
	case hasHamsters && hasData:
		b, err := c.decodeGen2(fields)
		return Decoded{Kind: KindBackup, Backup: b}, err
	case hasData && hasSettings:
		b, err := c.decodeGen1(fields)
		return Decoded{Kind: KindBackup, Backup: b}, err
	}
	if hasData {
		return Decoded{}, &ImportError{Outcome: OutcomeFormatUnrecognized, Reason: "data list without a settings object"}
	}

	for _, key := range settingsFields {
		if _, ok := fields[key]; ok {
			settings, err := migration.DecodeSettings(raw)
			if err != nil {
				return Decoded{}, parseError(err)
			}
			return Decoded{Kind: KindSettingsOnly, Settings: settings}, nil
		}
	}
	return Decoded{}, &ImportError{Outcome: OutcomeFormatUnrecognized, Reason: "no hamsters, data or settings found"}
}

type hamsterWire struct {
	migration.LegacyProfile
	Data json.RawMessage `json:"data"`
}

func (c *Codec) decodeCurrent(fields map[string]json.RawMessage) (Backup, error) {
	b := Backup{Generation: migration.Generation3, Replace: true}

	var wires []hamsterWire
	if err := json.Unmarshal(fields["hamsters"], &wires); err != nil {
		return b, parseError(fmt.Errorf("hamsters must be a list: %w", err))
	}

	seen := map[string]bool{}
	for i, w := range wires {
		if w.ID == "" {
			return b, fieldMissing("hamster %d has no id", i+1)
		}
		id := string(w.ID)
		if seen[id] {
			return b, fieldMissing("hamster id %s appears more than once", id)
		}
		seen[id] = true

		var data []models.Entry
		if len(w.Data) > 0 && string(w.Data) != "null" {
			entries, err := decodeEntryList(w.Data, fmt.Sprintf("history of hamster %s", id))
			if err != nil {
				return b, err
			}
			data = migration.StripOwners(entries)
		}
		b.Hamsters = append(b.Hamsters, w.Hamster(data))
	}
	if b.Hamsters == nil {
		b.Hamsters = []models.Hamster{}
	}

	settings, err := decodeSettingsField(fields)
	if err != nil {
		return b, err
	}
	_, b.Settings = settings.Split()

	for _, key := range []string{"currentHamsterId", "currentSubjectId"} {
		if raw, ok := fields[key]; ok {
			b.CurrentID = migration.DecodeSelection(string(raw))
			break
		}
	}
	return b, c.checkPhotos(b.Hamsters)
}

func (c *Codec) decodeGen2(fields map[string]json.RawMessage) (Backup, error) {
	profiles, err := migration.DecodeProfiles(fields["hamsters"])
	if err != nil {
		return Backup{}, parseError(err)
	}
	entries, err := decodeEntryList(fields["data"], "data")
	if err != nil {
		return Backup{}, err
	}
	settings, err := decodeSettingsField(fields)
	if err != nil {
		return Backup{}, err
	}

	var current string
	if raw, ok := fields["currentHamsterId"]; ok {
		current = migration.DecodeSelection(string(raw))
	}

	state, notes := migration.PromoteGen2(migration.Gen2{
		Entries:      entries,
		Profiles:     profiles,
		Settings:     settings,
		Current:      current,
		AdoptUnowned: true,
	}, c.NewID, utils.Timestamp(c.Clock()))

	_, global := settings.Split()
	b := Backup{
		Generation: migration.Generation2,
		Hamsters:   state.Hamsters,
		Replace:    true,
		Settings:   global,
		CurrentID:  current,
		Notes:      notes,
	}
	return b, c.checkPhotos(b.Hamsters)
}

func (c *Codec) decodeGen1(fields map[string]json.RawMessage) (Backup, error) {
	entries, err := decodeEntryList(fields["data"], "data")
	if err != nil {
		return Backup{}, err
	}
	settings, err := decodeSettingsField(fields)
	if err != nil {
		return Backup{}, err
	}

	profile, global := settings.Split()
	b := Backup{Generation: migration.Generation1, Settings: global}
	if !hasProfileValue(profile) {
		b.Entries = migration.StripOwners(entries)
		return b, nil
	}

	state := migration.PromoteGen1(migration.Gen1{Entries: entries, Settings: settings}, c.NewID, utils.Timestamp(c.Clock()))
	b.Hamsters = state.Hamsters
	b.CurrentID = state.CurrentID
	b.Replace = true
	b.AdoptCurrent = true
	return b, c.checkPhotos(b.Hamsters)
}

func decodeEntryList(raw json.RawMessage, what string) ([]migration.LegacyEntry, error) {
	entries, rejected, err := migration.DecodeEntries(raw)
	if err != nil {
		return nil, parseError(fmt.Errorf("%s: %w", what, err))
	}
	if len(rejected) > 0 {
		return nil, fieldMissing("%d of %d entries in %s have no id or malformed fields", len(rejected), len(rejected)+len(entries), what)
	}
	return entries, nil
}

func decodeSettingsField(fields map[string]json.RawMessage) (models.LegacySettingsPatch, error) {
	raw, ok := fields["settings"]
	if !ok || string(raw) == "null" {
		return models.LegacySettingsPatch{}, nil
	}
	settings, err := migration.DecodeSettings(raw)
	if err != nil {
		return settings, parseError(err)
	}
	return settings, nil
}

func hasProfileValue(p models.ProfilePatch) bool {
	for _, v := range []*string{p.Name, p.Photo, p.Birthday, p.ArrivalDate, p.LastBeddingChange, p.HamsterBackground} {
		if v != nil && *v != "" {
			return true
		}
	}
	return p.BeddingType != nil && *p.BeddingType != ""
}

func (c *Codec) checkPhotos(hamsters []models.Hamster) error {
	if c.MaxPhotoBytes <= 0 {
		return nil
	}
	for _, h := range hamsters {
		if size := models.PhotoSize(h.Photo); size > c.MaxPhotoBytes {
			return invalidField("photo of hamster %s is %d bytes, limit is %d", h.ID, size, c.MaxPhotoBytes)
		}
	}
	return nil
}

// Merge folds a decoded document into live state and returns the result.
// live is not modified. Registry and profiles are replaced, entries are
// added, and entries whose id the target already holds are skipped.
func (c *Codec) Merge(live models.State, d Decoded) (models.State, []string, error) {
	state := live.Clone()
	state.Normalize()

	switch d.Kind {
	case KindBackup:
		notes := c.mergeBackup(&state, d.Backup)
		return state, notes, nil
	case KindEntriesOnly:
		notes := c.addToTarget(&state, d.Entries)
		return state, notes, nil
	case KindSettingsOnly:
		return state, nil, c.mergeSettings(&state, d.Settings)
	default:
		return live, nil, &ImportError{Outcome: OutcomeFormatUnrecognized}
	}
}

func (c *Codec) mergeBackup(state *models.State, b Backup) []string {
	notes := append([]string(nil), b.Notes...)

	if b.Replace {
		previous := state.Hamsters
		adopt := ""
		if b.AdoptCurrent && len(b.Hamsters) == 1 && state.Index(state.CurrentID) >= 0 {
			adopt = state.CurrentID
		}
		state.Hamsters = make([]models.Hamster, 0, len(b.Hamsters))
		for _, h := range b.Hamsters {
			h = h.Clone()
			if adopt != "" {
				h.ID = adopt
				b.CurrentID = adopt
			}
			for _, old := range previous {
				if old.ID == h.ID {
					if adopt != "" {
						h.CreatedAt = old.CreatedAt
					}
					if n := appendNew(&h, old.Data); n > 0 {
						notes = append(notes, fmt.Sprintf("kept %d existing entries of %s", n, h.Name))
					}
				}
			}
			state.Hamsters = append(state.Hamsters, h)
		}
	} else {
		for _, h := range b.Hamsters {
			state.Hamsters = append(state.Hamsters, h.Clone())
		}
	}

	if len(b.Entries) > 0 {
		notes = append(notes, c.addToTarget(state, b.Entries)...)
	}

	b.Settings.Apply(&state.Settings)
	models.ApplyDefaultSettings(&state.Settings)

	switch {
	case state.Index(b.CurrentID) >= 0:
		state.CurrentID = b.CurrentID
	case b.CurrentID == "" && b.Replace:
		state.CurrentID = ""
	case b.CurrentID != "":
		state.CurrentID = ""
		notes = append(notes, fmt.Sprintf("selected hamster %s is not in the backup", b.CurrentID))
	}
	state.Normalize()
	return notes
}

// addToTarget appends entries to the current hamster. An empty registry gets
// a default hamster to hold them.
func (c *Codec) addToTarget(state *models.State, entries []models.Entry) []string {
	var notes []string
	idx := state.Index(state.CurrentID)
	if idx < 0 {
		state.Hamsters = append(state.Hamsters, models.Hamster{
			ID:        c.NewID(),
			Name:      constants.DefaultHamsterName,
			Data:      []models.Entry{},
			CreatedAt: utils.Timestamp(c.Clock()),
		})
		idx = len(state.Hamsters) - 1
		state.CurrentID = state.Hamsters[idx].ID
		notes = append(notes, fmt.Sprintf("created %q to hold the imported entries", constants.DefaultHamsterName))
	}

	h := &state.Hamsters[idx]
	before := len(entries)
	added := appendNew(h, entries)
	if skipped := before - added; skipped > 0 {
		notes = append(notes, fmt.Sprintf("skipped %d entries already present", skipped))
	}
	return notes
}

// appendNew adds the entries whose id h does not hold yet after the existing
// history, leaving the head entry in place. It returns how many were added.
func appendNew(h *models.Hamster, entries []models.Entry) int {
	have := make(map[string]bool, len(h.Data))
	for _, e := range h.Data {
		have[e.ID] = true
	}
	added := 0
	for _, e := range entries {
		if have[e.ID] {
			continue
		}
		have[e.ID] = true
		h.Data = append(h.Data, e.Clone())
		added++
	}
	return added
}

func (c *Codec) mergeSettings(state *models.State, s models.LegacySettingsPatch) error {
	profile, global := s.Split()
	if err := profile.Validate(); err != nil {
		return parseError(err)
	}
	if profile.Photo != nil && c.MaxPhotoBytes > 0 && models.PhotoSize(*profile.Photo) > c.MaxPhotoBytes {
		return invalidField("hamster photo exceeds %d bytes", c.MaxPhotoBytes)
	}

	global.Apply(&state.Settings)
	models.ApplyDefaultSettings(&state.Settings)

	if !hasProfileValue(profile) {
		return nil
	}
	idx := state.Index(state.CurrentID)
	if idx < 0 {
		h := models.Hamster{
			ID:        c.NewID(),
			Data:      []models.Entry{},
			CreatedAt: utils.Timestamp(c.Clock()),
		}
		profile.Apply(&h)
		if strings.TrimSpace(h.Name) == "" {
			h.Name = constants.DefaultHamsterName
		}
		state.Hamsters = append(state.Hamsters, h)
		state.CurrentID = h.ID
		return nil
	}
	profile.Apply(&state.Hamsters[idx])
	return nil
}
