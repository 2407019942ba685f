package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/utils"
)

// Document is a portable export of the full registry, global settings and
// selection.
type Document struct {
	Version          string           `json:"version"`
	ExportDate       string           `json:"exportDate"`
	Settings         models.Settings  `json:"settings"`
	Hamsters         []models.Hamster `json:"hamsters"`
	CurrentHamsterID *string          `json:"currentHamsterId"`
}

// Export captures state as a backup document stamped with now.
func Export(state models.State, now time.Time) Document {
	state = state.Clone()
	for i := range state.Hamsters {
		if state.Hamsters[i].Data == nil {
			state.Hamsters[i].Data = []models.Entry{}
		}
	}

	doc := Document{
		Version:    constants.BackupVersion,
		ExportDate: utils.Timestamp(now),
		Settings:   state.Settings,
		Hamsters:   state.Hamsters,
	}
	if state.Index(state.CurrentID) >= 0 {
		id := state.CurrentID
		doc.CurrentHamsterID = &id
	}
	return doc
}

// State returns the document's content as normalized state.
func (d Document) State() models.State {
	state := models.State{
		Hamsters: models.NewState().Hamsters,
		Settings: d.Settings,
	}
	for _, h := range d.Hamsters {
		state.Hamsters = append(state.Hamsters, h.Clone())
	}
	if d.CurrentHamsterID != nil {
		state.CurrentID = *d.CurrentHamsterID
	}
	state.Normalize()
	return state
}

// Encode renders the document as indented JSON.
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteDocument encodes doc to path.
func WriteDocument(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return writeFile(path, data, "backup")
}

// WriteEntries writes a bare entry list, the shape Decode reads back as an
// entries-only document.
func WriteEntries(path string, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	return writeFile(path, append(data, '\n'), "entries")
}

// WriteSettings writes a flat settings object, the shape Decode reads back
// as a settings-only document.
func WriteSettings(path string, settings models.LegacySettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return writeFile(path, append(data, '\n'), "settings")
}

func writeFile(path string, data []byte, what string) error {
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s file: %w", what, err)
	}
	return nil
}

// ReadDocument reads an import file. Only .json files up to maxBytes are
// accepted; maxBytes <= 0 disables the size check.
func ReadDocument(path string, maxBytes int64) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, &ImportError{Outcome: OutcomeFormatUnrecognized, Reason: "please choose a .json file"}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("import file is larger than %d bytes", maxBytes)
	}
	return data, nil
}
