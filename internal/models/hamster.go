package models

import (
	"fmt"
	"strings"
)

type BeddingType string

const (
	BeddingUnset BeddingType = ""
	BeddingThick BeddingType = "thick"
	BeddingThin  BeddingType = "thin"
)

// Valid reports whether b is thick, thin or unset.
func (b BeddingType) Valid() bool {
	return b == BeddingUnset || b == BeddingThick || b == BeddingThin
}

// ParseBeddingType accepts thick, thin, or an empty/"unset" value.
func ParseBeddingType(s string) (BeddingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset", "none":
		return BeddingUnset, nil
	case "thick":
		return BeddingThick, nil
	case "thin":
		return BeddingThin, nil
	default:
		return BeddingUnset, fmt.Errorf("invalid bedding type %q (expected thick, thin or unset)", s)
	}
}

// Hamster is one tracked pet. It owns its entry history; entries are never
// shared between hamsters.
type Hamster struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Photo             string      `json:"photo"` // data URL
	Birthday          string      `json:"birthday"`
	ArrivalDate       string      `json:"arrivalDate"`
	BeddingType       BeddingType `json:"beddingType"`
	LastBeddingChange string      `json:"lastBeddingChange"`
	HamsterBackground string      `json:"hamsterBackground"`
	Data              []Entry     `json:"data"` // newest first
	CreatedAt         string      `json:"createdAt"`
}

// Profile is the descriptive part of a hamster, without identity or history.
type Profile struct {
	Name              string
	Photo             string
	Birthday          string
	ArrivalDate       string
	BeddingType       BeddingType
	LastBeddingChange string
	HamsterBackground string
}

// ProfilePatch updates the non-nil profile fields of a hamster.
type ProfilePatch struct {
	Name              *string
	Photo             *string
	Birthday          *string
	ArrivalDate       *string
	BeddingType       *BeddingType
	LastBeddingChange *string
	HamsterBackground *string
}

// IsEmpty reports whether the patch sets no field.
func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.Photo == nil && p.Birthday == nil && p.ArrivalDate == nil &&
		p.BeddingType == nil && p.LastBeddingChange == nil && p.HamsterBackground == nil
}

// Validate checks the bedding type of the patch.
func (p ProfilePatch) Validate() error {
	if p.BeddingType != nil && !p.BeddingType.Valid() {
		return fmt.Errorf("invalid bedding type: %s", *p.BeddingType)
	}
	return nil
}

// Apply merges the patch into h, leaving unset fields untouched.
func (p ProfilePatch) Apply(h *Hamster) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Photo != nil {
		h.Photo = *p.Photo
	}
	if p.Birthday != nil {
		h.Birthday = *p.Birthday
	}
	if p.ArrivalDate != nil {
		h.ArrivalDate = *p.ArrivalDate
	}
	if p.BeddingType != nil {
		h.BeddingType = *p.BeddingType
	}
	if p.LastBeddingChange != nil {
		h.LastBeddingChange = *p.LastBeddingChange
	}
	if p.HamsterBackground != nil {
		h.HamsterBackground = *p.HamsterBackground
	}
}

// Patch converts a full profile into a patch that sets every field.
func (p Profile) Patch() ProfilePatch {
	bedding := p.BeddingType
	return ProfilePatch{
		Name:              String(p.Name),
		Photo:             String(p.Photo),
		Birthday:          String(p.Birthday),
		ArrivalDate:       String(p.ArrivalDate),
		BeddingType:       &bedding,
		LastBeddingChange: String(p.LastBeddingChange),
		HamsterBackground: String(p.HamsterBackground),
	}
}

// Profile extracts the descriptive fields of h.
func (h Hamster) Profile() Profile {
	return Profile{
		Name:              h.Name,
		Photo:             h.Photo,
		Birthday:          h.Birthday,
		ArrivalDate:       h.ArrivalDate,
		BeddingType:       h.BeddingType,
		LastBeddingChange: h.LastBeddingChange,
		HamsterBackground: h.HamsterBackground,
	}
}

// Clone deep-copies the hamster including its history.
func (h Hamster) Clone() Hamster {
	out := h
	out.Data = CloneEntries(h.Data)
	return out
}

// CloneEntries deep-copies an entry slice. A nil input yields an empty slice.
func CloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// FindEntry returns the index of the entry with the given id, or -1.
func (h Hamster) FindEntry(id string) int {
	for i, e := range h.Data {
		if e.ID == id {
			return i
		}
	}
	return -1
}
