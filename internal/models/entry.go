package models

import (
	"fmt"
	"strings"
)

type Poop string

const (
	PoopNormal Poop = "Normal"
	PoopSoft   Poop = "Soft"
	PoopNone   Poop = "None"
)

type Activity string

const (
	ActivityNormal Activity = "Normal"
	ActivityHigh   Activity = "High"
	ActivityLow    Activity = "Low"
)

type Interaction string

const (
	InteractionNone      Interaction = "None"
	InteractionHeld      Interaction = "Held"
	InteractionStressful Interaction = "Stressful"
)

type Environment string

const (
	EnvironmentNormal Environment = "Normal"
	EnvironmentBright Environment = "Bright"
	EnvironmentLoud   Environment = "Loud"
	EnvironmentHot    Environment = "Hot"
	EnvironmentCold   Environment = "Cold"
)

var (
	poopValues        = []Poop{PoopNormal, PoopSoft, PoopNone}
	activityValues    = []Activity{ActivityNormal, ActivityHigh, ActivityLow}
	interactionValues = []Interaction{InteractionNone, InteractionHeld, InteractionStressful}
	environmentValues = []Environment{EnvironmentNormal, EnvironmentBright, EnvironmentLoud, EnvironmentHot, EnvironmentCold}
)

// Entry is one dated observation of a hamster. Numeric fields are nil when
// the observation was not recorded, and serialize as JSON null.
type Entry struct {
	ID          string      `json:"id"`
	Timestamp   string      `json:"timestamp"`  // RFC3339, civil date in UTC+8
	Weight      *float64    `json:"weight"`     // grams
	FoodIntake  *float64    `json:"foodIntake"` // grams, accumulates
	WheelTurns  *int        `json:"wheelTurns"`
	Poop        Poop        `json:"poop"`
	Activity    Activity    `json:"activity"`
	Interaction Interaction `json:"interaction"`
	Environment Environment `json:"environment"`
	Notes       string      `json:"notes"`
}

// EntryDraft is the full-form input for a new entry. Empty enum values fall
// back to their defaults and an empty Timestamp means "now".
type EntryDraft struct {
	Timestamp   string
	Weight      *float64
	FoodIntake  *float64
	WheelTurns  *int
	Poop        Poop
	Activity    Activity
	Interaction Interaction
	Environment Environment
	Notes       string
}

// EntryPatch updates the non-nil fields of an existing entry.
type EntryPatch struct {
	Timestamp   *string
	Weight      *float64
	FoodIntake  *float64
	WheelTurns  *int
	Poop        *Poop
	Activity    *Activity
	Interaction *Interaction
	Environment *Environment
	Notes       *string
}

// Delta is a quick update accumulated into the newest entry. Zero fields are skipped.
type Delta struct {
	FoodIntake float64
	WheelTurns int
	Note       string
}

// IsEmpty reports whether the delta would change nothing.
func (d Delta) IsEmpty() bool {
	return d.FoodIntake == 0 && d.WheelTurns == 0 && d.Note == ""
}

// ApplyDefaults fills unset categories with their defaults.
func (d *EntryDraft) ApplyDefaults() {
	if d.Poop == "" {
		d.Poop = PoopNormal
	}
	if d.Activity == "" {
		d.Activity = ActivityNormal
	}
	if d.Interaction == "" {
		d.Interaction = InteractionNone
	}
	if d.Environment == "" {
		d.Environment = EnvironmentNormal
	}
}

// Validate checks the draft's categories and numeric ranges.
func (d EntryDraft) Validate() error {
	if d.Poop != "" && !d.Poop.Valid() {
		return fmt.Errorf("invalid poop value: %s", d.Poop)
	}
	if d.Activity != "" && !d.Activity.Valid() {
		return fmt.Errorf("invalid activity value: %s", d.Activity)
	}
	if d.Interaction != "" && !d.Interaction.Valid() {
		return fmt.Errorf("invalid interaction value: %s", d.Interaction)
	}
	if d.Environment != "" && !d.Environment.Valid() {
		return fmt.Errorf("invalid environment value: %s", d.Environment)
	}
	if d.Weight != nil && *d.Weight < 0 {
		return fmt.Errorf("weight cannot be negative")
	}
	if d.FoodIntake != nil && *d.FoodIntake < 0 {
		return fmt.Errorf("food intake cannot be negative")
	}
	if d.WheelTurns != nil && *d.WheelTurns < 0 {
		return fmt.Errorf("wheel turns cannot be negative")
	}
	return nil
}

// Validate checks the categories set on the patch.
func (p EntryPatch) Validate() error {
	if p.Poop != nil && !p.Poop.Valid() {
		return fmt.Errorf("invalid poop value: %s", *p.Poop)
	}
	if p.Activity != nil && !p.Activity.Valid() {
		return fmt.Errorf("invalid activity value: %s", *p.Activity)
	}
	if p.Interaction != nil && !p.Interaction.Valid() {
		return fmt.Errorf("invalid interaction value: %s", *p.Interaction)
	}
	if p.Environment != nil && !p.Environment.Valid() {
		return fmt.Errorf("invalid environment value: %s", *p.Environment)
	}
	return nil
}

// Apply merges the patch into the entry.
func (p EntryPatch) Apply(e *Entry) {
	if p.Timestamp != nil {
		e.Timestamp = *p.Timestamp
	}
	if p.Weight != nil {
		e.Weight = Float(*p.Weight)
	}
	if p.FoodIntake != nil {
		e.FoodIntake = Float(*p.FoodIntake)
	}
	if p.WheelTurns != nil {
		e.WheelTurns = Int(*p.WheelTurns)
	}
	if p.Poop != nil {
		e.Poop = *p.Poop
	}
	if p.Activity != nil {
		e.Activity = *p.Activity
	}
	if p.Interaction != nil {
		e.Interaction = *p.Interaction
	}
	if p.Environment != nil {
		e.Environment = *p.Environment
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
}

// Clone returns a copy of the entry that shares no pointers with the original.
func (e Entry) Clone() Entry {
	out := e
	if e.Weight != nil {
		out.Weight = Float(*e.Weight)
	}
	if e.FoodIntake != nil {
		out.FoodIntake = Float(*e.FoodIntake)
	}
	if e.WheelTurns != nil {
		out.WheelTurns = Int(*e.WheelTurns)
	}
	return out
}

func (p Poop) Valid() bool        { return containsValue(poopValues, p) }
func (a Activity) Valid() bool    { return containsValue(activityValues, a) }
func (i Interaction) Valid() bool { return containsValue(interactionValues, i) }
func (e Environment) Valid() bool { return containsValue(environmentValues, e) }

// ParsePoop parses a category name case-insensitively.
func ParsePoop(s string) (Poop, error) {
	return parseValue(poopValues, s, "poop")
}

// ParseActivity parses a category name case-insensitively.
func ParseActivity(s string) (Activity, error) {
	return parseValue(activityValues, s, "activity")
}

// ParseInteraction parses a category name case-insensitively.
func ParseInteraction(s string) (Interaction, error) {
	return parseValue(interactionValues, s, "interaction")
}

// ParseEnvironment parses a category name case-insensitively.
func ParseEnvironment(s string) (Environment, error) {
	return parseValue(environmentValues, s, "environment")
}

func containsValue[T ~string](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func parseValue[T ~string](values []T, s, field string) (T, error) {
	s = strings.TrimSpace(s)
	for _, candidate := range values {
		if strings.EqualFold(string(candidate), s) {
			return candidate, nil
		}
	}
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return "", fmt.Errorf("invalid %s value %q (expected one of %s)", field, s, strings.Join(names, ", "))
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
