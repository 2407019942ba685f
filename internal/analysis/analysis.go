// Package analysis builds the read-only view of a hamster that is handed to
// the external AI analyst, and the prompts derived from it. It never calls
// the service itself.
package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/cheese/internal/keyring"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/utils"
)

const (
	// DefaultModel is the chat model the analyst is asked to use.
	DefaultModel = "gpt-4o"
	// DefaultTemperature is the sampling temperature sent with requests.
	DefaultTemperature = 0.7
	// DefaultLimit is how many recent entries go into a prompt.
	DefaultLimit = 14
)

// ErrNoAPIKey is returned when neither settings nor the keyring hold a key.
var ErrNoAPIKey = errors.New("no API key configured")

// ErrNoData is returned when the hamster has no entries to analyse.
var ErrNoData = errors.New("no entries to analyse yet")

// View is everything the analyst may see about one hamster.
type View struct {
	Name       string
	Background string
	// Entries are oldest first.
	Entries []models.Entry

	AgeDays                int
	HasAge                 bool
	DaysSinceArrival       int
	HasArrival             bool
	DaysSinceBeddingChange int
	HasBeddingChange       bool
	BeddingType            models.BeddingType
}

// BuildView selects the newest limit entries of h and puts them in
// chronological order. limit <= 0 keeps the whole history.
func BuildView(h models.Hamster, now time.Time, limit int) View {
	entries := h.Data
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	ordered := make([]models.Entry, len(entries))
	for i, e := range entries {
		ordered[len(entries)-1-i] = e.Clone()
	}

	v := View{
		Name:        h.Name,
		Background:  strings.TrimSpace(h.HamsterBackground),
		Entries:     ordered,
		BeddingType: h.BeddingType,
	}
	v.AgeDays, v.HasAge = utils.DaysFromToday(h.Birthday, now)
	v.DaysSinceArrival, v.HasArrival = utils.DaysFromToday(h.ArrivalDate, now)
	v.DaysSinceBeddingChange, v.HasBeddingChange = utils.DaysFromToday(h.LastBeddingChange, now)
	return v
}

// SystemPrompt frames the analyst's role. The owner's background note, when
// present, is passed along verbatim.
func SystemPrompt(v View) string {
	var b strings.Builder
	b.WriteString("You are an experienced small-animal veterinarian and hamster care advisor. ")
	b.WriteString("You review a short daily log kept by a hamster owner and give practical, friendly advice. ")
	b.WriteString("Point out trends in weight, food intake and wheel activity, flag anything that warrants a vet visit, ")
	b.WriteString("and keep the answer under 300 words using short headed sections.")
	if v.Background != "" {
		b.WriteString("\n\nBackground from the owner about this hamster:\n")
		b.WriteString(v.Background)
	}
	return b.String()
}

// UserPrompt renders the view as a plain-text log.
func UserPrompt(v View) string {
	var b strings.Builder
	name := v.Name
	if name == "" {
		name = "my hamster"
	}
	fmt.Fprintf(&b, "Here is the recent log for %s.\n", name)
	if v.HasAge {
		fmt.Fprintf(&b, "Age: %d days.\n", v.AgeDays)
	}
	if v.HasArrival {
		fmt.Fprintf(&b, "Days since arriving home: %d.\n", v.DaysSinceArrival)
	}
	if v.HasBeddingChange {
		fmt.Fprintf(&b, "Days since the last bedding change: %d", v.DaysSinceBeddingChange)
		if v.BeddingType != models.BeddingUnset {
			fmt.Fprintf(&b, " (%s bedding)", v.BeddingType)
		}
		b.WriteString(".\n")
	}
	b.WriteString("\n")

	for _, e := range v.Entries {
		date, ok := utils.CivilDateOf(e.Timestamp)
		if !ok {
			date = e.Timestamp
		}
		fmt.Fprintf(&b, "- %s: weight %s g, food %s g, wheel %s turns, poop %s, activity %s, interaction %s, environment %s",
			date, formatFloat(e.Weight), formatFloat(e.FoodIntake), formatInt(e.WheelTurns),
			orDash(string(e.Poop)), orDash(string(e.Activity)), orDash(string(e.Interaction)), orDash(string(e.Environment)))
		if notes := strings.TrimSpace(e.Notes); notes != "" {
			fmt.Fprintf(&b, ", notes: %s", strings.ReplaceAll(notes, "\n", "; "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nHow is my hamster doing, and is there anything I should change?")
	return b.String()
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the chat completion body the analyst expects.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// BuildRequest assembles the request body for v. It fails when there is
// nothing to analyse.
func BuildRequest(v View) (Request, error) {
	if len(v.Entries) == 0 {
		return Request{}, ErrNoData
	}
	return Request{
		Model: DefaultModel,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt(v)},
			{Role: "user", Content: UserPrompt(v)},
		},
		Temperature: DefaultTemperature,
	}, nil
}

// ResolveAPIKey returns the key from settings, falling back to the OS
// keyring. The second value names where it came from.
func ResolveAPIKey(settings models.Settings) (string, string, error) {
	if key := strings.TrimSpace(settings.APIKey); key != "" {
		return key, "settings", nil
	}
	key, err := keyring.GetAPIKey()
	if err == nil {
		return key, "keyring", nil
	}
	if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrKeyringUnavailable) {
		return "", "", ErrNoAPIKey
	}
	return "", "", err
}
