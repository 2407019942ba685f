package migration

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/storage"
)

var fixedNow = time.Date(2024, 6, 1, 4, 0, 0, 0, time.UTC)

func setupEngine(t *testing.T, seed map[string]string) (*Engine, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(seed)
	engine := NewEngine(store)
	engine.Clock = func() time.Time { return fixedNow }
	n := 0
	engine.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return engine, store
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	return string(data)
}

func flatEntries(n int, owner func(i int) any) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		e := map[string]any{
			"id":         fmt.Sprintf("%d", 1700000000000+i),
			"timestamp":  "2024-05-01T02:00:00.000Z",
			"weight":     40.5,
			"foodIntake": nil,
			"wheelTurns": 100 + i,
			"poop":       "Normal",
			"activity":   "High",
			"notes":      fmt.Sprintf("note %d", i),
		}
		if owner != nil {
			e["hamsterId"] = owner(i)
		}
		out[i] = e
	}
	return out
}

func TestGeneration1Migration(t *testing.T) {
	engine, store := setupEngine(t, map[string]string{
		constants.LegacyKeyData: mustJSON(t, flatEntries(5, nil)),
		constants.LegacyKeySettings: mustJSON(t, map[string]any{
			"apiKey":              "sk-1",
			"theme":               "mint",
			"hamsterName":         "Mochi",
			"hamsterBirthday":     "2024-01-01",
			"beddingType":         "thick",
			"hamsterBackground":   "shy at first",
			"onboardingCompleted": true,
		}),
	})

	res, err := engine.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.From != Generation1 || !res.Wrote {
		t.Errorf("Run() from = %v, wrote = %v", res.From, res.Wrote)
	}

	st := res.State
	if len(st.Hamsters) != 1 {
		t.Fatalf("expected 1 hamster, got %d", len(st.Hamsters))
	}
	h := st.Hamsters[0]
	if h.Name != "Mochi" || len(h.Data) != 5 {
		t.Errorf("hamster = %q with %d entries, want Mochi with 5", h.Name, len(h.Data))
	}
	if h.BeddingType != models.BeddingThick || h.HamsterBackground != "shy at first" {
		t.Errorf("profile fields not carried over: %+v", h.Profile())
	}
	if st.CurrentID != h.ID {
		t.Errorf("CurrentID = %q, want %q", st.CurrentID, h.ID)
	}
	if st.Settings.APIKey != "sk-1" || st.Settings.Theme != "mint" {
		t.Errorf("settings = %+v", st.Settings)
	}
	if h.Data[0].ID != "1700000000000" || h.Data[4].Notes != "note 4" {
		t.Errorf("entry order or content changed: first=%s last notes=%q", h.Data[0].ID, h.Data[4].Notes)
	}

	snap := store.Snapshot()
	for _, key := range constants.LegacyKeys {
		if _, ok := snap[key]; ok {
			t.Errorf("legacy key %s still present", key)
		}
	}
	if strings.Contains(snap[constants.KeyHamsters], "hamsterId") {
		t.Error("owner reference leaked into generation 3 entries")
	}

	// Second run is a no-op.
	commits := store.Commits()
	again, err := engine.Run()
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if again.From != Generation3 || again.Wrote || store.Commits() != commits {
		t.Errorf("second run was not a no-op: from=%v wrote=%v", again.From, again.Wrote)
	}
	if !reflect.DeepEqual(again.State, res.State) {
		t.Errorf("state changed on second run:\n got %+v\nwant %+v", again.State, res.State)
	}
}

func TestGeneration1WithoutProfileOrEntries(t *testing.T) {
	engine, _ := setupEngine(t, map[string]string{
		constants.LegacyKeySettings: `{"apiKey":"","theme":"cherry","hamsterName":"","onboardingCompleted":false}`,
	})

	res, err := engine.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.State.Hamsters) != 0 || res.State.CurrentID != "" {
		t.Errorf("expected empty registry, got %+v", res.State)
	}
}

func TestGeneration1DefaultName(t *testing.T) {
	engine, _ := setupEngine(t, map[string]string{
		constants.LegacyKeyData: mustJSON(t, flatEntries(2, nil)),
	})

	res, err := engine.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State.Hamsters[0].Name != constants.DefaultHamsterName {
		t.Errorf("name = %q, want %q", res.State.Hamsters[0].Name, constants.DefaultHamsterName)
	}
	if res.State.Settings.Theme != constants.DefaultTheme {
		t.Errorf("theme = %q, want default", res.State.Settings.Theme)
	}
}

func TestGeneration2Migration(t *testing.T) {
	owners := []string{"a", "b", "a"}
	engine, store := setupEngine(t, map[string]string{
		constants.LegacyKeyData:           mustJSON(t, flatEntries(3, func(i int) any { return owners[i] })),
		constants.LegacyKeyHamsters:       `[{"id":"a","name":"Mochi"},{"id":"b","name":"Pudding"}]`,
		constants.LegacyKeySettings:       `{"apiKey":"sk-2","theme":"cherry"}`,
		constants.LegacyKeyCurrentHamster: "b",
	})

	res, err := engine.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.From != Generation2 {
		t.Errorf("From = %v, want generation 2", res.From)
	}

	got := map[string]int{}
	for _, h := range res.State.Hamsters {
		got[h.ID] = len(h.Data)
	}
	if got["a"] != 2 || got["b"] != 1 || len(got) != 2 {
		t.Errorf("entry distribution = %v, want a:2 b:1", got)
	}
	if res.EntriesBefore != 3 || res.EntriesAfter != 3 {
		t.Errorf("entry counts = %d -> %d, want 3 -> 3", res.EntriesBefore, res.EntriesAfter)
	}
	if res.State.CurrentID != "b" {
		t.Errorf("CurrentID = %q, want b", res.State.CurrentID)
	}
	if _, ok := store.Snapshot()[constants.LegacyKeyHamsters]; ok {
		t.Error("generation 2 hamster list not removed")
	}
}

func TestGeneration2OrphanGroups(t *testing.T) {
	owners := []any{nil, "ghost", "a", nil}
	engine, _ := setupEngine(t, map[string]string{
		constants.LegacyKeyData:           mustJSON(t, flatEntries(4, func(i int) any { return owners[i] })),
		constants.LegacyKeyHamsters:       `[{"id":"a","name":"Mochi"}]`,
		constants.LegacyKeyCurrentHamster: "deleted-long-ago",
	})

	res, err := engine.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State.EntryCount() != 4 {
		t.Fatalf("EntryCount() = %d, want 4", res.State.EntryCount())
	}

	byID := map[string]models.Hamster{}
	for _, h := range res.State.Hamsters {
		byID[h.ID] = h
	}
	if u, ok := byID[constants.UnassignedGroup]; !ok || len(u.Data) != 2 || u.Name != constants.UnassignedName {
		t.Errorf("unassigned group = %+v", u)
	}
	if g, ok := byID["ghost"]; !ok || len(g.Data) != 1 {
		t.Errorf("orphan group = %+v", g)
	}
	if res.State.CurrentID != "a" {
		t.Errorf("dangling selection should fall back to first hamster, got %q", res.State.CurrentID)
	}
	if len(res.Notes) != 2 {
		t.Errorf("expected 2 repair notes, got %v", res.Notes)
	}
}

func TestPromoteGen2AdoptUnowned(t *testing.T) {
	entries, rejected, err := DecodeEntries([]byte(`[
		{"id":"1","hamsterId":"a","timestamp":"2024-05-01"},
		{"id":"2","timestamp":"2024-05-02"},
		{"id":"3","hamsterId":"ghost","timestamp":"2024-05-03"}
	]`))
	if err != nil || len(rejected) != 0 {
		t.Fatalf("DecodeEntries() = %v, rejected %d", err, len(rejected))
	}
	profiles, err := DecodeProfiles([]byte(`[{"id":"a","name":"Mochi"},{"id":"b","name":"Biscuit"}]`))
	if err != nil {
		t.Fatalf("DecodeProfiles() error = %v", err)
	}
	newID := func() string { return "new" }

	tests := []struct {
		name string
		in   Gen2
		want map[string]int
	}{
		{
			"adopted by first hamster",
			Gen2{Entries: entries, Profiles: profiles, AdoptUnowned: true},
			map[string]int{"a": 2, "b": 0, "ghost": 1},
		},
		{
			"no profiles",
			Gen2{Entries: entries, AdoptUnowned: true},
			map[string]int{"a": 1, constants.UnassignedGroup: 1, "ghost": 1},
		},
		{
			"not adopting",
			Gen2{Entries: entries, Profiles: profiles},
			map[string]int{"a": 1, "b": 0, constants.UnassignedGroup: 1, "ghost": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _ := PromoteGen2(tt.in, newID, "2024-06-01T12:00:00+08:00")
			got := map[string]int{}
			for _, h := range state.Hamsters {
				got[h.ID] = len(h.Data)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("entry counts = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeneration2NumericIDs(t *testing.T) {
	engine, _ := setupEngine(t, map[string]string{
		constants.LegacyKeyData:     `[{"id":1700000000000,"hamsterId":42,"notes":"x"}]`,
		constants.LegacyKeyHamsters: `[{"id":42,"name":"Mochi"}]`,
	})

	res, err := engine.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	h := res.State.Hamsters[0]
	if h.ID != "42" || len(h.Data) != 1 || h.Data[0].ID != "1700000000000" {
		t.Errorf("numeric ids not normalised: %+v", h)
	}
}

func TestGeneration3Load(t *testing.T) {
	engine, store := setupEngine(t, map[string]string{
		constants.KeyHamsters:       `[{"id":"a","name":"Mochi"},{"id":"b","name":"Pudding","data":[{"id":"1","notes":"hi"}]}]`,
		constants.KeySettings:       `{"apiKey":"k","theme":"mint"}`,
		constants.KeyCurrentHamster: "missing",
		constants.LegacyKeyData:     `[{"id":"stale"}]`,
	})

	res, err := engine.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.From != Generation3 {
		t.Fatalf("From = %v, want generation 3", res.From)
	}
	if res.State.Hamsters[0].Data == nil {
		t.Error("missing data was not backfilled")
	}
	if res.State.CurrentID != "a" {
		t.Errorf("CurrentID = %q, want a", res.State.CurrentID)
	}
	if res.State.EntryCount() != 1 {
		t.Errorf("stale legacy entries were re-migrated: count = %d", res.State.EntryCount())
	}
	if _, ok := store.Snapshot()[constants.LegacyKeyData]; ok {
		t.Error("stale legacy key not removed")
	}
}

func TestGeneration3QuotedSelection(t *testing.T) {
	engine, _ := setupEngine(t, map[string]string{
		constants.KeyHamsters:       `[{"id":"a","name":"Mochi"},{"id":"b","name":"Pudding"}]`,
		constants.KeyCurrentHamster: `"b"`,
	})

	res, err := engine.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State.CurrentID != "b" {
		t.Errorf("CurrentID = %q, want b", res.State.CurrentID)
	}
	if res.Wrote {
		t.Error("loading generation 3 should not write")
	}
}

func TestFreshInstall(t *testing.T) {
	engine, store := setupEngine(t, nil)

	res, err := engine.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.From != GenerationFresh || res.Wrote || store.Commits() != 0 {
		t.Errorf("fresh run = %+v, commits = %d", res, store.Commits())
	}
	if len(res.State.Hamsters) != 0 || res.State.Settings.Theme != constants.DefaultTheme {
		t.Errorf("unexpected fresh state: %+v", res.State)
	}
}

func TestMalformedDocumentsAreQuarantined(t *testing.T) {
	tests := []struct {
		name      string
		seed      map[string]string
		wantFrom  Generation
		wantKeys  []string
		wantCount int
	}{
		{
			name:      "broken generation 3 list",
			seed:      map[string]string{constants.KeyHamsters: "{oops"},
			wantFrom:  GenerationFresh,
			wantKeys:  []string{constants.QuarantinePrefix + constants.KeyHamsters},
			wantCount: 0,
		},
		{
			name: "broken generation 1 data",
			seed: map[string]string{
				constants.LegacyKeyData:     "not json",
				constants.LegacyKeySettings: `{"hamsterName":"Mochi"}`,
			},
			wantFrom:  Generation1,
			wantKeys:  []string{constants.QuarantinePrefix + constants.LegacyKeyData},
			wantCount: 0,
		},
		{
			name: "one bad entry among good ones",
			seed: map[string]string{
				constants.LegacyKeyData: `[{"id":"1"},{"id":{"nested":true}},{"id":"2"}]`,
			},
			wantFrom:  Generation1,
			wantKeys:  []string{constants.QuarantinePrefix + constants.LegacyKeyData},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store := setupEngine(t, tt.seed)

			res, err := engine.Run()
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.From != tt.wantFrom {
				t.Errorf("From = %v, want %v", res.From, tt.wantFrom)
			}
			if res.State.EntryCount() != tt.wantCount {
				t.Errorf("EntryCount() = %d, want %d", res.State.EntryCount(), tt.wantCount)
			}
			snap := store.Snapshot()
			for _, key := range tt.wantKeys {
				if _, ok := snap[key]; !ok {
					t.Errorf("expected quarantine key %s, have %v", key, snap)
				}
			}
		})
	}
}

func TestRunCommitFailureLeavesStorage(t *testing.T) {
	seed := map[string]string{constants.LegacyKeyData: mustJSON(t, flatEntries(1, nil))}
	engine, store := setupEngine(t, seed)
	store.FailCommits = true

	if _, err := engine.Run(); err == nil {
		t.Fatal("Run() should fail when the commit fails")
	}
	if !reflect.DeepEqual(store.Snapshot(), seed) {
		t.Error("storage modified by failed migration")
	}
}

func TestFinishRejectsLostEntries(t *testing.T) {
	engine, _ := setupEngine(t, nil)
	state := models.NewState()
	state.Hamsters = []models.Hamster{{ID: "a", Data: []models.Entry{{ID: "1"}}}}

	_, err := engine.finish(storage.NewBatch(), 2, state)
	if !errors.Is(err, ErrEntriesLost) {
		t.Errorf("finish() error = %v, want ErrEntriesLost", err)
	}
}

func TestDecodeSelection(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"null":      "",
		"abc":       "abc",
		`"abc"`:     "abc",
		" abc \n":   "abc",
		"undefined": "",
	}
	for in, want := range tests {
		if got := DecodeSelection(in); got != want {
			t.Errorf("DecodeSelection(%q) = %q, want %q", in, got, want)
		}
	}
}
