package system

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-ps"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/config"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/storage"
	"github.com/julianstephens/cheese/internal/storage/sqlite"
)

type fakeProcess struct {
	pid  int
	exec string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.exec }

func withProcesses(t *testing.T, procs []ps.Process, err error) {
	t.Helper()
	prev := processesFunc
	processesFunc = func() ([]ps.Process, error) { return procs, err }
	t.Cleanup(func() { processesFunc = prev })
}

func setupTestDoctorDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{
		Store:  store,
		Config: config.Default(),
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func TestDoctorCmd_HealthyStorage(t *testing.T) {
	gokeyring.MockInit()
	withProcesses(t, nil, nil)
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	tr, err := ctx.Tracker()
	if err != nil {
		t.Fatalf("failed to open tracker: %v", err)
	}
	if _, err := tr.AddHamster(models.Profile{Name: "Mochi"}); err != nil {
		t.Fatalf("failed to add hamster: %v", err)
	}
	if _, err := tr.AddEntry("", models.EntryDraft{Weight: models.Float(40)}); err != nil {
		t.Fatalf("failed to add entry: %v", err)
	}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("doctor failed on healthy storage: %v", err)
	}
}

func TestDoctorCmd_UninitializedStorage(t *testing.T) {
	gokeyring.MockInit()
	withProcesses(t, nil, nil)

	ctx := &cli.Context{
		Store:  sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db")),
		Config: config.Default(),
	}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err == nil {
		t.Error("doctor should fail when storage is not initialized")
	}
}

func TestCheckQuarantine(t *testing.T) {
	clean := &cli.Context{Store: storage.NewMemoryStore(nil)}
	if err := checkQuarantine(clean); err != nil {
		t.Errorf("checkQuarantine() on clean store = %v", err)
	}

	dirty := &cli.Context{Store: storage.NewMemoryStore(map[string]string{
		"quarantine.hamsters": "{broken",
	})}
	err := checkQuarantine(dirty)
	if err == nil || !strings.Contains(err.Error(), "quarantine.hamsters") {
		t.Errorf("checkQuarantine() = %v, want the quarantined key reported", err)
	}
}

func TestCheckOtherInstances(t *testing.T) {
	tests := []struct {
		name    string
		procs   []ps.Process
		listErr error
		wantErr bool
	}{
		{"no processes", nil, nil, false},
		{"unrelated processes", []ps.Process{fakeProcess{100, "bash"}, fakeProcess{101, "cheesecake"}}, nil, false},
		{"self is ignored", []ps.Process{fakeProcess{os.Getpid(), "cheese"}}, nil, false},
		{"other instance", []ps.Process{fakeProcess{4242, "cheese"}}, nil, true},
		{"windows executable", []ps.Process{fakeProcess{4243, "cheese.exe"}}, nil, true},
		{"listing fails", nil, errors.New("permission denied"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcesses(t, tt.procs, tt.listErr)
			err := checkOtherInstances(&cli.Context{})
			if (err != nil) != tt.wantErr {
				t.Errorf("checkOtherInstances() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateState(t *testing.T) {
	entry := func(id, ts string) models.Entry {
		return models.Entry{ID: id, Timestamp: ts}
	}

	tests := []struct {
		name  string
		state models.State
		want  []string
	}{
		{
			name:  "empty state",
			state: models.NewState(),
		},
		{
			name: "consistent state",
			state: models.State{
				Hamsters: []models.Hamster{{ID: "h1", Data: []models.Entry{
					entry("e2", "2024-05-02T10:00:00+08:00"),
					entry("e1", "2024-05-01T10:00:00+08:00"),
				}}},
				CurrentID: "h1",
			},
		},
		{
			name: "duplicate hamster ids",
			state: models.State{
				Hamsters:  []models.Hamster{{ID: "h1"}, {ID: "h1"}},
				CurrentID: "h1",
			},
			want: []string{"duplicate hamster id h1"},
		},
		{
			name: "entry shared between hamsters",
			state: models.State{
				Hamsters: []models.Hamster{
					{ID: "h1", Data: []models.Entry{entry("e1", "2024-05-01")}},
					{ID: "h2", Data: []models.Entry{entry("e1", "2024-05-01")}},
				},
				CurrentID: "h1",
			},
			want: []string{"entry id e1 appears in h1 and h2"},
		},
		{
			name: "unreadable timestamp",
			state: models.State{
				Hamsters:  []models.Hamster{{ID: "h1", Data: []models.Entry{entry("e1", "yesterday")}}},
				CurrentID: "h1",
			},
			want: []string{`entry e1 of h1 has an unreadable timestamp "yesterday"`},
		},
		{
			name: "history out of order",
			state: models.State{
				Hamsters: []models.Hamster{{ID: "h1", Data: []models.Entry{
					entry("e1", "2024-05-01"),
					entry("e2", "2024-05-02"),
				}}},
				CurrentID: "h1",
			},
			want: []string{"history of h1 is not newest first at entry e2"},
		},
		{
			name: "dangling selection",
			state: models.State{
				Hamsters:  []models.Hamster{{ID: "h1"}},
				CurrentID: "gone",
			},
			want: []string{`current hamster "gone" does not exist`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateState(tt.state, 0)
			if len(got) != len(tt.want) {
				t.Fatalf("ValidateState() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("problem %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateStatePhotoLimit(t *testing.T) {
	state := models.State{
		Hamsters:  []models.Hamster{{ID: "h1", Photo: strings.Repeat("x", 64)}},
		CurrentID: "h1",
	}
	if got := ValidateState(state, 32); len(got) != 1 {
		t.Errorf("ValidateState() = %q, want one photo problem", got)
	}
	if got := ValidateState(state, 128); len(got) != 0 {
		t.Errorf("ValidateState() = %q, want none", got)
	}
}
