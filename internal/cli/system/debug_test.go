package system

import (
	"testing"

	"github.com/julianstephens/cheese/internal/models"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	cmd := &DebugDBPathCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("debug db-path command failed: %v", err)
	}
}

func TestDebugKeysCmd(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()
	seedHamsters(t, ctx, "Mochi")

	cmd := &DebugKeysCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("debug keys command failed: %v", err)
	}
}

func TestDebugDumpHamsterCmd(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()
	seedHamsters(t, ctx, "Mochi")

	tr, _ := ctx.Tracker()
	id := tr.CurrentID()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"current hamster", "", false},
		{"by id", id, false},
		{"unknown id", "non-existent-id", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &DebugDumpHamsterCmd{ID: tt.id}
			err := cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("debug dump-hamster error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDebugDumpEntryCmd(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	tr, err := ctx.Tracker()
	if err != nil {
		t.Fatalf("failed to open tracker: %v", err)
	}
	if _, err := tr.AddHamster(models.Profile{Name: "Mochi"}); err != nil {
		t.Fatalf("failed to add hamster: %v", err)
	}
	entry, err := tr.AddEntry("", models.EntryDraft{WheelTurns: models.Int(120)})
	if err != nil {
		t.Fatalf("failed to add entry: %v", err)
	}

	if err := (&DebugDumpEntryCmd{ID: entry.ID}).Run(ctx); err != nil {
		t.Errorf("debug dump-entry command failed: %v", err)
	}
	if err := (&DebugDumpEntryCmd{ID: "non-existent-id"}).Run(ctx); err == nil {
		t.Error("expected error for non-existent entry, got nil")
	}
	if err := (&DebugDumpEntryCmd{ID: entry.ID, Hamster: "non-existent-id"}).Run(ctx); err == nil {
		t.Error("expected error for non-existent hamster, got nil")
	}
}
