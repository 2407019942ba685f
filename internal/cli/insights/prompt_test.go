package insights

import (
	"errors"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/cheese/internal/analysis"
	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/config"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/storage"
	"github.com/julianstephens/cheese/internal/tracker"
)

func setupTest(t *testing.T) (*cli.Context, *tracker.Tracker) {
	t.Helper()
	gokeyring.MockInit()

	cfg := config.Default()
	cfg.AutoBackup = false
	ctx := &cli.Context{
		Store:  storage.NewMemoryStore(nil),
		Config: cfg,
		Clock: func() time.Time {
			return time.Date(2024, 6, 1, 4, 0, 0, 0, time.UTC)
		},
	}
	tr, err := ctx.Tracker()
	if err != nil {
		t.Fatalf("failed to open tracker: %v", err)
	}
	return ctx, tr
}

func TestPromptCmd(t *testing.T) {
	ctx, tr := setupTest(t)
	id, err := tr.AddHamster(models.Profile{Name: "Mochi", Birthday: "2024-05-01"})
	if err != nil {
		t.Fatalf("failed to add hamster: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := tr.AddEntry(id, models.EntryDraft{Weight: models.Float(40 + float64(i))}); err != nil {
			t.Fatalf("failed to add entry: %v", err)
		}
	}

	tests := []struct {
		name string
		cmd  PromptCmd
	}{
		{"text", PromptCmd{Limit: 2}},
		{"json", PromptCmd{JSON: true}},
		{"explicit hamster", PromptCmd{Hamster: id}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err != nil {
				t.Errorf("prompt failed: %v", err)
			}
		})
	}

	if err := tr.UpdateGlobalSettings(models.SettingsPatch{APIKey: models.String("sk-settings-key")}); err != nil {
		t.Fatalf("failed to set api key: %v", err)
	}
	if err := (&PromptCmd{}).Run(ctx); err != nil {
		t.Errorf("prompt with api key failed: %v", err)
	}
}

func TestPromptCmd_Errors(t *testing.T) {
	ctx, tr := setupTest(t)

	if err := (&PromptCmd{}).Run(ctx); err == nil {
		t.Error("expected an error with no hamster selected")
	}
	if err := (&PromptCmd{Hamster: "non-existent-id"}).Run(ctx); !errors.Is(err, tracker.ErrHamsterNotFound) {
		t.Errorf("error = %v, want ErrHamsterNotFound", err)
	}

	if _, err := tr.AddHamster(models.Profile{Name: "Mochi"}); err != nil {
		t.Fatalf("failed to add hamster: %v", err)
	}
	if err := (&PromptCmd{}).Run(ctx); !errors.Is(err, analysis.ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}
