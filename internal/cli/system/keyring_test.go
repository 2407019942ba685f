package system

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/keyring"
)

func TestKeyringSetCmd(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteAPIKey() }()

	tests := []struct {
		name      string
		key       string
		wantError bool
	}{
		{
			name:      "valid key",
			key:       "sk-test-1234",
			wantError: false,
		},
		{
			name:      "key with surrounding whitespace",
			key:       "  sk-test-5678  ",
			wantError: false,
		},
		{
			name:      "empty key",
			key:       "   ",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &KeyringSetCmd{Key: tt.key}
			ctx := &cli.Context{}

			err := cmd.Run(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("KeyringSetCmd.Run() error = %v, wantError %v", err, tt.wantError)
			}

			if err == nil {
				stored, getErr := keyring.GetAPIKey()
				if getErr != nil {
					t.Errorf("Failed to retrieve stored API key: %v", getErr)
				}
				if stored == "" || stored[0] == ' ' {
					t.Errorf("Stored API key = %q, want trimmed key", stored)
				}
			}
		})
	}
}

func TestKeyringGetCmd(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteAPIKey() }()

	t.Run("not found", func(t *testing.T) {
		_ = keyring.DeleteAPIKey()
		cmd := &KeyringGetCmd{}
		if err := cmd.Run(&cli.Context{}); err == nil {
			t.Error("KeyringGetCmd.Run() should return error when no key is stored")
		}
	})

	t.Run("found", func(t *testing.T) {
		if err := keyring.SetAPIKey("sk-test-1234"); err != nil {
			t.Fatalf("Failed to set API key: %v", err)
		}
		cmd := &KeyringGetCmd{}
		if err := cmd.Run(&cli.Context{}); err != nil {
			t.Errorf("KeyringGetCmd.Run() error = %v, want nil", err)
		}
	})
}

func TestKeyringDeleteCmd(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteAPIKey() }()

	t.Run("not found", func(t *testing.T) {
		_ = keyring.DeleteAPIKey()
		cmd := &KeyringDeleteCmd{}
		if err := cmd.Run(&cli.Context{}); err == nil {
			t.Error("KeyringDeleteCmd.Run() should return error when no key is stored")
		}
	})

	t.Run("delete success", func(t *testing.T) {
		if err := keyring.SetAPIKey("sk-test-1234"); err != nil {
			t.Fatalf("Failed to set API key: %v", err)
		}

		cmd := &KeyringDeleteCmd{}
		if err := cmd.Run(&cli.Context{}); err != nil {
			t.Errorf("KeyringDeleteCmd.Run() error = %v, want nil", err)
		}

		if _, err := keyring.GetAPIKey(); err != keyring.ErrNotFound {
			t.Error("API key should be deleted from keyring")
		}
	})
}

func TestKeyringStatusCmd(t *testing.T) {
	gokeyring.MockInit()

	cmd := &KeyringStatusCmd{}
	if err := cmd.Run(&cli.Context{}); err != nil {
		t.Errorf("KeyringStatusCmd.Run() error = %v, want nil", err)
	}
}
