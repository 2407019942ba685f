package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/keyring"
)

// KeyringSetCmd stores the analysis API key in the OS keyring
type KeyringSetCmd struct {
	Key string `arg:"" help:"API key for the analysis service."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if err := keyring.SetAPIKey(cmd.Key); err != nil {
		return err
	}
	fmt.Println("✓ API key stored successfully in OS keyring")
	fmt.Println("  It is used whenever the settings do not carry a key")
	return nil
}

// KeyringGetCmd shows the stored API key, masked
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	key, err := keyring.GetAPIKey()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring. Use 'cheese keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve API key from keyring: %w", err)
	}

	fmt.Println("API key retrieved from keyring:")
	fmt.Println(keyring.Mask(key))
	return nil
}

// KeyringDeleteCmd removes the API key from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return err
	}
	fmt.Println("✓ API key deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	if _, err := keyring.GetAPIKey(); err == nil {
		fmt.Println("✓ API key is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No API key stored in keyring")
	}
	return nil
}
