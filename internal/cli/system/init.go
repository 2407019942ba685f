package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/config"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing data before initialization. A backup is taken first."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dataPath := ctx.Store.GetConfigPath()

	if c.Force {
		if _, err := os.Stat(dataPath); err == nil {
			if err := ctx.Store.Load(); err == nil {
				ctx.PerformAutomaticBackup()
			}
			ctx.Reset()
			// Close first to release the file before deleting it
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(dataPath); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			fmt.Printf("Deleted existing data at: %s\n", dataPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized cheese storage at: %s\n", dataPath)

	if ctx.ConfigPath != "" {
		if err := writeDefaultConfig(ctx.ConfigPath); err != nil {
			return err
		}
	}
	return nil
}

// writeDefaultConfig creates the config file unless one already exists.
func writeDefaultConfig(path string) error {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return nil
	}
	if err := config.Default().Save(expanded); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to: %s\n", expanded)
	return nil
}
