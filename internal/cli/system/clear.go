package system

import (
	"fmt"

	"github.com/julianstephens/cheese/internal/cli"
)

type ClearCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(c.Yes,
		"Delete all hamsters, entries and settings?",
		fmt.Sprintf("%d hamster(s) and %d entries will be removed. A backup is taken first.", len(tr.Hamsters()), tr.State().EntryCount()),
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Clear cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := tr.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	fmt.Println("✓ All data cleared.")
	return nil
}
