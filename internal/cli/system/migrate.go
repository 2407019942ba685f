package system

import (
	"fmt"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/storage"
	"github.com/julianstephens/cheese/internal/storage/sqlite"
)

type MigrateCmd struct {
	History bool `help:"Show previously completed document migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		current, latest, err := sqliteStore.SchemaVersion()
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		fmt.Printf("Table schema: version %d of %d\n", current, latest)
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	res := ctx.Migration()

	if res.Wrote {
		fmt.Printf("Migrated from %s: %d entries before, %d after.\n", res.From, res.EntriesBefore, res.EntriesAfter)
	} else {
		fmt.Printf("No migrations to apply. Storage is up to date (%s).\n", res.From)
	}
	for _, note := range res.Notes {
		fmt.Printf("  note: %s\n", note)
	}
	fmt.Printf("%d hamster(s), %d entries.\n", len(tr.Hamsters()), tr.State().EntryCount())

	if c.History {
		return printHistory(ctx.Store)
	}
	return nil
}

func printHistory(store storage.Provider) error {
	journal, ok := store.(storage.Journal)
	if !ok {
		fmt.Println("\nThis storage backend does not keep a migration history.")
		return nil
	}
	records, err := journal.Generations()
	if err != nil {
		return fmt.Errorf("failed to read migration history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("\nNo document migrations recorded.")
		return nil
	}
	fmt.Println("\nMigration history:")
	for _, r := range records {
		fmt.Printf("  %s  from generation %d  (%d -> %d entries)\n", r.RanAt, r.FromGeneration, r.EntriesBefore, r.EntriesAfter)
	}
	return nil
}
