package backups

import (
	"fmt"

	"github.com/julianstephens/cheese/internal/backup"
	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/logger"
)

type ExportCmd struct {
	Output   string `arg:"" help:"File to write to." type:"path"`
	Entries  bool   `help:"Export only the history of one hamster as an entry list." xor:"shape"`
	Settings bool   `help:"Export only the settings and the current profile." xor:"shape"`
	Hamster  string `help:"ID of the hamster for --entries. Defaults to the current hamster."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	switch {
	case c.Entries:
		return c.exportEntries(ctx)
	case c.Settings:
		return c.exportSettings(ctx)
	}

	doc, err := ctx.ExportState()
	if err != nil {
		return err
	}
	if err := backup.WriteDocument(c.Output, doc); err != nil {
		return err
	}
	logger.Info("Data exported", "path", c.Output, "hamsters", len(doc.Hamsters))
	fmt.Printf("Exported %d hamster(s) to %s\n", len(doc.Hamsters), c.Output)
	return nil
}

func (c *ExportCmd) exportEntries(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	entries, err := tr.Entries(c.Hamster)
	if err != nil {
		return err
	}
	if err := backup.WriteEntries(c.Output, entries); err != nil {
		return err
	}
	logger.Info("Entries exported", "path", c.Output, "entries", len(entries))
	fmt.Printf("Exported %d entries to %s\n", len(entries), c.Output)
	return nil
}

func (c *ExportCmd) exportSettings(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := backup.WriteSettings(c.Output, tr.LegacySettingsView()); err != nil {
		return err
	}
	logger.Info("Settings exported", "path", c.Output)
	fmt.Printf("Exported settings to %s\n", c.Output)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"Backup, entry list or settings file to import." type:"existingfile"`
	DryRun bool   `help:"Show what the import would do without writing anything."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	raw, err := backup.ReadDocument(c.File, ctx.Configuration().MaxImportBytes)
	if err != nil {
		logger.Warn("Import rejected", "path", c.File, "error", err)
		return err
	}
	codec := ctx.Codec()
	decoded, err := codec.Decode(raw)
	if err != nil {
		logger.Warn("Import rejected", "path", c.File, "error", err)
		return err
	}
	merged, notes, err := codec.Merge(tr.State(), decoded)
	if err != nil {
		logger.Warn("Import rejected", "path", c.File, "error", err)
		return err
	}

	fmt.Printf("Detected %s document.\n", decoded.Kind)
	for _, note := range notes {
		fmt.Printf("  - %s\n", note)
	}
	if c.DryRun {
		fmt.Printf("Dry run: the registry would hold %d hamster(s) and %d entries.\n", len(merged.Hamsters), merged.EntryCount())
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := tr.Replace(merged); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}
	logger.Info("Data imported", "path", c.File, "kind", decoded.Kind.String(), "notes", len(notes))
	fmt.Println(cli.OKStyle.Render("✓ " + backup.OutcomeSuccess.Message()))
	return nil
}
