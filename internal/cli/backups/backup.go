package backups

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/cheese/internal/cli"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup now."`
	List    BackupListCmd    `cmd:"" help:"List available backups." default:"1"`
	Restore BackupRestoreCmd `cmd:"" help:"Replace all data with a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	doc, err := ctx.ExportState()
	if err != nil {
		return err
	}
	backupPath, err := ctx.BackupManager().CreateBackup(doc)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Println(cli.OKStyle.Render("✓ Backup created: " + filepath.Base(backupPath)))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.BackupManager()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), ctx.Configuration().MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		filename := filepath.Base(b.Path)
		fmt.Printf("  %s  %s  (%.1f KB)\n", timestamp, filename, sizeKB)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	mgr := ctx.BackupManager()
	backupPath := mgr.Resolve(c.BackupFile)

	doc, err := mgr.LoadBackup(backupPath)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(c.Yes,
		"Replace all data with this backup?",
		fmt.Sprintf("%s holds %d hamster(s). A backup of the current data is created first.", filepath.Base(backupPath), len(doc.Hamsters)),
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Restore cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := tr.Replace(doc.State()); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println(cli.OKStyle.Render("✓ Data restored from " + filepath.Base(backupPath)))
	return nil
}
