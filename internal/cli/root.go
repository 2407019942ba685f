package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/cheese/internal/backup"
	"github.com/julianstephens/cheese/internal/config"
	"github.com/julianstephens/cheese/internal/logger"
	"github.com/julianstephens/cheese/internal/migration"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/storage"
	"github.com/julianstephens/cheese/internal/storage/sqlite"
	"github.com/julianstephens/cheese/internal/tracker"
	"github.com/julianstephens/cheese/internal/utils"
)

type Context struct {
	Store      storage.Provider
	Config     *config.Config
	ConfigPath string

	// Clock and NewID are passed to the tracker and the import codec. Nil
	// uses the system clock and random ids.
	Clock func() time.Time
	NewID func() string

	tracker   *tracker.Tracker
	migration migration.Result
}

// NewStore picks the backend for path: a .json suffix selects the JSON file
// store, anything else SQLite.
func NewStore(path string) storage.Provider {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return storage.NewJSONStore(path)
	}
	return sqlite.NewStore(path)
}

// Configuration returns the loaded config, or the defaults when none was set.
func (c *Context) Configuration() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

// Tracker runs the document migration on first use and returns the tracker
// over the migrated state. The store must already be loaded.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	opts := tracker.Options{MaxPhotoBytes: c.Configuration().MaxPhotoBytes}
	if c.Clock != nil {
		opts.Clock = c.Clock
	}
	if c.NewID != nil {
		opts.NewHamsterID = c.NewID
		opts.NewEntryID = c.NewID
	}
	tr, res, err := tracker.Open(c.Store, opts)
	if err != nil {
		return nil, err
	}
	for _, note := range res.Notes {
		logger.Warn("Migration note", "note", note)
	}
	c.tracker = tr
	c.migration = res
	return tr, nil
}

// Migration returns the result of the migration run by Tracker.
func (c *Context) Migration() migration.Result {
	return c.migration
}

// Close releases the store. Mutations are committed as they happen, so
// nothing is flushed here.
func (c *Context) Close() error {
	c.tracker = nil
	return c.Store.Close()
}

// Reset drops the cached tracker so the next call to Tracker re-reads storage.
func (c *Context) Reset() {
	c.tracker = nil
	c.migration = migration.Result{}
}

// BackupManager returns the manager for the backups next to the data file.
func (c *Context) BackupManager() *backup.Manager {
	return backup.NewManager(c.Store.GetConfigPath(), c.Configuration().MaxBackups)
}

// Codec returns an import codec using the context's clock, ids and limits.
func (c *Context) Codec() *backup.Codec {
	codec := backup.NewCodec()
	codec.MaxPhotoBytes = c.Configuration().MaxPhotoBytes
	if c.Clock != nil {
		codec.Clock = c.Clock
	}
	if c.NewID != nil {
		codec.NewID = c.NewID
	}
	return codec
}

func (c *Context) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// ExportState builds a backup document of the live state.
func (c *Context) ExportState() (backup.Document, error) {
	tr, err := c.Tracker()
	if err != nil {
		return backup.Document{}, err
	}
	return backup.Export(tr.State(), c.now()), nil
}

// PerformAutomaticBackup snapshots the live state before a destructive
// operation. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if !c.Configuration().AutoBackup {
		return
	}
	doc, err := c.ExportState()
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	if len(doc.Hamsters) == 0 {
		return
	}
	path, err := c.BackupManager().CreateBackup(doc)
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	logger.Info("Automatic backup created", "path", path)
}

// ParseBedding accepts the bedding flag value, where "" leaves it unset.
func ParseBedding(s string) (*models.BeddingType, error) {
	if s == "" {
		return nil, nil
	}
	b, err := models.ParseBeddingType(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// OptionalString returns nil for an empty flag value.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FormatFloat renders an optional measurement, "-" when unrecorded.
func FormatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

// FormatInt renders an optional count, "-" when unrecorded.
func FormatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// FormatDate renders a stored date for humans, or "-" when absent.
func FormatDate(s string) string {
	if s == "" {
		return "-"
	}
	if d, ok := utils.FormatDisplayDate(s); ok {
		return d
	}
	return s
}
