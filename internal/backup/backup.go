package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/logger"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager keeps timestamped backup documents next to the data file
type Manager struct {
	backupDir  string
	maxBackups int
	now        func() time.Time
	log        *log.Logger
}

// NewManager creates a backup manager for the data file at dataPath.
// maxBackups <= 0 uses the default retention.
func NewManager(dataPath string, maxBackups int) *Manager {
	if maxBackups <= 0 {
		maxBackups = constants.MaxBackups
	}
	return &Manager{
		backupDir:  filepath.Join(filepath.Dir(dataPath), constants.BackupDirName),
		maxBackups: maxBackups,
		now:        time.Now,
		log:        logger.Component("backup"),
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes doc to a new backup file and rotates old ones.
func (m *Manager) CreateBackup(doc Document) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := WriteDocument(backupPath, doc); err != nil {
		return "", err
	}

	if err := m.rotateBackups(); err != nil {
		// rotation failures never fail the backup itself
		m.log.Warn("failed to rotate old backups", "error", err)
	}
	return backupPath, nil
}

// nextPath picks an unused file name: minute precision first, then seconds,
// then a counter.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	path := m.pathFor(now.Format("20060102-1504"))
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format("20060102-150405")
	path = m.pathFor(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = m.pathFor(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		timestamp, ok := parseBackupName(name)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	// Names within the same second differ only by counter, so fall back to
	// the name for a stable order.
	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].Path > backups[j].Path
	})
	return backups, nil
}

// parseBackupName extracts the timestamp from cheese-YYYYMMDD-HHMM[SS][-N].json.
func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	// Drop a trailing counter. Time parts are 4 or 6 digits, counters are not.
	parts := strings.Split(stamp, "-")
	if len(parts) > 2 {
		last := parts[len(parts)-1]
		if len(last) != 4 && len(last) != 6 && isDigits(last) {
			stamp = strings.Join(parts[:len(parts)-1], "-")
		}
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		m.log.Debug("removed old backup", "path", backups[i].Path)
	}
	return nil
}

// LoadBackup reads a backup file and checks that it is a current-generation
// backup document.
func (m *Manager) LoadBackup(path string) (Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Document{}, fmt.Errorf("backup file does not exist: %s", path)
	}
	raw, err := ReadDocument(path, 0)
	if err != nil {
		return Document{}, err
	}

	codec := NewCodec()
	codec.MaxPhotoBytes = 0
	d, err := codec.Decode(raw)
	if err != nil {
		return Document{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	if d.Kind != KindBackup || !d.Backup.Replace {
		return Document{}, fmt.Errorf("backup file is corrupted or invalid: %s is not a full backup", filepath.Base(path))
	}

	doc := Document{
		Version:  constants.BackupVersion,
		Hamsters: d.Backup.Hamsters,
		Settings: d.Backup.settings(),
	}
	if d.Backup.CurrentID != "" {
		id := d.Backup.CurrentID
		doc.CurrentHamsterID = &id
	}
	return doc, nil
}

// Resolve accepts either a path or the file name of a backup in the backup
// directory.
func (m *Manager) Resolve(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	return filepath.Join(m.backupDir, name)
}
