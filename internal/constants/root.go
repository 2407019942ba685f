package constants

import "time"

const (
	AppName            = "cheese"
	DefaultKeyringUser = "openai-api-key"
	DefaultDataPath    = "~/.config/cheese/cheese.db"
	DefaultConfigFile  = "~/.config/cheese/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the civil date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayDateFormat is the long-form date used in human output
	DisplayDateFormat = "January 2, 2006"

	// CivilOffset is the fixed offset every civil date is computed in (UTC+8)
	CivilOffset     = 8 * time.Hour
	CivilOffsetName = "UTC+8"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "cheese-"
	BackupFileSuffix = ".json"
	BackupVersion    = "3.0"

	// Resource limits
	DefaultMaxPhotoBytes  = 5 * 1024 * 1024
	DefaultMaxImportBytes = 20 * 1024 * 1024
)
