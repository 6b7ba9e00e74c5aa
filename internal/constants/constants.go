package constants

import "time"

const (
	AppName           = "tminus"
	Version           = "v0.3.0"
	DefaultConfigFile = "config.yaml"
	EnvConfig         = "TMINUS_CONFIG"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// LocalDateTimeFormat is how a countdown target is written when entered by hand
	LocalDateTimeFormat = "2006-01-02T15:04"

	// Storage keys
	KeyCountdowns = "countdowns"
	KeyProjects   = "projects"
	KeyUnlocked   = "unlocked"

	// Storage backends
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	JSONStoreFile   = "tminus.json"
	SQLiteStoreFile = "tminus.db"
	LockFileName    = "tminus.lock"

	// Backup constants
	MaxBackups        = 14
	BackupDirName     = "backups"
	BackupFilePrefix  = "backup-"
	BackupFileSuffix  = ".json"
	ExportVersion     = 2
	ProjectExportType = "single-project"
	ProjectExportVer  = 1

	// Completion defaults
	DefaultExtendDays = 1
	PollInterval      = time.Second

	// Notes autosave delay
	DefaultNotesDebounce = 500 * time.Millisecond

	// CSV export
	SlugMaxLen = 30
)
