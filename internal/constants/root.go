package constants

import "time"

const (
	AppName            = "greenie"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/greenie/greenie.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "greenie-"
	BackupFileSuffix = ".db"

	// Log constants
	LogDirName       = "logs"
	LogMaxSizeMB     = 10
	LogMaxBackups    = 3
	LogMaxAgeDays    = 28
	LogCompressFiles = true

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "greenie-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.greenie"
	TrayExecutable         = "greenie-tray"
	NotifySecretHeader     = "X-Greenie-Secret"
	NotifyTimeout          = 2 * time.Second

	// Environment
	EnvDBConnection = "GREENIE_DB_CONNECTION"
)
