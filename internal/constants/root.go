package constants

import "time"

const (
	AppName            = "pillbox"
	Version            = "v0.3.0"
	DefaultConfigPath  = "~/.config/pillbox/pillbox.db"
	DefaultKeyringUser = "database-connection"
	TelegramKeyringKey = "telegram-token"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time-of-day format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Store keys
	KeyMedications        = "medications"
	KeyConsumptionHistory = "consumptionHistory"
	KeySettings           = "settings"

	// Occurrence matching and reminder windows
	MatchTolerance = 30 * time.Minute
	DueNowWindow   = 30 * time.Minute
	UpcomingMin    = 1 * time.Minute
	UpcomingMax    = 15 * time.Minute
	ScanInterval   = 60 * time.Second
	ScanSpec       = "@every 60s"

	// Supply outlook thresholds
	LowStockDays         = 7
	CriticalStockDays    = 3
	LowQuantityThreshold = 5

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "pillbox-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "pillbox-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.pillbox"
	TrayExecutablePrefix   = "pillbox-tray"

	// HTTP API
	DefaultHTTPAddr = "127.0.0.1:8787"
)

// Environment variables read by the CLI (also loadable from a .env file)
const (
	EnvDB             = "PILLBOX_DB"
	EnvDebug          = "PILLBOX_DEBUG"
	EnvTelegramToken  = "PILLBOX_TELEGRAM_TOKEN"
	EnvTelegramChatID = "PILLBOX_TELEGRAM_CHAT_ID"
	EnvHTTPAddr       = "PILLBOX_ADDR"
	EnvDBConnection   = "PILLBOX_DB_CONNECTION"
)
