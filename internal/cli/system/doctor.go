package system

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/julianstephens/pillbox/internal/backup"
	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/config"
	"github.com/julianstephens/pillbox/internal/keyring"
	"github.com/julianstephens/pillbox/internal/migration"
	"github.com/julianstephens/pillbox/internal/notifier"
	"github.com/julianstephens/pillbox/internal/storage/sqlite"
	"github.com/julianstephens/pillbox/migrations"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	advisory bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Medication data", run: checkMedications, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, advisory: true},
	{name: "OS keyring", run: checkKeyring, advisory: true},
	{name: "Reminder channels", run: checkChannels, advisory: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.advisory:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if store, ok := ctx.Store.(*sqlite.Store); ok {
		db := store.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}
	runner := migration.NewRunner(store.GetDB(), sub)

	current, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest migration version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d (run 'pillbox init')", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	s, err := ctx.Settings()
	if err != nil {
		return err
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	if s.LowStockDays < 0 || s.DefaultBufferDays < 0 {
		return fmt.Errorf("low_stock_days and default_buffer_days must not be negative")
	}
	return nil
}

func checkMedications(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	var errs []error
	for _, med := range tr.Medications() {
		if err := med.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", med.Name, err))
		}
	}
	return errors.Join(errs...)
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s (run 'pillbox backup create')", mgr.GetBackupDir())
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkChannels(ctx *cli.Context) error {
	s, err := ctx.Settings()
	if err != nil {
		return err
	}
	tg, err := config.ResolveTelegram(ctx.TelegramToken, ctx.TelegramChatID, s.TelegramChatID)
	if err != nil {
		return err
	}
	if !notifier.TrayRunning() && !tg.Enabled() {
		return fmt.Errorf("tray app is not running and Telegram is not configured, reminders will only be logged")
	}
	return nil
}
