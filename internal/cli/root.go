package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/jmhodges/clock"

	"github.com/julianstephens/pillbox/internal/backup"
	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/storage"
	"github.com/julianstephens/pillbox/internal/tracker"
)

type Context struct {
	Store storage.Provider
	// Out receives command output; nil means stdout.
	Out   io.Writer
	Clock clock.Clock

	// Telegram credentials from flags or the environment
	TelegramToken  string
	TelegramChatID int64

	// Confirm asks a yes/no question; nil uses an interactive prompt.
	Confirm func(title string) (bool, error)

	tracker  *tracker.Tracker
	settings *models.Settings
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

func (c *Context) clock() clock.Clock {
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	return c.Clock
}

// Tracker opens the tracker over the store on first use.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	tr, err := tracker.Open(c.Store, tracker.WithClock(c.clock()))
	if err != nil {
		return nil, err
	}
	c.tracker = tr
	return tr, nil
}

func (c *Context) Settings() (models.Settings, error) {
	if c.settings != nil {
		return *c.settings, nil
	}
	s, err := tracker.LoadSettings(c.Store)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	c.settings = &s
	return s, nil
}

func (c *Context) SaveSettings(s models.Settings) error {
	if err := tracker.SaveSettings(c.Store, s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	c.settings = &s
	return nil
}

// Location is the configured timezone, falling back to the system zone.
func (c *Context) Location() *time.Location {
	s, err := c.Settings()
	if err != nil {
		return time.Local
	}
	loc, err := s.Location()
	if err != nil {
		logger.Warn("Invalid timezone setting, using local time", "timezone", s.Timezone, "error", err)
		return time.Local
	}
	return loc
}

func (c *Context) Now() time.Time {
	return c.clock().Now().In(c.Location())
}

// ParseDate accepts YYYY-MM-DD, "today", "yesterday", "tomorrow" or "" (today).
func (c *Context) ParseDate(s string) (time.Time, error) {
	today := models.StartOfDay(c.Now())
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	d, err := time.ParseInLocation(constants.DateFormat, s, c.Location())
	if err != nil {
		return time.Time{}, errors.Invalid("date", "%q is not YYYY-MM-DD", s)
	}
	return d, nil
}

// FindMedication resolves an id, a unique id prefix, or a case-insensitive name.
func (c *Context) FindMedication(ref string) (models.Medication, error) {
	tr, err := c.Tracker()
	if err != nil {
		return models.Medication{}, err
	}
	if med, err := tr.GetMedication(ref); err == nil {
		return med, nil
	}

	var matches []models.Medication
	for _, med := range tr.Medications() {
		if strings.EqualFold(med.Name, ref) || strings.HasPrefix(med.ID, ref) {
			matches = append(matches, med)
		}
	}
	switch len(matches) {
	case 0:
		return models.Medication{}, errors.NotFound("medication", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Medication{}, errors.Invalid("medication", "%q matches %d medications, use the id", ref, len(matches))
	}
}

// Ask runs the confirmation prompt unless yes is already set.
func (c *Context) Ask(title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if c.Confirm != nil {
		return c.Confirm(title)
	}
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

// PerformAutomaticBackup snapshots file-backed stores and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
