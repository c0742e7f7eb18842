package reminders

import (
	"time"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/config"
	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/notifier"
	"github.com/julianstephens/pillbox/internal/reminder"
	"github.com/julianstephens/pillbox/internal/tracker"
)

// SinkFlags are shared by every command that runs the reminder scanner.
type SinkFlags struct {
	NoTray     bool `help:"Do not deliver reminders to the desktop tray app." name:"no-tray"`
	NoTelegram bool `help:"Do not deliver reminders to Telegram." name:"no-telegram"`
}

// buildSink fans reminders out to the log plus whichever delivery channels are configured.
func buildSink(ctx *cli.Context, settings models.Settings, flags SinkFlags) (reminder.Sink, error) {
	sinks := notifier.Multi{notifier.LogSink{}}

	if !flags.NoTray {
		if notifier.TrayRunning() {
			logger.Info("Delivering reminders to the tray app")
		} else {
			logger.Warn("Tray app not detected, desktop reminders will fail until it starts")
		}
		sinks = append(sinks, notifier.NewTray())
	}

	if !flags.NoTelegram {
		tg, err := config.ResolveTelegram(ctx.TelegramToken, ctx.TelegramChatID, settings.TelegramChatID)
		if err != nil {
			return nil, err
		}
		if tg.Enabled() {
			sink, err := notifier.NewTelegram(tg.Token, tg.ChatID)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink)
		}
	}
	return sinks, nil
}

// reloadingSource rereads the store before every scan so check-ins made by
// other pillbox processes are seen. Tracker.Load keeps changes the store has
// not accepted yet.
type reloadingSource struct {
	ctx *cli.Context
	tr  *tracker.Tracker
}

func (s reloadingSource) Medications() []models.Medication {
	if err := s.ctx.Store.Load(); err != nil {
		logger.Warn("Failed to reload store", "error", err)
	} else if err := s.tr.Load(); err != nil {
		logger.Warn("Failed to reload tracker state", "error", err)
	}
	return s.tr.Medications()
}

func (s reloadingSource) Match(medID string, tod models.TimeOfDay, date time.Time) *models.Match {
	return s.tr.Match(medID, tod, date)
}

func newScanner(ctx *cli.Context, flags SinkFlags) (*reminder.Scanner, error) {
	settings, err := ctx.Settings()
	if err != nil {
		return nil, err
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return nil, err
	}
	sink, err := buildSink(ctx, settings, flags)
	if err != nil {
		return nil, err
	}

	opts := []reminder.Option{
		reminder.WithLocation(ctx.Location()),
		reminder.WithUpcoming(settings.UpcomingEnabled),
		reminder.WithLowStock(settings.LowStockDays),
	}
	if ctx.Clock != nil {
		opts = append(opts, reminder.WithClock(ctx.Clock))
	}
	return reminder.New(reloadingSource{ctx: ctx, tr: tr}, sink, opts...), nil
}
