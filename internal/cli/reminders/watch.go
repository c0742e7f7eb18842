package reminders

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/constants"
)

type WatchCmd struct {
	SinkFlags
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if !settings.RemindersEnabled {
		return fmt.Errorf("reminders are disabled, enable them with '%s settings set %s true'",
			constants.AppName, constants.SettingRemindersEnabled)
	}

	scanner, err := newScanner(ctx, c.SinkFlags)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scanner.Start(sigCtx); err != nil {
		return err
	}
	ctx.Println("Watching for due doses. Press Ctrl+C to stop.")
	<-sigCtx.Done()
	scanner.Stop()
	ctx.Println("Stopped.")
	return nil
}
