package reminders

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/pillbox/internal/api"
	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/logger"
)

type ServeCmd struct {
	SinkFlags
	Addr      string `help:"Listen address." default:"${addr}" env:"PILLBOX_ADDR"`
	Reminders bool   `help:"Run the reminder scanner in-process." default:"true" negatable:""`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := api.Options{
		Tracker:      tr,
		Location:     ctx.Location(),
		BufferDays:   settings.DefaultBufferDays,
		LowStockDays: settings.LowStockDays,
	}
	if c.Reminders && settings.RemindersEnabled {
		scanner, err := newScanner(ctx, c.SinkFlags)
		if err != nil {
			return err
		}
		if err := scanner.Start(sigCtx); err != nil {
			return err
		}
		defer scanner.Stop()
		opts.Scanner = scanner
	}

	addr := c.Addr
	if addr == "" {
		addr = constants.DefaultHTTPAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	ctx.Printf("Serving on http://%s\n", addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
