package notifier

import (
	"context"
	"errors"

	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/reminder"
)

// LogSink writes every event, withdrawals included, to the application log.
type LogSink struct{}

func (LogSink) Notify(_ context.Context, ev reminder.Event) error {
	text, _ := Message(ev)
	logger.Info("Reminder",
		"kind", ev.Kind,
		"medication", ev.Medication.Name,
		"handle", ev.Handle,
		"occurrence", ev.Occurrence.Key(),
		"text", text,
	)
	return nil
}

// Multi fans an event out to every sink. One failing sink does not stop the rest.
type Multi []reminder.Sink

func (m Multi) Notify(ctx context.Context, ev reminder.Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
