package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/reminder"
)

func TestMessage(t *testing.T) {
	med := models.Medication{Name: "Vitamin D", Dosage: 1, Unit: models.UnitCapsule, Quantity: models.IntPtr(4)}
	occ := models.Occurrence{Time: models.TimeOfDay{Hour: 20, Minute: 30}}

	tests := []struct {
		kind reminder.EventKind
		want string
		ok   bool
	}{
		{reminder.EventDue, "Time to take Vitamin D: 1 capsule (20:30)", true},
		{reminder.EventUpcoming, "Coming up at 20:30: Vitamin D, 1 capsule", true},
		{reminder.EventTaken, "Marked Vitamin D as taken", true},
		{reminder.EventSkipped, "Marked Vitamin D as skipped", true},
		{reminder.EventLowStock, "Running low on Vitamin D: 4 days left (4 capsules)", true},
		{reminder.EventWithdrawn, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			ev := reminder.Event{Kind: tt.kind, Medication: med, Occurrence: occ, DaysRemaining: 4}
			got, ok := Message(ev)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Message() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

type fakeSender struct {
	sent []tg.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tg.Chattable) (tg.Message, error) {
	if f.err != nil {
		return tg.Message{}, f.err
	}
	if msg, ok := c.(tg.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tg.Message{}, nil
}

func TestTelegramNotify(t *testing.T) {
	fake := &fakeSender{}
	sink := &Telegram{bot: fake, chatID: 99}

	if err := sink.Notify(context.Background(), dueEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sink.Notify(context.Background(), reminder.Event{Kind: reminder.EventWithdrawn}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fake.sent))
	}
	if fake.sent[0].ChatID != 99 {
		t.Errorf("expected chat 99, got %d", fake.sent[0].ChatID)
	}
	if !strings.HasPrefix(fake.sent[0].Text, "Time to take Ibuprofen") {
		t.Errorf("unexpected text %q", fake.sent[0].Text)
	}

	fake.err = errors.New("boom")
	if err := sink.Notify(context.Background(), dueEvent()); err == nil {
		t.Error("expected send error")
	}
}

func TestNewTelegramRequiresConfig(t *testing.T) {
	if _, err := NewTelegram("", 1); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := NewTelegram("token", 0); err == nil {
		t.Error("expected error for missing chat id")
	}
}

func TestMulti(t *testing.T) {
	var calls []string
	ok := reminder.SinkFunc(func(_ context.Context, ev reminder.Event) error {
		calls = append(calls, "ok:"+string(ev.Kind))
		return nil
	})
	failing := reminder.SinkFunc(func(_ context.Context, ev reminder.Event) error {
		calls = append(calls, "fail")
		return errors.New("down")
	})

	m := Multi{failing, nil, ok, LogSink{}}
	err := m.Notify(context.Background(), dueEvent())
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Errorf("expected joined error, got %v", err)
	}
	if len(calls) != 2 || calls[1] != "ok:due" {
		t.Errorf("expected both sinks to run, got %v", calls)
	}

	if err := (Multi{ok}).Notify(context.Background(), dueEvent()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
