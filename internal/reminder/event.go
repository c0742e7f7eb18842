package reminder

import (
	"context"
	"time"

	"github.com/julianstephens/pillbox/internal/models"
)

type EventKind string

const (
	// EventDue opens a persistent reminder for a dose that should be taken now.
	EventDue EventKind = "due"
	// EventUpcoming is a one-off heads-up for a dose a few minutes ahead.
	EventUpcoming EventKind = "upcoming"
	// EventTaken and EventSkipped confirm an acknowledgment.
	EventTaken   EventKind = "taken"
	EventSkipped EventKind = "skipped"
	// EventWithdrawn retracts a reminder without an acknowledgment.
	EventWithdrawn EventKind = "withdrawn"
	// EventLowStock warns once a day when a medication's supply is running out.
	EventLowStock EventKind = "low-stock"
)

// Handle identifies an active reminder so a sink can dismiss what it displayed.
type Handle string

type Event struct {
	Kind       EventKind
	Handle     Handle
	Medication models.Medication
	// Occurrence is zero for confirmations without a pending reminder and for stock warnings
	Occurrence models.Occurrence
	// DaysRemaining is set on low-stock events
	DaysRemaining int
	EmittedAt     time.Time
}

// Sink delivers reminder events. Implementations decide how they are displayed.
type Sink interface {
	Notify(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Notify(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Source supplies the data a scan reads. *tracker.Tracker satisfies it.
type Source interface {
	Medications() []models.Medication
	Match(medID string, tod models.TimeOfDay, date time.Time) *models.Match
}
