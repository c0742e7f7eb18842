// Package reminder runs the periodic scan that decides which doses need a
// reminder now or soon, without duplicate alerts.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"
	"github.com/robfig/cron/v3"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/provision"
	"github.com/julianstephens/pillbox/internal/scheduler"
)

type entry struct {
	handle     Handle
	medication models.Medication
	occurrence models.Occurrence
}

// Scanner owns the active reminders of one process. The zero value is not
// usable; create scanners with New.
type Scanner struct {
	source Source
	sink   Sink
	clock  clock.Clock
	loc    *time.Location
	spec   string

	upcomingEnabled bool
	lowStockDays    int

	mu       sync.Mutex
	active   map[string]entry     // medication id -> pending reminder
	notified map[string]time.Time // dedup key -> occurrence instant
	cron     *cron.Cron
	started  bool
	stopped  bool
	done     chan struct{}
}

type Option func(*Scanner)

func WithClock(c clock.Clock) Option {
	return func(s *Scanner) { s.clock = c }
}

// WithLocation evaluates occurrences in loc instead of the clock's zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Scanner) { s.loc = loc }
}

// WithUpcoming toggles the upcoming heads-up notices.
func WithUpcoming(enabled bool) Option {
	return func(s *Scanner) { s.upcomingEnabled = enabled }
}

// WithLowStock enables daily low-stock warnings below the given days of supply.
func WithLowStock(days int) Option {
	return func(s *Scanner) { s.lowStockDays = days }
}

// WithSpec overrides the cron schedule of the periodic scan.
func WithSpec(spec string) Option {
	return func(s *Scanner) { s.spec = spec }
}

func New(source Source, sink Sink, opts ...Option) *Scanner {
	s := &Scanner{
		source:          source,
		sink:            sink,
		clock:           clock.New(),
		spec:            constants.ScanSpec,
		upcomingEnabled: true,
		active:          make(map[string]entry),
		notified:        make(map[string]time.Time),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start scans once immediately and then on every tick of the schedule. Scans
// never overlap. The scanner stops when ctx is cancelled or Stop is called.
func (s *Scanner) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return fmt.Errorf("reminder scanner already stopped")
	}
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("reminder scanner already started")
	}

	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)
	if _, err := c.AddFunc(s.spec, func() { s.Scan(ctx) }); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("invalid scan schedule %q: %w", s.spec, err)
	}
	s.cron = c
	s.started = true
	s.mu.Unlock()

	logger.Info("Reminder scanner started", "schedule", s.spec)
	s.Scan(ctx)
	c.Start()

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.done:
		}
	}()
	return nil
}

// Stop cancels future scans, waits for a running one, and withdraws every
// active reminder. A stopped scanner stays inert.
func (s *Scanner) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.done)
	c := s.cron
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}

	s.mu.Lock()
	now := s.now()
	var events []Event
	for id, e := range s.active {
		events = append(events, Event{
			Kind:       EventWithdrawn,
			Handle:     e.handle,
			Medication: e.medication,
			Occurrence: e.occurrence,
			EmittedAt:  now,
		})
		delete(s.active, id)
	}
	s.notified = make(map[string]time.Time)
	s.mu.Unlock()

	s.deliver(context.Background(), events)
	logger.Info("Reminder scanner stopped", "withdrawn", len(events))
}

// Acknowledge resolves the pending reminder of medID, if any, and always emits
// a taken/skipped confirmation. It reports whether a reminder was pending.
func (s *Scanner) Acknowledge(medID string, taken bool) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}

	now := s.now()
	e, pending := s.active[medID]
	if pending {
		delete(s.active, medID)
	} else {
		e = entry{medication: s.lookup(medID)}
	}
	s.mu.Unlock()

	s.deliver(context.Background(), []Event{confirmation(e, taken, now)})
	return pending
}

// Active returns the handles of the pending reminders keyed by medication id.
func (s *Scanner) Active() map[string]Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Handle, len(s.active))
	for id, e := range s.active {
		out[id] = e.handle
	}
	return out
}

// Scan runs a single pass at the clock's current time.
func (s *Scanner) Scan(ctx context.Context) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	events := s.scanLocked(s.now())
	s.mu.Unlock()

	s.deliver(ctx, events)
}

func (s *Scanner) scanLocked(now time.Time) []Event {
	meds := s.source.Medications()
	var events []Event

	known := make(map[string]bool, len(meds))
	for _, med := range meds {
		known[med.ID] = true
	}
	for id, e := range s.active {
		if !known[id] {
			delete(s.active, id)
			events = append(events, Event{Kind: EventWithdrawn, Handle: e.handle, Medication: e.medication, Occurrence: e.occurrence, EmittedAt: now})
		}
	}

	for _, med := range meds {
		// A check-in made elsewhere resolves the pending reminder like an acknowledgment
		if e, ok := s.active[med.ID]; ok {
			m := s.source.Match(med.ID, e.occurrence.Time, e.occurrence.Date)
			if m == nil {
				continue
			}
			delete(s.active, med.ID)
			events = append(events, confirmation(e, m.Taken, now))
		}

		for _, occ := range scheduler.OccurrencesInWindow(med.Schedule, now.Add(-constants.DueNowWindow), now.Add(constants.DueNowWindow)) {
			if s.source.Match(med.ID, occ.Time, occ.Date) != nil {
				continue
			}
			e := entry{handle: Handle(uuid.NewString()), medication: med, occurrence: occ}
			s.active[med.ID] = e
			events = append(events, Event{Kind: EventDue, Handle: e.handle, Medication: med, Occurrence: occ, EmittedAt: now})
			break
		}
	}

	if s.upcomingEnabled {
		events = append(events, s.upcomingLocked(meds, now)...)
	}
	if s.lowStockDays > 0 {
		events = append(events, s.lowStockLocked(meds, now)...)
	}

	s.pruneLocked(now)
	return events
}

func (s *Scanner) upcomingLocked(meds []models.Medication, now time.Time) []Event {
	var events []Event
	for _, med := range meds {
		for _, occ := range scheduler.OccurrencesInWindow(med.Schedule, now.Add(constants.UpcomingMin), now.Add(constants.UpcomingMax)) {
			key := med.ID + "|" + occ.Key()
			if _, seen := s.notified[key]; seen {
				continue
			}
			if s.source.Match(med.ID, occ.Time, occ.Date) != nil {
				continue
			}
			s.notified[key] = occ.At()
			events = append(events, Event{Kind: EventUpcoming, Medication: med, Occurrence: occ, EmittedAt: now})
		}
	}
	return events
}

func (s *Scanner) lowStockLocked(meds []models.Medication, now time.Time) []Event {
	var events []Event
	for _, med := range meds {
		level := provision.StockLevel(med, s.lowStockDays)
		if level != provision.LevelLow && level != provision.LevelCritical {
			continue
		}
		key := "low-stock|" + med.ID + "|" + now.Format(constants.DateFormat)
		if _, seen := s.notified[key]; seen {
			continue
		}
		s.notified[key] = now
		days, _ := provision.DaysRemaining(med)
		events = append(events, Event{Kind: EventLowStock, Medication: med, DaysRemaining: days, EmittedAt: now})
	}
	return events
}

// pruneLocked forgets dedup keys that can no longer recur.
func (s *Scanner) pruneLocked(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	for key, at := range s.notified {
		if at.Before(cutoff) {
			delete(s.notified, key)
		}
	}
}

func (s *Scanner) lookup(medID string) models.Medication {
	for _, med := range s.source.Medications() {
		if med.ID == medID {
			return med
		}
	}
	return models.Medication{ID: medID}
}

func (s *Scanner) now() time.Time {
	now := s.clock.Now()
	if s.loc != nil {
		now = now.In(s.loc)
	}
	return now
}

func (s *Scanner) deliver(ctx context.Context, events []Event) {
	if s.sink == nil {
		return
	}
	for _, ev := range events {
		if err := s.sink.Notify(ctx, ev); err != nil {
			logger.Warn("Failed to deliver reminder", "kind", ev.Kind, "medication", ev.Medication.ID, "error", err)
		}
	}
}

func confirmation(e entry, taken bool, now time.Time) Event {
	kind := EventSkipped
	if taken {
		kind = EventTaken
	}
	return Event{Kind: kind, Handle: e.handle, Medication: e.medication, Occurrence: e.occurrence, EmittedAt: now}
}
