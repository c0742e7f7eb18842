// Package tracker is the caller-facing state layer: it owns the medications and
// consumption ledger, applies commands atomically, and persists through a
// storage.Provider.
package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/scheduler"
	"github.com/julianstephens/pillbox/internal/storage"
)

type Tracker struct {
	mu        sync.RWMutex
	store     storage.Provider
	state     State
	scheduler *scheduler.Scheduler
	clock     clock.Clock
	newID     func() string

	// unsaved holds store keys whose last write failed
	unsaved map[string]bool
}

type Option func(*Tracker)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithIDGenerator replaces uuid generation.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// New creates a tracker over an already loaded store. Call Load to read existing data.
func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		scheduler: scheduler.New(),
		clock:     clock.New(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open creates a tracker and loads its state from store.
func Open(store storage.Provider, opts ...Option) (*Tracker, error) {
	t := New(store, opts...)
	if err := t.Load(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load replaces the in-memory state with what the store holds. Changes whose
// save failed are written first; while the store still rejects them the
// in-memory state is kept and a StorageError is returned.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// State that never reached the store must not be replaced by the stale copy.
	if len(t.unsaved) > 0 {
		keys := t.unsavedKeys()
		if err := saveKeys(t.store, t.state, keys); err != nil {
			logger.Warn("Keeping unsaved tracker state, reload skipped", "keys", keys, "error", err)
			return errors.Storage("flush", err)
		}
		logger.Info("Flushed unsaved tracker state", "keys", keys)
		t.unsaved = nil
	}

	s, err := loadState(t.store)
	if err != nil {
		return errors.Storage("load", err)
	}
	t.state = s

	logger.Debug("Tracker state loaded", "medications", len(s.Medications), "records", len(s.Ledger))
	return nil
}

// Unsaved reports whether the in-memory state holds changes the store has not accepted.
func (t *Tracker) Unsaved() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.unsaved) > 0
}

func (t *Tracker) unsavedKeys() []string {
	keys := make([]string, 0, len(t.unsaved))
	for k := range t.unsaved {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns the current state. The slices must not be modified.
func (t *Tracker) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Now returns the tracker's notion of the current time.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// Dispatch applies cmd and persists the keys it changed. Validation and
// not-found errors leave the state untouched; a storage error keeps the
// in-memory mutation and is returned to the caller.
func (t *Tracker) Dispatch(cmd Command) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dispatchLocked(cmd)
}

func (t *Tracker) dispatchLocked(cmd Command) error {
	next, err := cmd.Apply(t.state)
	if err != nil {
		return err
	}
	t.state = next

	if t.unsaved == nil {
		t.unsaved = make(map[string]bool)
	}
	for _, k := range cmd.dirty() {
		t.unsaved[k] = true
	}
	if err := saveKeys(t.store, next, t.unsavedKeys()); err != nil {
		logger.Error("Failed to persist tracker state", "error", err)
		return errors.Storage("save", err)
	}
	t.unsaved = nil
	return nil
}

// AddMedication assigns an id and creation time, then stores the medication.
func (t *Tracker) AddMedication(med models.Medication) (models.Medication, error) {
	med.ID = t.newID()
	med.CreatedAt = t.clock.Now()
	med.UpdatedAt = nil

	if err := t.Dispatch(AddMedication{Medication: med}); err != nil {
		if errors.Is(err, errors.ErrStorage) {
			return med, err
		}
		return models.Medication{}, err
	}
	logger.Info("Medication added", "id", med.ID, "name", med.Name)
	return med, nil
}

// UpdateMedication replaces an existing medication and stamps UpdatedAt.
func (t *Tracker) UpdateMedication(med models.Medication) error {
	if err := t.Dispatch(UpdateMedication{Medication: med, At: t.clock.Now()}); err != nil {
		return err
	}
	logger.Info("Medication updated", "id", med.ID)
	return nil
}

// DeleteMedication removes a medication together with its consumption history.
func (t *Tracker) DeleteMedication(id string) error {
	if err := t.Dispatch(DeleteMedication{ID: id}); err != nil {
		return err
	}
	logger.Info("Medication deleted", "id", id)
	return nil
}

// GetMedication returns a single medication.
func (t *Tracker) GetMedication(id string) (models.Medication, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	med, ok := t.state.Medication(id)
	if !ok {
		return models.Medication{}, errors.NotFound("medication", id)
	}
	return med, nil
}

// Medications returns every medication in insertion order.
func (t *Tracker) Medications() []models.Medication {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Medication, len(t.state.Medications))
	copy(out, t.state.Medications)
	return out
}

// RecordConsumption appends a taken/skipped record and returns its id.
func (t *Tracker) RecordConsumption(medID string, ts time.Time, taken bool) (string, error) {
	rec := models.ConsumptionRecord{
		ID:           t.newID(),
		MedicationID: medID,
		Timestamp:    ts,
		Taken:        taken,
	}
	if err := t.Dispatch(RecordConsumption{Record: rec}); err != nil {
		if errors.Is(err, errors.ErrStorage) {
			return rec.ID, err
		}
		return "", err
	}
	logger.Debug("Consumption recorded", "medication", medID, "record", rec.ID, "taken", taken)
	return rec.ID, nil
}

// UpdateConsumption flips the taken flag of an existing record.
func (t *Tracker) UpdateConsumption(recordID string, taken bool) error {
	if err := t.Dispatch(UpdateConsumption{RecordID: recordID, Taken: taken}); err != nil {
		return err
	}
	logger.Debug("Consumption updated", "record", recordID, "taken", taken)
	return nil
}

// Record returns the consumption record with the given id.
func (t *Tracker) Record(recordID string) (models.ConsumptionRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Ledger.Get(recordID)
}

// MatchOccurrence reports the record satisfying medID's occurrence at
// timeOfDay ("HH:MM") on date, or nil. Malformed times never match.
func (t *Tracker) MatchOccurrence(medID, timeOfDay string, date time.Time) *models.Match {
	tod, err := models.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil
	}
	return t.Match(medID, tod, date)
}

// Match is MatchOccurrence for an already parsed time of day.
func (t *Tracker) Match(medID string, tod models.TimeOfDay, date time.Time) *models.Match {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Ledger.Match(medID, tod, date)
}

// CheckIn marks the occurrence of medID at timeOfDay on date as taken or
// skipped. An existing matching record is updated in place; otherwise a new
// record is logged, stamped now when now falls inside the occurrence's match
// window and at the scheduled instant when it does not.
func (t *Tracker) CheckIn(medID, timeOfDay string, date time.Time, taken bool) (*models.Match, error) {
	tod, err := models.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, errors.Invalid("time", "%v", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.state.Medication(medID); !ok {
		return nil, errors.NotFound("medication", medID)
	}

	if existing := t.state.Ledger.Match(medID, tod, date); existing != nil {
		err := t.dispatchLocked(UpdateConsumption{RecordID: existing.RecordID, Taken: taken})
		if err != nil && !errors.Is(err, errors.ErrStorage) {
			return nil, err
		}
		logger.Info("Check-in updated", "medication", medID, "time", tod.String(), "taken", taken)
		return &models.Match{Taken: taken, RecordID: existing.RecordID}, err
	}

	scheduled := tod.On(date)
	ts := t.clock.Now().In(date.Location())
	if !models.SameDate(date, ts) || absDuration(ts.Sub(scheduled)) > constants.MatchTolerance {
		ts = scheduled
	}

	rec := models.ConsumptionRecord{ID: t.newID(), MedicationID: medID, Timestamp: ts, Taken: taken}
	err = t.dispatchLocked(RecordConsumption{Record: rec})
	if err != nil && !errors.Is(err, errors.ErrStorage) {
		return nil, err
	}
	logger.Info("Check-in recorded", "medication", medID, "time", tod.String(), "taken", taken)
	return &models.Match{Taken: taken, RecordID: rec.ID}, err
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
