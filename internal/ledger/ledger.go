// Package ledger holds the consumption history and pairs logged records with
// scheduled occurrences.
package ledger

import (
	"sort"
	"time"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/models"
)

// Ledger is an insertion-ordered list of consumption records. Every method
// returns a new value and leaves the receiver untouched.
type Ledger []models.ConsumptionRecord

// Record appends rec. Records are never deduplicated.
func (l Ledger) Record(rec models.ConsumptionRecord) Ledger {
	out := make(Ledger, len(l), len(l)+1)
	copy(out, l)
	return append(out, rec)
}

// UpdateTaken flips the taken flag of a single record.
func (l Ledger) UpdateTaken(recordID string, taken bool) (Ledger, error) {
	idx := l.indexOf(recordID)
	if idx < 0 {
		return l, errors.NotFound("consumption record", recordID)
	}
	out := make(Ledger, len(l))
	copy(out, l)
	out[idx].Taken = taken
	return out, nil
}

// Get returns the record with the given id.
func (l Ledger) Get(recordID string) (models.ConsumptionRecord, bool) {
	idx := l.indexOf(recordID)
	if idx < 0 {
		return models.ConsumptionRecord{}, false
	}
	return l[idx], true
}

// DeleteMedication drops every record belonging to medID.
func (l Ledger) DeleteMedication(medID string) Ledger {
	out := make(Ledger, 0, len(l))
	for _, rec := range l {
		if rec.MedicationID != medID {
			out = append(out, rec)
		}
	}
	return out
}

// ForMedication returns the records of medID, newest first.
func (l Ledger) ForMedication(medID string) []models.ConsumptionRecord {
	var out []models.ConsumptionRecord
	for _, rec := range l {
		if rec.MedicationID == medID {
			out = append(out, rec)
		}
	}
	sortNewestFirst(out)
	return out
}

// Between returns the records with from <= timestamp <= to, newest first.
func (l Ledger) Between(from, to time.Time) []models.ConsumptionRecord {
	var out []models.ConsumptionRecord
	for _, rec := range l {
		if rec.Timestamp.Before(from) || rec.Timestamp.After(to) {
			continue
		}
		out = append(out, rec)
	}
	sortNewestFirst(out)
	return out
}

// Match finds the record that satisfies the occurrence of medID at timeOfDay on
// referenceDate's calendar day. A record counts when it was logged on that same
// local date and within the match tolerance of the scheduled instant, bounds
// included. When several qualify the latest timestamp wins; equal timestamps go
// to the record appended last.
func (l Ledger) Match(medID string, timeOfDay models.TimeOfDay, referenceDate time.Time) *models.Match {
	scheduled := timeOfDay.On(referenceDate)

	best := -1
	for i, rec := range l {
		if rec.MedicationID != medID {
			continue
		}
		if !models.SameDate(referenceDate, rec.Timestamp) {
			continue
		}
		if absDuration(rec.Timestamp.Sub(scheduled)) > constants.MatchTolerance {
			continue
		}
		if best < 0 || !rec.Timestamp.Before(l[best].Timestamp) {
			best = i
		}
	}

	if best < 0 {
		return nil
	}
	return &models.Match{Taken: l[best].Taken, RecordID: l[best].ID}
}

func (l Ledger) indexOf(recordID string) int {
	for i, rec := range l {
		if rec.ID == recordID {
			return i
		}
	}
	return -1
}

func sortNewestFirst(recs []models.ConsumptionRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Timestamp.After(recs[j].Timestamp)
	})
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
