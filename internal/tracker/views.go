package tracker

import (
	"time"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/scheduler"
)

// History returns the consumption records of a medication, newest first.
func (t *Tracker) History(medID string) ([]models.ConsumptionRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.state.Medication(medID); !ok {
		return nil, errors.NotFound("medication", medID)
	}
	return t.state.Ledger.ForMedication(medID), nil
}

// DoseView is a scheduled dose with its check-in status.
type DoseView struct {
	scheduler.Dose
	Match  *models.Match
	Status models.DoseStatus
}

// DosesOn lists every occurrence on date across medications, ordered by time
// then medication id.
func (t *Tracker) DosesOn(date time.Time) []DoseView {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.clock.Now()
	doses := t.scheduler.DosesOn(t.state.Medications, date)
	out := make([]DoseView, 0, len(doses))
	for _, d := range doses {
		m := t.state.Ledger.Match(d.Medication.ID, d.Time, d.Date)
		out = append(out, DoseView{Dose: d, Match: m, Status: statusAt(m, d.At(), now)})
	}
	return out
}

func statusAt(m *models.Match, at, now time.Time) models.DoseStatus {
	if m == nil && now.After(at.Add(constants.MatchTolerance)) {
		return models.DoseMissed
	}
	return models.StatusOf(m)
}

// Adherence summarizes the scheduled occurrences of a medication between two dates.
type Adherence struct {
	MedicationID string `json:"medicationId"`
	Scheduled    int    `json:"scheduled"`
	Taken        int    `json:"taken"`
	Skipped      int    `json:"skipped"`
	Missed       int    `json:"missed"`
	Pending      int    `json:"pending"`
}

// Rate is the share of resolved occurrences that were taken.
func (a Adherence) Rate() float64 {
	resolved := a.Taken + a.Skipped + a.Missed
	if resolved == 0 {
		return 0
	}
	return float64(a.Taken) / float64(resolved)
}

// Adherence counts the occurrences of medID from the start of from's day to the end of to's day.
func (t *Tracker) Adherence(medID string, from, to time.Time) (Adherence, error) {
	start := models.StartOfDay(from)
	end := models.StartOfDay(to.In(from.Location())).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if end.Before(start) {
		return Adherence{}, errors.InvalidRange(start.Format(constants.DateFormat), to.Format(constants.DateFormat))
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	med, ok := t.state.Medication(medID)
	if !ok {
		return Adherence{}, errors.NotFound("medication", medID)
	}

	now := t.clock.Now()
	summary := Adherence{MedicationID: medID}
	for _, occ := range scheduler.OccurrencesInWindow(med.Schedule, start, end) {
		summary.Scheduled++
		m := t.state.Ledger.Match(medID, occ.Time, occ.Date)
		switch statusAt(m, occ.At(), now) {
		case models.DoseTaken:
			summary.Taken++
		case models.DoseSkipped:
			summary.Skipped++
		case models.DoseMissed:
			summary.Missed++
		default:
			summary.Pending++
		}
	}
	return summary, nil
}
