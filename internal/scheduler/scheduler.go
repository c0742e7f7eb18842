package scheduler

import (
	"sort"
	"time"

	"github.com/julianstephens/pillbox/internal/models"
)

// Dose is an occurrence bound to the medication it belongs to.
type Dose struct {
	Medication models.Medication
	models.Occurrence
}

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// OccurrencesOn returns the ordered times of day at which s fires on date's calendar day.
func OccurrencesOn(s models.Schedule, date time.Time) []models.TimeOfDay {
	n := s.Normalize()
	if len(n.Times) == 0 || !n.ActiveOn(date.Weekday()) {
		return nil
	}
	out := make([]models.TimeOfDay, len(n.Times))
	copy(out, n.Times)
	return out
}

// OccurrencesInWindow returns every occurrence of s with from <= at <= to, in chronological order.
// Dates are evaluated in from's location.
func OccurrencesInWindow(s models.Schedule, from, to time.Time) []models.Occurrence {
	if !to.After(from) {
		return nil
	}

	n := s.Normalize()
	if len(n.Times) == 0 {
		return nil
	}

	loc := from.Location()
	to = to.In(loc)

	var out []models.Occurrence
	last := models.StartOfDay(to)
	for day := models.StartOfDay(from); !day.After(last); day = nextDay(day) {
		if !n.ActiveOn(day.Weekday()) {
			continue
		}
		for _, tod := range n.Times {
			at := tod.On(day)
			if at.Before(from) || at.After(to) {
				continue
			}
			out = append(out, models.Occurrence{Date: day, Time: tod})
		}
	}
	return out
}

// DosesOn merges the occurrences of every medication on date, ordered by time then medication id.
func (s *Scheduler) DosesOn(meds []models.Medication, date time.Time) []Dose {
	day := models.StartOfDay(date)

	var doses []Dose
	for _, med := range meds {
		for _, tod := range OccurrencesOn(med.Schedule, day) {
			doses = append(doses, Dose{
				Medication: med,
				Occurrence: models.Occurrence{Date: day, Time: tod},
			})
		}
	}
	sortDoses(doses)
	return doses
}

// DosesInWindow merges the windowed occurrences of every medication.
func (s *Scheduler) DosesInWindow(meds []models.Medication, from, to time.Time) []Dose {
	var doses []Dose
	for _, med := range meds {
		for _, occ := range OccurrencesInWindow(med.Schedule, from, to) {
			doses = append(doses, Dose{Medication: med, Occurrence: occ})
		}
	}
	sortDoses(doses)
	return doses
}

func sortDoses(doses []Dose) {
	sort.SliceStable(doses, func(i, j int) bool {
		ai, aj := doses[i].At(), doses[j].At()
		if !ai.Equal(aj) {
			return ai.Before(aj)
		}
		return doses[i].Medication.ID < doses[j].Medication.ID
	})
}

func nextDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
}
