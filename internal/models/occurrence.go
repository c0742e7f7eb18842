package models

import "time"

// Occurrence is one concrete (date, time-of-day) instance of a schedule.
type Occurrence struct {
	Date time.Time // midnight of the calendar date, in the caller's location
	Time TimeOfDay
}

// At returns the instant of the occurrence.
func (o Occurrence) At() time.Time {
	return o.Time.On(o.Date)
}

// Key identifies the occurrence slot, e.g. "2024-03-04|08:00".
func (o Occurrence) Key() string {
	return o.Date.Format("2006-01-02") + "|" + o.Time.String()
}

// StartOfDay truncates t to local midnight without crossing DST boundaries.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b share a calendar date in a's location.
func SameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
