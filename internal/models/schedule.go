package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/pillbox/internal/constants"
)

type ScheduleType string

const (
	ScheduleDaily        ScheduleType = "daily"
	ScheduleSpecificDays ScheduleType = "specific-days"
)

// Schedule is the recurrence rule attached to a medication.
//
// On disk it is either a tagged object ({"type": "daily", "times": [...]}) or the
// legacy bare list of "HH:MM" strings, which is read as a daily schedule.
type Schedule struct {
	Type  ScheduleType `json:"type"`
	Days  []string     `json:"days,omitempty"` // lowercase weekday names, e.g. "monday"
	Times []string     `json:"times"`          // HH:MM format
	// Legacy is set when the schedule was decoded from the bare-list form
	Legacy bool `json:"-"`
}

// DailySchedule builds a daily schedule for the given times.
func DailySchedule(times ...string) Schedule {
	return Schedule{Type: ScheduleDaily, Times: times}
}

// WeeklySchedule builds a specific-days schedule for the given weekdays and times.
func WeeklySchedule(days []time.Weekday, times ...string) Schedule {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, strings.ToLower(d.String()))
	}
	return Schedule{Type: ScheduleSpecificDays, Days: names, Times: times}
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = Schedule{}
		return nil
	}

	if trimmed[0] == '[' {
		var times []string
		if err := json.Unmarshal(trimmed, &times); err != nil {
			// Legacy lists with non-string members carry no usable times
			*s = Schedule{Legacy: true}
			return nil
		}
		*s = Schedule{Type: ScheduleDaily, Times: times, Legacy: true}
		return nil
	}

	type raw Schedule
	var r raw
	if err := json.Unmarshal(trimmed, &r); err != nil {
		// Unknown shapes decode to an empty schedule, which is never active
		*s = Schedule{Type: ScheduleType("invalid")}
		return nil
	}
	*s = Schedule(r)
	return nil
}

// MarshalJSON always writes the tagged form, so legacy lists are upgraded on the next save.
func (s Schedule) MarshalJSON() ([]byte, error) {
	type raw Schedule
	r := raw(s)
	if r.Type == "" {
		r.Type = ScheduleDaily
	}
	if r.Times == nil {
		r.Times = []string{}
	}
	return json.Marshal(r)
}

// IsEmpty reports whether the schedule carries no times at all.
func (s Schedule) IsEmpty() bool {
	return len(s.Times) == 0
}

// TimeOfDay is an (hour, minute) pair in local wall-clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a strict HH:MM string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q (expected HH:MM): %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// On returns the instant this time-of-day falls on the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// Before orders times of day.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// Normalized is the canonical view of a Schedule.
type Normalized struct {
	Times  []TimeOfDay
	active [7]bool
}

// ActiveOn reports whether the schedule produces occurrences on the given weekday.
func (n Normalized) ActiveOn(wd time.Weekday) bool {
	if wd < time.Sunday || wd > time.Saturday {
		return false
	}
	return n.active[wd]
}

// Normalize never fails: malformed times are dropped and unknown schedule types
// are never active, so callers can always render "no schedule".
func (s Schedule) Normalize() Normalized {
	var n Normalized

	seen := make(map[int]bool, len(s.Times))
	for _, raw := range s.Times {
		tod, err := ParseTimeOfDay(raw)
		if err != nil || seen[tod.Minutes()] {
			continue
		}
		seen[tod.Minutes()] = true
		n.Times = append(n.Times, tod)
	}
	sort.Slice(n.Times, func(i, j int) bool {
		return n.Times[i].Before(n.Times[j])
	})

	switch s.Type {
	case ScheduleDaily:
		for i := range n.active {
			n.active[i] = true
		}
	case ScheduleSpecificDays:
		for _, name := range s.Days {
			if wd, ok := ParseWeekday(name); ok {
				n.active[wd] = true
			}
		}
	}

	return n
}

// Validate is the strict check applied when a schedule is written.
// An empty schedule is valid: the medication simply has no occurrences.
func (s Schedule) Validate() error {
	if s.IsEmpty() && s.Type == "" {
		return nil
	}

	switch s.Type {
	case ScheduleDaily:
	case ScheduleSpecificDays:
		if len(s.Days) == 0 {
			return fmt.Errorf("days must be specified for a specific-days schedule")
		}
		for _, name := range s.Days {
			if _, ok := ParseWeekday(name); !ok {
				return fmt.Errorf("invalid weekday: %s", name)
			}
		}
	default:
		return fmt.Errorf("unknown schedule type %q", s.Type)
	}

	seen := make(map[int]bool, len(s.Times))
	for _, raw := range s.Times {
		tod, err := ParseTimeOfDay(raw)
		if err != nil {
			return err
		}
		if seen[tod.Minutes()] {
			return fmt.Errorf("duplicate time %s", tod)
		}
		seen[tod.Minutes()] = true
	}

	return nil
}

// Format returns a human-readable description of the schedule.
func (s Schedule) Format() string {
	n := s.Normalize()
	if len(n.Times) == 0 {
		return "no schedule"
	}

	times := make([]string, len(n.Times))
	for i, t := range n.Times {
		times[i] = t.String()
	}

	switch s.Type {
	case ScheduleDaily:
		return fmt.Sprintf("daily at %s", strings.Join(times, ", "))
	case ScheduleSpecificDays:
		var days []string
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if n.ActiveOn(wd) {
				days = append(days, wd.String()[:3])
			}
		}
		return fmt.Sprintf("%s at %s", strings.Join(days, ","), strings.Join(times, ", "))
	default:
		return "no schedule"
	}
}

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full or three-letter weekday names, case-insensitively.
func ParseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}
