package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/pillbox/internal/models"
)

// ParseWeekdays parses weekday names, e.g. "mon", "Friday".
func ParseWeekdays(parts []string) ([]time.Weekday, error) {
	var weekdays []time.Weekday
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		wd, ok := models.ParseWeekday(part)
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, wd)
	}
	return weekdays, nil
}

// BuildSchedule makes a daily schedule, or a specific-days one when days are given.
// No times means no schedule.
func BuildSchedule(times, days []string) (models.Schedule, error) {
	if len(times) == 0 {
		if len(days) > 0 {
			return models.Schedule{}, fmt.Errorf("--days needs at least one --times entry")
		}
		return models.Schedule{}, nil
	}
	if len(days) == 0 {
		return models.DailySchedule(times...), nil
	}
	weekdays, err := ParseWeekdays(days)
	if err != nil {
		return models.Schedule{}, err
	}
	return models.WeeklySchedule(weekdays, times...), nil
}

// FormatStock renders the known quantity, or "unknown".
func FormatStock(med models.Medication) string {
	if med.Quantity == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d %s", *med.Quantity, med.Unit.Plural(float64(*med.Quantity)))
}

// ShortID trims a uuid for table display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
