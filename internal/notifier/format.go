package notifier

import (
	"fmt"

	"github.com/julianstephens/pillbox/internal/reminder"
)

// Message renders the user-facing text for an event. Withdrawals have no text and
// report false; sinks that cannot retract what they showed simply skip them.
func Message(ev reminder.Event) (string, bool) {
	med := ev.Medication
	switch ev.Kind {
	case reminder.EventDue:
		return fmt.Sprintf("Time to take %s: %s (%s)", med.Name, med.FormatDose(), ev.Occurrence.Time), true
	case reminder.EventUpcoming:
		return fmt.Sprintf("Coming up at %s: %s, %s", ev.Occurrence.Time, med.Name, med.FormatDose()), true
	case reminder.EventTaken:
		return fmt.Sprintf("Marked %s as taken", med.Name), true
	case reminder.EventSkipped:
		return fmt.Sprintf("Marked %s as skipped", med.Name), true
	case reminder.EventLowStock:
		days := "day"
		if ev.DaysRemaining != 1 {
			days = "days"
		}
		return fmt.Sprintf("Running low on %s: %d %s left (%d %s)",
			med.Name, ev.DaysRemaining, days, med.Stock(), med.Unit.Plural(float64(med.Stock()))), true
	default:
		return "", false
	}
}
