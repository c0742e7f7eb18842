package doses

import (
	"fmt"
	"time"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/scheduler"
)

type TakeCmd struct {
	Medication string `arg:"" help:"Medication ID or name."`
	Time       string `help:"Scheduled time (HH:MM). Defaults to the occurrence nearest to now."`
	Date       string `help:"Date of the occurrence (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *TakeCmd) Run(ctx *cli.Context) error {
	return checkIn(ctx, c.Medication, c.Time, c.Date, true)
}

type SkipCmd struct {
	Medication string `arg:"" help:"Medication ID or name."`
	Time       string `help:"Scheduled time (HH:MM). Defaults to the occurrence nearest to now."`
	Date       string `help:"Date of the occurrence (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *SkipCmd) Run(ctx *cli.Context) error {
	return checkIn(ctx, c.Medication, c.Time, c.Date, false)
}

func checkIn(ctx *cli.Context, ref, timeOfDay, day string, taken bool) error {
	med, err := ctx.FindMedication(ref)
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(day)
	if err != nil {
		return err
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	verb := "taken"
	if !taken {
		verb = "skipped"
	}

	if timeOfDay == "" {
		times := scheduler.OccurrencesOn(med.Schedule, date)
		if len(times) == 0 {
			// Unscheduled (as-needed) medication: log it now.
			now := ctx.Now()
			if _, err := tr.RecordConsumption(med.ID, now, taken); err != nil {
				return fmt.Errorf("failed to record consumption: %w", err)
			}
			ctx.Printf("Logged %s as %s at %s\n", med.Name, verb, now.Format(constants.TimeFormat))
			return nil
		}
		tod, err := nearest(times, date, ctx.Now())
		if err != nil {
			return err
		}
		timeOfDay = tod.String()
	}

	if _, err := tr.CheckIn(med.ID, timeOfDay, date, taken); err != nil {
		return fmt.Errorf("failed to check in: %w", err)
	}
	ctx.Printf("Marked %s %s on %s as %s\n", med.Name, timeOfDay, date.Format(constants.DateFormat), verb)
	return nil
}

// nearest picks the time closest to now on today's date; other dates need an explicit time.
func nearest(times []models.TimeOfDay, date, now time.Time) (models.TimeOfDay, error) {
	if len(times) == 1 {
		return times[0], nil
	}
	if !models.SameDate(date, now) {
		return models.TimeOfDay{}, fmt.Errorf("medication has %d doses on %s, pass --time", len(times), date.Format(constants.DateFormat))
	}
	best := times[0]
	bestDelta := absDuration(best.On(date).Sub(now))
	for _, t := range times[1:] {
		if d := absDuration(t.On(date).Sub(now)); d < bestDelta {
			best, bestDelta = t, d
		}
	}
	return best, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
