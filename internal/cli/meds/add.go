package meds

import (
	"fmt"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/models"
)

type MedAddCmd struct {
	Name         string   `arg:"" help:"Medication name."`
	Dosage       float64  `help:"Units per dose." default:"1"`
	Unit         string   `help:"Dose unit (pill, tablet, capsule, ml, mg, g, spray, patch, injection)." default:"pill"`
	Quantity     *int     `help:"Units currently in stock."`
	Times        []string `help:"Times of day as HH:MM, comma separated." sep:","`
	Days         []string `help:"Restrict to weekdays, e.g. mon,wed,fri." sep:","`
	Category     string   `help:"Category label."`
	Instructions string   `help:"How to take it, e.g. 'with food'."`
	Description  string   `help:"Free-form notes."`
	Frequency    string   `help:"Free-text frequency, used when no times are set (e.g. 'twice daily')."`
}

func (c *MedAddCmd) Run(ctx *cli.Context) error {
	unit, err := models.ParseUnit(c.Unit)
	if err != nil {
		return err
	}
	schedule, err := cli.BuildSchedule(c.Times, c.Days)
	if err != nil {
		return err
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	med, err := tr.AddMedication(models.Medication{
		Name:         c.Name,
		Dosage:       c.Dosage,
		Unit:         unit,
		Quantity:     c.Quantity,
		Category:     c.Category,
		Instructions: c.Instructions,
		Description:  c.Description,
		Frequency:    c.Frequency,
		Schedule:     schedule,
	})
	if err != nil {
		return fmt.Errorf("failed to add medication: %w", err)
	}

	ctx.Printf("Added medication: %s (ID: %s)\n", med.Name, med.ID)
	ctx.Printf("  %s, %s\n", med.FormatDose(), med.Schedule.Format())
	return nil
}
