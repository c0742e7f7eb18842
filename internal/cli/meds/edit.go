package meds

import (
	"fmt"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/models"
)

// MedEditCmd changes only the fields that were passed.
type MedEditCmd struct {
	Medication    string   `arg:"" help:"Medication ID or name."`
	Name          *string  `help:"New name."`
	Dosage        *float64 `help:"Units per dose."`
	Unit          *string  `help:"Dose unit."`
	Quantity      *int     `help:"Units in stock."`
	ClearQuantity bool     `help:"Mark stock as unknown." name:"clear-quantity"`
	Times         []string `help:"Replace the times of day (HH:MM, comma separated)." sep:","`
	Days          []string `help:"Replace the weekdays (used with --times)." sep:","`
	ClearSchedule bool     `help:"Remove the schedule." name:"clear-schedule"`
	Category      *string  `help:"Category label."`
	Instructions  *string  `help:"How to take it."`
	Description   *string  `help:"Free-form notes."`
	Frequency     *string  `help:"Free-text frequency."`
}

func (c *MedEditCmd) Run(ctx *cli.Context) error {
	med, err := ctx.FindMedication(c.Medication)
	if err != nil {
		return err
	}

	if c.Name != nil {
		med.Name = *c.Name
	}
	if c.Dosage != nil {
		med.Dosage = *c.Dosage
	}
	if c.Unit != nil {
		unit, err := models.ParseUnit(*c.Unit)
		if err != nil {
			return err
		}
		med.Unit = unit
	}
	switch {
	case c.ClearQuantity:
		med.Quantity = nil
	case c.Quantity != nil:
		med.Quantity = c.Quantity
	}
	switch {
	case c.ClearSchedule:
		med.Schedule = models.Schedule{}
	case len(c.Times) > 0:
		schedule, err := cli.BuildSchedule(c.Times, c.Days)
		if err != nil {
			return err
		}
		med.Schedule = schedule
	case len(c.Days) > 0:
		schedule, err := cli.BuildSchedule(med.Schedule.Times, c.Days)
		if err != nil {
			return err
		}
		med.Schedule = schedule
	}
	if c.Category != nil {
		med.Category = *c.Category
	}
	if c.Instructions != nil {
		med.Instructions = *c.Instructions
	}
	if c.Description != nil {
		med.Description = *c.Description
	}
	if c.Frequency != nil {
		med.Frequency = *c.Frequency
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := tr.UpdateMedication(med); err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}

	ctx.Printf("Updated medication: %s (ID: %s)\n", med.Name, med.ID)
	return nil
}
