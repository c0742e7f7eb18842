package meds

import (
	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/provision"
)

type MedShowCmd struct {
	Medication string `arg:"" help:"Medication ID or name."`
}

func (c *MedShowCmd) Run(ctx *cli.Context) error {
	med, err := ctx.FindMedication(c.Medication)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render(med.Name))
	ctx.Printf("  ID:           %s\n", med.ID)
	ctx.Printf("  Dose:         %s\n", med.FormatDose())
	ctx.Printf("  Schedule:     %s\n", med.Schedule.Format())
	if med.Frequency != "" {
		ctx.Printf("  Frequency:    %s\n", med.Frequency)
	}
	ctx.Printf("  Stock:        %s\n", cli.FormatStock(med))
	if days, ok := provision.DaysRemaining(med); ok {
		ctx.Printf("  Supply:       %d days (%s)\n", days, cli.LevelBadge(provision.StockLevel(med, settings.LowStockDays)))
	}
	if med.Category != "" {
		ctx.Printf("  Category:     %s\n", med.Category)
	}
	if med.Instructions != "" {
		ctx.Printf("  Instructions: %s\n", med.Instructions)
	}
	if med.Description != "" {
		ctx.Printf("  Notes:        %s\n", med.Description)
	}
	loc := ctx.Location()
	ctx.Printf("  Created:      %s\n", med.CreatedAt.In(loc).Format(constants.DateFormat+" "+constants.TimeFormat))
	if med.UpdatedAt != nil {
		ctx.Printf("  Updated:      %s\n", med.UpdatedAt.In(loc).Format(constants.DateFormat+" "+constants.TimeFormat))
	}
	return nil
}
