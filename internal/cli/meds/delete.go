package meds

import (
	"fmt"

	"github.com/julianstephens/pillbox/internal/cli"
)

type MedDeleteCmd struct {
	Medication string `arg:"" help:"Medication ID or name."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *MedDeleteCmd) Run(ctx *cli.Context) error {
	med, err := ctx.FindMedication(c.Medication)
	if err != nil {
		return fmt.Errorf("failed to find medication %s: %w", c.Medication, err)
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	history, err := tr.History(med.ID)
	if err != nil {
		return err
	}

	ok, err := ctx.Ask(fmt.Sprintf("Delete %s and %d consumption records?", med.Name, len(history)), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := tr.DeleteMedication(med.ID); err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	ctx.Printf("Deleted medication: %s (ID: %s)\n", med.Name, med.ID)
	return nil
}
