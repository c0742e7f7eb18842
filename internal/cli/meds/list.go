package meds

import (
	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/provision"
)

type MedListCmd struct {
	ShowIDs  bool   `help:"Show full medication IDs." name:"show-ids"`
	Category string `help:"Only list this category."`
}

func (c *MedListCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	meds := tr.Medications()
	if len(meds) == 0 {
		ctx.Println("No medications found")
		return nil
	}

	var rows [][]string
	for _, med := range meds {
		if c.Category != "" && med.Category != c.Category {
			continue
		}
		id := cli.ShortID(med.ID)
		if c.ShowIDs {
			id = med.ID
		}
		rows = append(rows, []string{
			id,
			med.Name,
			med.FormatDose(),
			med.Schedule.Format(),
			cli.FormatStock(med),
			cli.LevelBadge(provision.StockLevel(med, settings.LowStockDays)),
		})
	}
	if len(rows) == 0 {
		ctx.Printf("No medications in category %q\n", c.Category)
		return nil
	}

	ctx.Println(cli.Table([]string{"ID", "Name", "Dose", "Schedule", "Stock", "Supply"}, rows))
	return nil
}
