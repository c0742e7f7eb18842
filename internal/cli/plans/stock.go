package plans

import (
	"fmt"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/provision"
)

type StockCmd struct {
	LowOnly bool `help:"Only list medications that are running low." name:"low"`
}

func (c *StockCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, med := range tr.Medications() {
		level := provision.StockLevel(med, settings.LowStockDays)
		low := level == provision.LevelLow || level == provision.LevelCritical || provision.LowQuantity(med)
		if c.LowOnly && !low {
			continue
		}
		days := "-"
		if d, ok := provision.DaysRemaining(med); ok {
			days = fmt.Sprintf("%d", d)
		}
		rows = append(rows, []string{med.Name, cli.FormatStock(med), days, cli.LevelBadge(level)})
	}
	if len(rows) == 0 {
		if c.LowOnly {
			ctx.Println("All medications are well stocked")
		} else {
			ctx.Println("No medications found")
		}
		return nil
	}
	ctx.Println(cli.Table([]string{"Medication", "Stock", "Days left", "Supply"}, rows))
	return nil
}
