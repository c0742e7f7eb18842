package doses

import (
	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/constants"
)

type TodayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today, yesterday, tomorrow)."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	doses := tr.DosesOn(date)
	ctx.Println(cli.HeaderStyle.Render("Doses for " + date.Format("Mon "+constants.DateFormat)))
	if len(doses) == 0 {
		ctx.Println("No doses scheduled")
		return nil
	}

	rows := make([][]string, 0, len(doses))
	for _, d := range doses {
		rows = append(rows, []string{
			d.Time.String(),
			d.Medication.Name,
			d.Medication.FormatDose(),
			cli.StatusBadge(d.Status),
			d.Medication.Instructions,
		})
	}
	ctx.Println(cli.Table([]string{"Time", "Medication", "Dose", "Status", "Instructions"}, rows))
	return nil
}
