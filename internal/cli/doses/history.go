package doses

import (
	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/constants"
)

type HistoryCmd struct {
	Medication string `arg:"" help:"Medication ID or name."`
	Limit      int    `help:"Maximum number of records to show." default:"20"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	med, err := ctx.FindMedication(c.Medication)
	if err != nil {
		return err
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	records, err := tr.History(med.ID)
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render("History for " + med.Name))
	if len(records) == 0 {
		ctx.Println("No consumption recorded")
		return nil
	}
	if c.Limit > 0 && len(records) > c.Limit {
		records = records[:c.Limit]
	}

	loc := ctx.Location()
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		status := "taken"
		if !r.Taken {
			status = "skipped"
		}
		rows = append(rows, []string{
			r.Timestamp.In(loc).Format(constants.DateFormat + " " + constants.TimeFormat),
			status,
			cli.ShortID(r.ID),
		})
	}
	ctx.Println(cli.Table([]string{"When", "Status", "Record"}, rows))
	return nil
}
