package doses

import (
	"fmt"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/models"
)

type AdherenceCmd struct {
	Medication string `arg:"" optional:"" help:"Medication ID or name. All medications when omitted."`
	From       string `help:"First date (YYYY-MM-DD). Defaults to --days before --to."`
	To         string `help:"Last date (YYYY-MM-DD)." default:"today"`
	Days       int    `help:"Window length when --from is not set." default:"7"`
}

func (c *AdherenceCmd) Run(ctx *cli.Context) error {
	to, err := ctx.ParseDate(c.To)
	if err != nil {
		return err
	}
	from := to.AddDate(0, 0, -(c.Days - 1))
	if c.From != "" {
		if from, err = ctx.ParseDate(c.From); err != nil {
			return err
		}
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	var meds []models.Medication
	if c.Medication != "" {
		med, err := ctx.FindMedication(c.Medication)
		if err != nil {
			return err
		}
		meds = append(meds, med)
	} else {
		meds = tr.Medications()
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("Adherence %s to %s",
		from.Format(constants.DateFormat), to.Format(constants.DateFormat))))

	var rows [][]string
	for _, med := range meds {
		a, err := tr.Adherence(med.ID, from, to)
		if err != nil {
			return err
		}
		if a.Scheduled == 0 {
			continue
		}
		rows = append(rows, []string{
			med.Name,
			fmt.Sprintf("%d", a.Scheduled),
			fmt.Sprintf("%d", a.Taken),
			fmt.Sprintf("%d", a.Skipped),
			fmt.Sprintf("%d", a.Missed),
			fmt.Sprintf("%d", a.Pending),
			fmt.Sprintf("%.0f%%", a.Rate()*100),
		})
	}
	if len(rows) == 0 {
		ctx.Println("No scheduled doses in range")
		return nil
	}
	ctx.Println(cli.Table([]string{"Medication", "Scheduled", "Taken", "Skipped", "Missed", "Pending", "Rate"}, rows))
	return nil
}
