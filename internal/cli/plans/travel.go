package plans

import (
	"fmt"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/provision"
)

type TravelCmd struct {
	Start       string   `arg:"" help:"First day away (YYYY-MM-DD)."`
	End         string   `arg:"" help:"Last day away (YYYY-MM-DD)."`
	Buffer      *int     `help:"Extra days of supply. Defaults to the default_buffer_days setting."`
	Medications []string `help:"Only plan for these medications (IDs or names)." sep:","`
}

func (c *TravelCmd) Run(ctx *cli.Context) error {
	start, err := ctx.ParseDate(c.Start)
	if err != nil {
		return err
	}
	end, err := ctx.ParseDate(c.End)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	buffer := settings.DefaultBufferDays
	if c.Buffer != nil {
		buffer = *c.Buffer
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	meds := tr.Medications()
	if len(c.Medications) > 0 {
		meds = meds[:0:0]
		for _, ref := range c.Medications {
			med, err := ctx.FindMedication(ref)
			if err != nil {
				return err
			}
			meds = append(meds, med)
		}
	}

	entries, err := provision.Calculate(provision.Request{
		Start:       start,
		End:         end,
		BufferDays:  buffer,
		Medications: meds,
	})
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("Travel plan %s to %s (+%d buffer days)",
		start.Format(constants.DateFormat), end.Format(constants.DateFormat), buffer)))
	if len(entries) == 0 {
		ctx.Println("No medications to pack")
		return nil
	}

	short := 0
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := cli.OKStyle.Render("enough")
		if !e.Sufficient {
			short++
			status = cli.ErrorStyle.Render(fmt.Sprintf("short %s", models.FormatAmount(e.Shortfall())))
		}
		rows = append(rows, []string{
			e.Name,
			fmt.Sprintf("%d/day", e.DosesPerDay),
			fmt.Sprintf("%s %s", models.FormatAmount(e.TotalUnitsNeeded), e.Unit.Plural(e.TotalUnitsNeeded)),
			fmt.Sprintf("%d", e.CurrentStock),
			status,
		})
	}
	ctx.Println(cli.Table([]string{"Medication", "Doses", "Pack", "In stock", "Status"}, rows))
	if short > 0 {
		ctx.Printf("%d medication(s) need a refill before the trip\n", short)
	}
	return nil
}
