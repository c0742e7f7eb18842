package settings

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/models"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	ctx.Println("Current Settings:")
	values := models.SettingsToMap(settings)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ctx.Printf("  %-20s %s\n", k+":", values[k])
	}
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name (see 'settings show')."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	values := models.SettingsToMap(settings)
	if _, ok := values[c.Key]; !ok {
		return fmt.Errorf("unknown setting %q", c.Key)
	}
	switch c.Key {
	case constants.SettingRemindersEnabled, constants.SettingUpcomingEnabled:
		b, err := strconv.ParseBool(c.Value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", c.Key)
		}
		values[c.Key] = strconv.FormatBool(b)
	default:
		values[c.Key] = c.Value
	}

	updated, err := models.MapToSettings(values)
	if err != nil {
		return err
	}
	if _, err := updated.Location(); err != nil {
		return err
	}
	if updated.LowStockDays < 0 || updated.DefaultBufferDays < 0 {
		return fmt.Errorf("%s must not be negative", c.Key)
	}

	if err := ctx.SaveSettings(updated); err != nil {
		return err
	}
	ctx.Printf("Set %s = %s\n", c.Key, values[c.Key])
	return nil
}
