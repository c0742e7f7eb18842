package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/pillbox/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingRemindersEnabled:
			settings.RemindersEnabled = value == "true"
		case constants.SettingUpcomingEnabled:
			settings.UpcomingEnabled = value == "true"
		case constants.SettingLowStockDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.LowStockDays); err != nil {
				return Settings{}, fmt.Errorf("parsing low_stock_days: %w", err)
			}
		case constants.SettingDefaultBufferDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.DefaultBufferDays); err != nil {
				return Settings{}, fmt.Errorf("parsing default_buffer_days: %w", err)
			}
		case constants.SettingTelegramChatID:
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing telegram_chat_id: %w", err)
			}
			settings.TelegramChatID = id
		default:
			return Settings{}, fmt.Errorf("unknown setting %q", key)
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:          settings.Timezone,
		constants.SettingRemindersEnabled:  fmt.Sprintf("%v", settings.RemindersEnabled),
		constants.SettingUpcomingEnabled:   fmt.Sprintf("%v", settings.UpcomingEnabled),
		constants.SettingLowStockDays:      fmt.Sprintf("%d", settings.LowStockDays),
		constants.SettingDefaultBufferDays: fmt.Sprintf("%d", settings.DefaultBufferDays),
		constants.SettingTelegramChatID:    fmt.Sprintf("%d", settings.TelegramChatID),
	}
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	s := Settings{
		RemindersEnabled: constants.DefaultRemindersEnabled,
		UpcomingEnabled:  constants.DefaultUpcomingEnabled,
	}
	ApplyDefaultSettings(&s)
	return s
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.LowStockDays == 0 {
		settings.LowStockDays = constants.LowStockDays
	}
	if settings.DefaultBufferDays == 0 {
		settings.DefaultBufferDays = constants.DefaultBufferDays
	}
}
