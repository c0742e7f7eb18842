package models

import (
	"fmt"
	"time"
)

// Settings represents application-wide settings
type Settings struct {
	Timezone          string `json:"timezone"`            // IANA timezone name or "Local" for the system timezone
	RemindersEnabled  bool   `json:"reminders_enabled"`   // whether due-now reminders are sent
	UpcomingEnabled   bool   `json:"upcoming_enabled"`    // whether upcoming notices are sent
	LowStockDays      int    `json:"low_stock_days"`      // days of supply under which stock is reported low
	DefaultBufferDays int    `json:"default_buffer_days"` // safety buffer added to travel plans
	TelegramChatID    int64  `json:"telegram_chat_id"`    // chat that receives Telegram reminders, 0 to disable
}

// Location resolves the configured timezone.
func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
