package constants

const (
	SettingTimezone          = "timezone"
	SettingRemindersEnabled  = "reminders_enabled"
	SettingUpcomingEnabled   = "upcoming_enabled"
	SettingLowStockDays      = "low_stock_days"
	SettingDefaultBufferDays = "default_buffer_days"
	SettingTelegramChatID    = "telegram_chat_id"

	DefaultTimezone         = "Local" // Use system local timezone by default
	DefaultRemindersEnabled = true
	DefaultUpcomingEnabled  = true
	DefaultBufferDays       = 2
)
