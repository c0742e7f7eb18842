package notifier

import (
	"context"
	"fmt"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/reminder"
)

// sender is the slice of *tg.BotAPI the sink needs.
type sender interface {
	Send(c tg.Chattable) (tg.Message, error)
}

// Telegram posts reminders to a single chat.
type Telegram struct {
	bot    sender
	chatID int64
}

// NewTelegram authorizes the bot token and returns a sink bound to chatID.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is not set")
	}
	bot, err := tg.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	bot.Debug = false
	logger.Info("Authorized telegram bot", "account", bot.Self.UserName)
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, ev reminder.Event) error {
	text, ok := Message(ev)
	if !ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tg.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}
