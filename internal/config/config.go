// Package config resolves runtime configuration from .env files, the environment
// and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/keyring"
	"github.com/julianstephens/pillbox/internal/logger"
)

// LoadEnv loads the given .env files (".env" when none are named) into the process
// environment. Missing files are skipped. Variables already set are not overridden.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		logger.Debug("Loaded env file", "path", p)
	}
	return nil
}

// Source records where a resolved secret came from.
type Source string

const (
	SourceNone    Source = ""
	SourceFlag    Source = "flag"
	SourceKeyring Source = "keyring"
	SourceEnv     Source = "env"
)

// ResolveSecret picks an explicit value first, then the OS keyring, then envKey.
func ResolveSecret(explicit string, secret keyring.Secret, envKey string) (string, Source) {
	if explicit != "" {
		return explicit, SourceFlag
	}
	if v, err := keyring.Get(secret); err == nil && v != "" {
		return v, SourceKeyring
	} else if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("Keyring lookup failed", "secret", secret, "error", err)
	}
	if envKey != "" {
		if v := os.Getenv(envKey); v != "" {
			return v, SourceEnv
		}
	}
	return "", SourceNone
}

// Telegram holds the credentials for the Telegram reminder sink.
type Telegram struct {
	Token  string
	ChatID int64
}

func (t Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// ResolveTelegram fills in the token from the keyring or environment and the chat id
// from the flag, falling back to the stored setting.
func ResolveTelegram(token string, chatID int64, storedChatID int64) (Telegram, error) {
	tok, _ := ResolveSecret(token, keyring.TelegramToken, constants.EnvTelegramToken)
	if chatID == 0 {
		chatID = storedChatID
	}
	if chatID == 0 {
		if raw := os.Getenv(constants.EnvTelegramChatID); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return Telegram{}, fmt.Errorf("invalid %s: %w", constants.EnvTelegramChatID, err)
			}
			chatID = id
		}
	}
	return Telegram{Token: tok, ChatID: chatID}, nil
}
