package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/keyring"
	"github.com/julianstephens/pillbox/internal/storage/postgres"
)

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Secret string `arg:"" enum:"db,telegram" help:"Which secret to store (db or telegram)."`
	Value  string `arg:"" help:"PostgreSQL connection string or Telegram bot token."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}

	if secret == keyring.ConnectionString {
		if err := checkConnectionString(ctx, cmd.Value); err != nil {
			return err
		}
	}

	if err := keyring.Set(secret, cmd.Value); err != nil {
		return err
	}

	ctx.Printf("✓ %s stored successfully in OS keyring\n", label(secret))
	if secret == keyring.ConnectionString {
		ctx.Println("  You can now use pillbox without the --config flag")
	}
	return nil
}

func checkConnectionString(ctx *cli.Context, connStr string) error {
	if !strings.HasPrefix(connStr, "postgres://") &&
		!strings.HasPrefix(connStr, "postgresql://") &&
		!strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring, which is a secure place for credentials.")
		ctx.Println("   If you prefer to keep passwords separate from connection strings, consider using .pgpass or environment variables instead.")
	}
	return nil
}

// KeyringGetCmd shows a stored secret with its password or token masked
type KeyringGetCmd struct {
	Secret string `arg:"" optional:"" enum:"db,telegram" default:"db" help:"Which secret to show (db or telegram)."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	value, err := keyring.Get(secret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'pillbox keyring set %s' to store one", label(secret), cmd.Secret)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", label(secret), err)
	}

	ctx.Printf("%s retrieved from keyring:\n", label(secret))
	if secret == keyring.TelegramToken {
		ctx.Println(maskToken(value))
	} else {
		ctx.Println(maskPassword(value))
	}
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Secret string `arg:"" optional:"" enum:"db,telegram" default:"db" help:"Which secret to delete (db or telegram)."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", label(secret))
		}
		return err
	}

	ctx.Printf("✓ %s deleted from OS keyring\n", label(secret))
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}

	ctx.Println("✓ OS keyring is available")
	for _, secret := range keyring.Secrets {
		_, err := keyring.Get(secret)
		switch {
		case err == nil:
			ctx.Printf("✓ %s is stored in keyring\n", label(secret))
		case errors.Is(err, keyring.ErrNotFound):
			ctx.Printf("ℹ No %s stored in keyring\n", label(secret))
		default:
			ctx.Printf("❌ %s: %v\n", label(secret), err)
		}
	}
	return nil
}

func label(s keyring.Secret) string {
	if s == keyring.TelegramToken {
		return "Telegram token"
	}
	return "Connection string"
}

// maskToken keeps the bot id (before the colon) and hides the rest.
func maskToken(token string) string {
	if id, _, ok := strings.Cut(token, ":"); ok {
		return id + ":****"
	}
	return "****"
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		masked := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.HasPrefix(part, "password=") {
				masked = append(masked, "password=****")
			} else {
				masked = append(masked, part)
			}
		}
		return strings.Join(masked, " ")
	}

	return connStr
}
