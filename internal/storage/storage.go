package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/pillbox/internal/storage/postgres"
	"github.com/julianstephens/pillbox/internal/storage/sqlite"
)

// MemoryDSN selects the in-memory backend.
const MemoryDSN = "memory://"

// IsPostgres reports whether dsn is a PostgreSQL connection URL.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	_, err := postgres.ValidateConnString(connStr)
	return errors.Is(err, postgres.ErrEmbeddedCredentials)
}

// New picks a backend from the DSN: PostgreSQL URLs, *.json files, the
// in-memory store, or a SQLite database path (the default).
func New(dsn string) (Provider, error) {
	switch {
	case dsn == MemoryDSN:
		return NewMemoryStore(), nil
	case IsPostgres(dsn):
		if ok, err := postgres.ValidateConnString(dsn); !ok {
			return nil, err
		}
		return postgres.New(dsn), nil
	}

	path, err := ExpandPath(dsn)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
