// Package local is the durable key/value store the console keeps on disk. It
// caches remote collections and holds state that never leaves the machine.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrQuotaExceeded is returned when a write would not fit in the store.
	ErrQuotaExceeded = errors.New("local storage quota exceeded")

	// ErrWrite wraps every other write failure.
	ErrWrite = errors.New("local storage write failed")
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

type Store struct {
	db     *sqlx.DB
	quota  int64
	logger *slog.Logger
}

// Open creates or opens the store at path. A quota of zero disables the
// size check.
func Open(path string, quota int64, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize local store: %w", err)
	}

	return &Store{
		db:     db,
		quota:  quota,
		logger: logger.With("component", "local_store"),
	}, nil
}

// Lookup decodes the value stored under key into dst. found is false with a
// nil error only when the key is absent; unreadable or undecodable values
// are errors.
func (s *Store) Lookup(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Read is Lookup for callers that fall back to other data: it reports false
// when the key is missing or cannot be read, and never fails.
func (s *Store) Read(ctx context.Context, key string, dst any) bool {
	found, err := s.Lookup(ctx, key, dst)
	if err != nil {
		s.logger.Warn("read failed", "key", key, "error", err)
		return false
	}
	return found
}

func (s *Store) Write(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrWrite, key, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(key, err)
	}
	defer func() { _ = tx.Rollback() }()

	if s.quota > 0 {
		var used int64
		err := tx.GetContext(ctx, &used,
			"SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0) FROM kv WHERE key <> ?",
			key,
		)
		if err != nil {
			return classify(key, err)
		}
		if need := used + int64(len(key)+len(data)); need > s.quota {
			s.logger.Error("quota exceeded", "key", key, "needed", need, "quota", s.quota)
			return fmt.Errorf("%w: %s needs %d bytes, quota is %d", ErrQuotaExceeded, key, need, s.quota)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return classify(key, err)
	}

	if err := tx.Commit(); err != nil {
		return classify(key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return classify(key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func classify(key string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_FULL {
		return fmt.Errorf("%w: %s: %v", ErrQuotaExceeded, key, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
}
