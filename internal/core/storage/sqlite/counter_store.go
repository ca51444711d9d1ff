package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pulse-lab/pulse/internal/core/storage"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - counters table
const currentSchemaVersion = 1

const (
	queryGetCounter = `SELECT value FROM counters WHERE key = ?`

	queryUpsertCounter = `
		INSERT INTO counters (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
)

// CounterStore is a durable storage.CounterStore backed by a SQLite file.
// Uses WAL mode and a single connection, so writes from one process are
// serialized by the driver.
type CounterStore struct {
	db *sql.DB
}

var _ storage.CounterStore = (*CounterStore)(nil)

// Open creates or opens the counter database at path.
// Applies required pragmas and the schema; safe to call on an existing file.
func Open(path string) (*CounterStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &CounterStore{db: db}, nil
}

// PingContext verifies the database file is still reachable.
func (s *CounterStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *CounterStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get decodes the JSON value stored under key into dst.
func (s *CounterStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, queryGetCounter, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read counter %q: %w", storage.ErrStoreUnavailable, key, err)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode counter %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key as JSON, replacing any previous value.
func (s *CounterStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode counter %q: %w", key, err)
	}

	if _, err := s.db.ExecContext(ctx, queryUpsertCounter, key, string(raw), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("%w: write counter %q: %w", storage.ErrStoreUnavailable, key, err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and stamps user_version.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("counter database schema version %d is newer than supported %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
