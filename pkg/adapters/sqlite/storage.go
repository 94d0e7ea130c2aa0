// Package sqlite stores key/value entries in a single SQLite table. It is the
// local-storage flavour of the durable store: one row per key, last write wins.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/aretw0/framenotes/pkg/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// Entry is one row of the kv table.
type Entry struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Storage implements core.Storage on top of SQLite.
type Storage struct {
	Path   string
	db     *sqlx.DB
	logger *slog.Logger

	mu     sync.Mutex
	reads  int
	writes int
}

// Open connects to the database file at path and creates the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database %s: %w", path, err)
	}
	// a single connection serializes writers and keeps :memory: databases coherent
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	logger.Debug("sqlite storage opened", "path", path)
	return &Storage{Path: path, db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Read implements core.Storage.
func (s *Storage) Read(ctx context.Context, key string) ([]byte, error) {
	var e Entry
	err := s.db.GetContext(ctx, &e, `SELECT key, value, updated_at FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return e.Value, nil
}

// Write implements core.Storage.
func (s *Storage) Write(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	e := Entry{Key: key, Value: append([]byte{}, data...), UpdatedAt: time.Now().UTC()}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (:key, :value, :updated_at)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, e)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return nil
}

// Keys lists the stored keys in lexical order.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, `SELECT key FROM kv ORDER BY key`); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// StorageState exposes internal state for observability.
type StorageState struct {
	Path   string `json:"path"`
	Reads  int    `json:"reads"`
	Writes int    `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StorageState{Path: s.Path, Reads: s.reads, Writes: s.writes}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "sqlite-storage"
}

var _ core.Storage = (*Storage)(nil)
var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
