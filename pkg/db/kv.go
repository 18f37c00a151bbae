package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/unowned-ai/jotter/pkg/notes"
	"go.uber.org/zap"
)

const (
	getItemStatement = `
	SELECT value FROM kv_store WHERE key = ?
	`

	setItemStatement = `
	INSERT INTO kv_store (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()
	`

	removeItemStatement = `
	DELETE FROM kv_store WHERE key = ?
	`

	listKeysStatement = `
	SELECT key FROM kv_store ORDER BY key ASC
	`
)

// KVStore is a notes.Storage backed by the kv_store table.
type KVStore struct {
	db *sql.DB
}

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

// Connect opens the database, brings its schema up to date and wraps it.
func Connect(o Options, logger *zap.Logger) (*KVStore, error) {
	conn, err := Open(o)
	if err != nil {
		return nil, err
	}

	if err := UpgradeDB(conn, o.Path, TargetSchemaVersion, logger); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", o.Path, err)
	}
	return NewKVStore(conn), nil
}

// DB returns the underlying *sql.DB.
func (s *KVStore) DB() *sql.DB {
	return s.db
}

// Close checkpoints the WAL (when enabled) and closes the connection.
func (s *KVStore) Close() error {
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	// Without WAL this is a no-op.
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return s.db.Close()
}

func (s *KVStore) GetItem(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, getItemStatement, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notes.ErrNoItem
		}
		return nil, fmt.Errorf("failed to read key '%s': %w", key, err)
	}
	return value, nil
}

func (s *KVStore) SetItem(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, setItemStatement, key, value); err != nil {
		return fmt.Errorf("failed to write key '%s': %w", key, err)
	}
	return nil
}

// RemoveItem deletes key, reporting notes.ErrNoItem when it was absent.
func (s *KVStore) RemoveItem(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, removeItemStatement, key)
	if err != nil {
		return fmt.Errorf("failed to remove key '%s': %w", key, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notes.ErrNoItem
	}
	return nil
}

// Keys lists every stored key in ascending order.
func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, listKeysStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key row: %w", err)
		}
		keys = append(keys, key)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating key rows: %w", err)
	}
	return keys, nil
}
