package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteBackend implements Backend using SQLite.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens the database at dbPath and applies pending migrations.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// GetEntry retrieves an entry regardless of expiry.
func (b *SQLiteBackend) GetEntry(ctx context.Context, namespace, key string) (Entry, bool, error) {
	var (
		value     string
		expiresAt int64
	)
	err := b.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM entries WHERE namespace = ? AND key = ?
	`, namespace, key).Scan(&value, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("failed to get entry: %w", err)
	}

	return Entry{Value: value, ExpiresAt: time.UnixMilli(expiresAt)}, true, nil
}

// PutEntry inserts or replaces an entry.
func (b *SQLiteBackend) PutEntry(ctx context.Context, namespace, key string, entry Entry) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO entries (namespace, key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, namespace, key, entry.Value, entry.ExpiresAt.UnixMilli(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to put entry: %w", err)
	}
	return nil
}

// Purge deletes entries that expired at or before now.
func (b *SQLiteBackend) Purge(ctx context.Context, now time.Time) (int64, error) {
	result, err := b.db.ExecContext(ctx, `DELETE FROM entries WHERE expires_at <= ?`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge entries: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged entries: %w", err)
	}
	return n, nil
}
