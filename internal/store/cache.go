package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GetCache returns the cached bytes for key, or nil when missing or expired.
func (db *DB) GetCache(ctx context.Context, key string) ([]byte, error) {
	type cacheRow struct {
		ExpiresAt sql.NullTime `db:"expires_at"`
		Data      []byte       `db:"data"`
	}

	var row cacheRow
	err := db.GetContext(ctx, &row, db.Rebind("SELECT data, expires_at FROM cache WHERE key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if row.ExpiresAt.Valid && time.Now().After(row.ExpiresAt.Time) {
		_, _ = db.ExecContext(ctx, db.Rebind("DELETE FROM cache WHERE key = ?"), key)
		return nil, nil
	}

	return row.Data, nil
}

// SetCache stores data under key. A non-positive ttl never expires.
func (db *DB) SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl).UTC()
		expiresAt = &t
	}

	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO cache (key, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at
	`), key, data, expiresAt)
	return err
}

// PurgeExpiredCache deletes entries that expired before now and returns how many.
func (db *DB) PurgeExpiredCache(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		db.Rebind("DELETE FROM cache WHERE expires_at IS NOT NULL AND expires_at < ?"), now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearCache drops every cached upstream response and reports how many were removed.
func (db *DB) ClearCache(ctx context.Context) (int64, error) {
	res, err := db.ExecContext(ctx, "DELETE FROM cache")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
