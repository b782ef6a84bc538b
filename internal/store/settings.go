package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cesargomez89/tajikquran/internal/domain"
)

// SettingsRepo persists per-user reader settings as a JSON column.
type SettingsRepo struct {
	db *DB
}

func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the stored settings. found is false when the user never saved any.
func (r *SettingsRepo) Get(ctx context.Context, userID int64) (settings domain.ReaderSettings, found bool, err error) {
	err = r.db.GetContext(ctx, &settings, r.db.Rebind(`SELECT value FROM user_settings WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ReaderSettings{}, false, nil
	}
	if err != nil {
		return domain.ReaderSettings{}, false, fmt.Errorf("failed to get settings for user %d: %w", userID, err)
	}
	return settings, true, nil
}

func (r *SettingsRepo) Set(ctx context.Context, userID int64, settings domain.ReaderSettings) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO user_settings (user_id, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`), userID, settings, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save settings for user %d: %w", userID, err)
	}
	return nil
}

func (r *SettingsRepo) Delete(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM user_settings WHERE user_id = ?`), userID)
	if err != nil {
		return fmt.Errorf("failed to delete settings for user %d: %w", userID, err)
	}
	return nil
}
