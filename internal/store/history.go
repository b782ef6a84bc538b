package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cesargomez89/tajikquran/internal/domain"
)

func (db *DB) AddSearchHistory(ctx context.Context, userID int64, query string) error {
	_, err := db.ExecContext(ctx,
		db.Rebind(`INSERT INTO search_history (user_id, query, created_at) VALUES (?, ?, ?)`),
		userID, query, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record search for user %d: %w", userID, err)
	}
	return nil
}

// ListSearchHistory returns the most recent queries of a user, newest first.
func (db *DB) ListSearchHistory(ctx context.Context, userID int64, limit int) ([]domain.SearchHistory, error) {
	history := []domain.SearchHistory{}
	query := db.Rebind(`SELECT id, user_id, query, created_at FROM search_history
		WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err := db.SelectContext(ctx, &history, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list search history for user %d: %w", userID, err)
	}
	return history, nil
}
