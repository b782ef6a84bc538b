package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cesargomez89/tajikquran/internal/domain"
)

// CreateBookmark stores a bookmark for an existing verse. A second call with
// the same user and verse returns domain.ErrAlreadyExists and writes nothing.
func (db *DB) CreateBookmark(ctx context.Context, userID, verseID int64) (*domain.Bookmark, error) {
	if _, err := db.GetVerseByID(ctx, verseID); err != nil {
		return nil, err
	}

	b := &domain.Bookmark{UserID: userID, VerseID: verseID, CreatedAt: time.Now().UTC()}
	query := db.Rebind(`INSERT INTO bookmarks (user_id, verse_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id, verse_id) DO NOTHING
		RETURNING id`)

	err := db.QueryRowxContext(ctx, query, userID, verseID, b.CreatedAt).Scan(&b.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bookmark for verse %d: %w", verseID, domain.ErrAlreadyExists)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}
	return b, nil
}

type bookmarkRow struct {
	BookmarkID        int64     `db:"bookmark_id"`
	BookmarkUserID    int64     `db:"bookmark_user_id"`
	BookmarkCreatedAt time.Time `db:"bookmark_created_at"`
	domain.Verse
}

// ListBookmarks returns a user's bookmarks joined with their verses, newest first.
func (db *DB) ListBookmarks(ctx context.Context, userID int64) ([]domain.BookmarkWithVerse, error) {
	var rows []bookmarkRow
	query := db.Rebind(`SELECT b.id AS bookmark_id, b.user_id AS bookmark_user_id, b.created_at AS bookmark_created_at, ` +
		verseColumns + `
		FROM bookmarks b
		JOIN verses v ON v.id = b.verse_id
		JOIN surahs s ON s.id = v.surah_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC, b.id DESC`)
	if err := db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookmarks for user %d: %w", userID, err)
	}

	out := make([]domain.BookmarkWithVerse, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.BookmarkWithVerse{
			Bookmark: domain.Bookmark{
				ID:        r.BookmarkID,
				UserID:    r.BookmarkUserID,
				VerseID:   r.Verse.ID,
				CreatedAt: r.BookmarkCreatedAt,
			},
			Verse: r.Verse,
		})
	}
	return out, nil
}

func (db *DB) DeleteBookmark(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM bookmarks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete bookmark %d: %w", id, err)
	}
	if n == 0 {
		return domain.NewNotFound("bookmark", strconv.FormatInt(id, 10))
	}
	return nil
}
