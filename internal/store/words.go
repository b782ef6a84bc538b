package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/tajikquran/internal/domain"
)

const wordColumns = `id, verse_id, word_position, word_text, transliteration, translation, root, part_of_speech, created_at`

func (db *DB) ListWordAnalysis(ctx context.Context, verseID int64) ([]domain.WordAnalysis, error) {
	words := []domain.WordAnalysis{}
	query := db.Rebind(`SELECT ` + wordColumns + ` FROM word_analysis WHERE verse_id = ? ORDER BY word_position`)
	if err := db.SelectContext(ctx, &words, query, verseID); err != nil {
		return nil, fmt.Errorf("failed to list word analysis for verse %d: %w", verseID, err)
	}
	return words, nil
}

// SaveWordAnalysis writes all words in one transaction. Positions that
// already exist are kept as stored.
func (db *DB) SaveWordAnalysis(ctx context.Context, words []domain.WordAnalysis) error {
	if len(words) == 0 {
		return nil
	}
	return db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`INSERT INTO word_analysis (verse_id, word_position, word_text, transliteration,
				translation, root, part_of_speech, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(verse_id, word_position) DO NOTHING`)
		now := time.Now().UTC()
		for i := range words {
			w := &words[i]
			if w.CreatedAt.IsZero() {
				w.CreatedAt = now
			}
			_, err := tx.ExecContext(ctx, query, w.VerseID, w.WordPosition, w.WordText, w.Transliteration,
				w.Translation, w.Root, w.PartOfSpeech, w.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to save word %d of verse %d: %w", w.WordPosition, w.VerseID, err)
			}
		}
		return nil
	})
}
