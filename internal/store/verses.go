package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/textnorm"
)

// verseColumns selects a domain.Verse from "verses v JOIN surahs s".
const verseColumns = `v.id, v.surah_id, s.number AS surah_number, v.verse_number, v.arabic_text, v.tajik_text,
	v.transliteration, v.translation_alt, v.tafsir, v.page, v.juz, v.audio_url, v.unique_key`

const verseFrom = ` FROM verses v JOIN surahs s ON s.id = v.surah_id`

// ListVersesBySurah returns the verses of a surah in verse order. An unknown
// surah is a not found error, an existing surah without verses is not.
func (db *DB) ListVersesBySurah(ctx context.Context, number int) ([]domain.Verse, error) {
	if _, err := db.GetSurahByNumber(ctx, number); err != nil {
		return nil, err
	}

	verses := []domain.Verse{}
	query := db.Rebind(`SELECT ` + verseColumns + verseFrom + ` WHERE s.number = ? ORDER BY v.verse_number`)
	if err := db.SelectContext(ctx, &verses, query, number); err != nil {
		return nil, fmt.Errorf("failed to list verses of surah %d: %w", number, err)
	}
	return verses, nil
}

func (db *DB) GetVerseByKey(ctx context.Context, key string) (*domain.Verse, error) {
	var verse domain.Verse
	query := db.Rebind(`SELECT ` + verseColumns + verseFrom + ` WHERE v.unique_key = ?`)
	err := db.GetContext(ctx, &verse, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("verse", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verse %s: %w", key, err)
	}
	return &verse, nil
}

func (db *DB) GetVerseByID(ctx context.Context, id int64) (*domain.Verse, error) {
	var verse domain.Verse
	query := db.Rebind(`SELECT ` + verseColumns + verseFrom + ` WHERE v.id = ?`)
	err := db.GetContext(ctx, &verse, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("verse", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verse %d: %w", id, err)
	}
	return &verse, nil
}

// UpsertVerse inserts or updates v by unique key. The owning surah is
// resolved from v.SurahNumber and the unique key is always derived, never
// taken from the caller.
func (db *DB) UpsertVerse(ctx context.Context, v *domain.Verse) error {
	return db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		return db.upsertVerseTx(ctx, tx, v)
	})
}

// UpsertVerses writes a batch of verses in one transaction.
func (db *DB) UpsertVerses(ctx context.Context, verses []domain.Verse) error {
	return db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		for i := range verses {
			if err := db.upsertVerseTx(ctx, tx, &verses[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *DB) upsertVerseTx(ctx context.Context, tx *sqlx.Tx, v *domain.Verse) error {
	if v.VerseNumber < 1 {
		return domain.NewValidation("verse_number", "must be a positive integer")
	}
	if v.ArabicText == "" {
		return domain.NewValidation("arabic_text", "cannot be empty")
	}

	var surahID int64
	err := tx.GetContext(ctx, &surahID, tx.Rebind(`SELECT id FROM surahs WHERE number = ?`), v.SurahNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFound("surah", strconv.Itoa(v.SurahNumber))
	}
	if err != nil {
		return fmt.Errorf("failed to resolve surah %d: %w", v.SurahNumber, err)
	}
	v.SurahID = surahID
	v.UniqueKey = v.Key().String()

	query := tx.Rebind(`INSERT INTO verses (surah_id, verse_number, arabic_text, tajik_text, transliteration,
			translation_alt, tafsir, page, juz, audio_url, unique_key, tajik_search)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(unique_key) DO UPDATE SET
			arabic_text = excluded.arabic_text,
			tajik_text = excluded.tajik_text,
			transliteration = excluded.transliteration,
			translation_alt = excluded.translation_alt,
			tafsir = excluded.tafsir,
			page = excluded.page,
			juz = excluded.juz,
			audio_url = excluded.audio_url,
			tajik_search = excluded.tajik_search
		RETURNING id`)

	err = tx.QueryRowxContext(ctx, query,
		v.SurahID, v.VerseNumber, v.ArabicText, v.TajikText, v.Transliteration,
		v.TranslationAlt, v.Tafsir, v.Page, v.Juz, v.AudioURL, v.UniqueKey, textnorm.FoldTajik(v.TajikText),
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert verse %s: %w", v.UniqueKey, err)
	}

	if db.rankedSearch && db.driver == constants.DriverSQLite {
		if _, err := tx.ExecContext(ctx, `DELETE FROM verses_fts WHERE verse_id = ?`, v.ID); err != nil {
			return fmt.Errorf("failed to clear search index for %s: %w", v.UniqueKey, err)
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO verses_fts (verse_id, arabic, tajik) VALUES (?, ?, ?)`,
			v.ID, textnorm.StripTashkeel(v.ArabicText), textnorm.FoldTajik(v.TajikText))
		if err != nil {
			return fmt.Errorf("failed to index verse %s: %w", v.UniqueKey, err)
		}
	}
	return nil
}
