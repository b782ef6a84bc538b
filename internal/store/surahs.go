package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/cesargomez89/tajikquran/internal/domain"
)

const surahColumns = `id, number, name_arabic, name_tajik, name_english, revelation_type, verses_count, description`

func (db *DB) ListSurahs(ctx context.Context) ([]domain.Surah, error) {
	surahs := []domain.Surah{}
	if err := db.SelectContext(ctx, &surahs, `SELECT `+surahColumns+` FROM surahs ORDER BY number`); err != nil {
		return nil, fmt.Errorf("failed to list surahs: %w", err)
	}
	return surahs, nil
}

func (db *DB) GetSurahByNumber(ctx context.Context, number int) (*domain.Surah, error) {
	var surah domain.Surah
	err := db.GetContext(ctx, &surah, db.Rebind(`SELECT `+surahColumns+` FROM surahs WHERE number = ?`), number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("surah", strconv.Itoa(number))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get surah %d: %w", number, err)
	}
	return &surah, nil
}

// UpsertSurah inserts or updates a surah by number and sets s.ID.
func (db *DB) UpsertSurah(ctx context.Context, s *domain.Surah) error {
	if err := domain.ValidateSurahNumber(s.Number); err != nil {
		return err
	}
	if s.RevelationType != domain.RevelationMeccan && s.RevelationType != domain.RevelationMedinan {
		return domain.NewValidation("revelation_type", "must be Meccan or Medinan")
	}

	query := db.Rebind(`INSERT INTO surahs (number, name_arabic, name_tajik, name_english, revelation_type, verses_count, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
			name_arabic = excluded.name_arabic,
			name_tajik = excluded.name_tajik,
			name_english = excluded.name_english,
			revelation_type = excluded.revelation_type,
			verses_count = excluded.verses_count,
			description = excluded.description
		RETURNING id`)

	err := db.QueryRowxContext(ctx, query,
		s.Number, s.NameArabic, s.NameTajik, s.NameEnglish, s.RevelationType, s.VersesCount, s.Description,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert surah %d: %w", s.Number, err)
	}
	return nil
}
