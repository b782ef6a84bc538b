package app

import (
	"context"

	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/logger"
	"github.com/cesargomez89/tajikquran/internal/store"
	"github.com/cesargomez89/tajikquran/internal/textnorm"
)

type WordService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewWordService(repo *store.DB, log *logger.Logger) *WordService {
	return &WordService{Repo: repo, Logger: log}
}

// Analyze returns the word breakdown of a verse. Verses without stored
// analysis are split on whitespace and the result is persisted so later
// calls are served from the database.
func (s *WordService) Analyze(ctx context.Context, surah, verse int) ([]domain.WordAnalysis, error) {
	if err := domain.ValidateSurahNumber(surah); err != nil {
		return nil, err
	}
	if verse < 1 {
		return nil, domain.NewValidation("verse", "verse number must be a positive integer")
	}

	key := domain.VerseKey{Surah: surah, Verse: verse}.String()
	v, err := s.Repo.GetVerseByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	words, err := s.Repo.ListWordAnalysis(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	if len(words) > 0 {
		return words, nil
	}

	words = splitWords(v)
	if err := s.Repo.SaveWordAnalysis(ctx, words); err != nil {
		s.Logger.WithVerse(key).Warn("Failed to persist generated word analysis", "error", err)
	}
	return words, nil
}

func splitWords(v *domain.Verse) []domain.WordAnalysis {
	fields := textnorm.Words(v.ArabicText)
	words := make([]domain.WordAnalysis, 0, len(fields))
	for i, w := range fields {
		words = append(words, domain.WordAnalysis{
			VerseID:      v.ID,
			WordPosition: i + 1,
			WordText:     w,
		})
	}
	return words
}
