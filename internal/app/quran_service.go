package app

import (
	"context"

	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/logger"
	"github.com/cesargomez89/tajikquran/internal/store"
)

// QuranService serves surahs and verses.
type QuranService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewQuranService(repo *store.DB, log *logger.Logger) *QuranService {
	return &QuranService{Repo: repo, Logger: log}
}

func (s *QuranService) ListSurahs(ctx context.Context) ([]domain.Surah, error) {
	return s.Repo.ListSurahs(ctx)
}

func (s *QuranService) GetSurah(ctx context.Context, number int) (*domain.Surah, error) {
	if err := domain.ValidateSurahNumber(number); err != nil {
		return nil, err
	}
	return s.Repo.GetSurahByNumber(ctx, number)
}

func (s *QuranService) ListVerses(ctx context.Context, surah int) ([]domain.Verse, error) {
	if err := domain.ValidateSurahNumber(surah); err != nil {
		return nil, err
	}
	return s.Repo.ListVersesBySurah(ctx, surah)
}

// GetVerse looks a verse up by its "surah:verse" key.
func (s *QuranService) GetVerse(ctx context.Context, key string) (*domain.Verse, error) {
	k, err := domain.ParseVerseKey(key)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetVerseByKey(ctx, k.String())
}
