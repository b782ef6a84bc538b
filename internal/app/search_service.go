package app

import (
	"context"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/logger"
	"github.com/cesargomez89/tajikquran/internal/search"
	"github.com/cesargomez89/tajikquran/internal/store"
)

// SearchService runs searches and exposes a user's recent queries.
type SearchService struct {
	Engine *search.Engine
	Repo   *store.DB
	Logger *logger.Logger
}

func NewSearchService(engine *search.Engine, repo *store.DB, log *logger.Logger) *SearchService {
	return &SearchService{Engine: engine, Repo: repo, Logger: log}
}

func (s *SearchService) Search(ctx context.Context, sess domain.Session, q search.Query) ([]domain.Verse, error) {
	return s.Engine.Search(ctx, sess, q)
}

// History returns the most recent queries of the session user.
func (s *SearchService) History(ctx context.Context, sess domain.Session) ([]domain.SearchHistory, error) {
	if sess.UserID == nil {
		return nil, domain.NewValidation("userId", "user id is required")
	}
	return s.Repo.ListSearchHistory(ctx, *sess.UserID, constants.MaxHistoryItems)
}
