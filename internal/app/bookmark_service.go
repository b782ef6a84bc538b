package app

import (
	"context"

	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/logger"
	"github.com/cesargomez89/tajikquran/internal/store"
)

type BookmarkService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewBookmarkService(repo *store.DB, log *logger.Logger) *BookmarkService {
	return &BookmarkService{Repo: repo, Logger: log}
}

func (s *BookmarkService) List(ctx context.Context, sess domain.Session) ([]domain.BookmarkWithVerse, error) {
	if sess.UserID == nil {
		return nil, domain.NewValidation("userId", "user id is required")
	}
	return s.Repo.ListBookmarks(ctx, *sess.UserID)
}

// Create bookmarks a verse. A duplicate returns domain.ErrAlreadyExists.
func (s *BookmarkService) Create(ctx context.Context, sess domain.Session, verseID int64) (*domain.Bookmark, error) {
	if sess.UserID == nil {
		return nil, domain.NewValidation("user_id", "user id is required")
	}
	b, err := s.Repo.CreateBookmark(ctx, *sess.UserID, verseID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Bookmark created", "bookmark_id", b.ID, "user_id", b.UserID, "verse_id", verseID)
	return b, nil
}

func (s *BookmarkService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteBookmark(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("Bookmark deleted", "bookmark_id", id)
	return nil
}
