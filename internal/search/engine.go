// Package search resolves free-text and chapter:verse queries into verses.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/logger"
)

// Store is the storage the engine needs. RankedSearch is only called when
// SupportsRankedSearch reports true.
type Store interface {
	SupportsRankedSearch() bool
	RankedSearch(ctx context.Context, p domain.SearchParams) ([]domain.Verse, error)
	BasicSearch(ctx context.Context, p domain.SearchParams) ([]domain.Verse, error)
	GetVerseByKey(ctx context.Context, key string) (*domain.Verse, error)
	AddSearchHistory(ctx context.Context, userID int64, query string) error
}

// Query is a raw search request before validation.
type Query struct {
	Text     string
	Language string
	Surah    *int
}

type Options struct {
	Mode  string
	Limit int
}

type Engine struct {
	store  Store
	logger *logger.Logger
	ranked bool
	limit  int
}

func NewEngine(store Store, opts Options, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Discard()
	}
	limit := opts.Limit
	if limit < 1 {
		limit = constants.DefaultSearchLimit
	}
	if limit > constants.MaxSearchLimit {
		limit = constants.MaxSearchLimit
	}
	return &Engine{
		store:  store,
		logger: log.WithComponent("search"),
		ranked: opts.Mode == constants.SearchModeRanked,
		limit:  limit,
	}
}

// Limit is the maximum number of verses a search returns.
func (e *Engine) Limit() int {
	return e.limit
}

// Validate checks q without touching storage.
func (e *Engine) Validate(q Query) (domain.SearchParams, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return domain.SearchParams{}, domain.NewValidation("q", "search query is required")
	}
	if utf8.RuneCountInString(text) > constants.MaxQueryLength {
		return domain.SearchParams{}, domain.NewValidation("q", fmt.Sprintf("search query must be at most %d characters", constants.MaxQueryLength))
	}
	lang, err := domain.ParseSearchLanguage(q.Language)
	if err != nil {
		return domain.SearchParams{}, err
	}
	if q.Surah != nil {
		if err := domain.ValidateSurahNumber(*q.Surah); err != nil {
			return domain.SearchParams{}, err
		}
	}
	return domain.SearchParams{Query: text, Language: lang, Surah: q.Surah, Limit: e.limit}, nil
}

// Search runs q. A chapter:verse query resolves to at most one verse; other
// queries are substring matches in document order, or relevance order when
// ranked search is enabled and available. The query is recorded in the
// session user's history on a best-effort basis.
func (e *Engine) Search(ctx context.Context, sess domain.Session, q Query) ([]domain.Verse, error) {
	params, err := e.Validate(q)
	if err != nil {
		return nil, err
	}

	var verses []domain.Verse
	if domain.IsVerseKey(params.Query) {
		verses, err = e.byKey(ctx, params)
	} else {
		verses, err = e.byText(ctx, params)
	}
	if err != nil {
		return nil, err
	}

	e.recordHistory(ctx, sess, q.Text)
	return verses, nil
}

func (e *Engine) byKey(ctx context.Context, p domain.SearchParams) ([]domain.Verse, error) {
	verse, err := e.store.GetVerseByKey(ctx, p.Query)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Verse{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up verse %s: %w", p.Query, err)
	}
	if p.Surah != nil && verse.SurahNumber != *p.Surah {
		return []domain.Verse{}, nil
	}
	return []domain.Verse{*verse}, nil
}

func (e *Engine) byText(ctx context.Context, p domain.SearchParams) ([]domain.Verse, error) {
	if e.ranked && e.store.SupportsRankedSearch() {
		verses, err := e.store.RankedSearch(ctx, p)
		if err == nil {
			return capped(verses, p.Limit), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("Ranked search failed, falling back to basic search", "query", p.Query, "error", err)
	}

	verses, err := e.store.BasicSearch(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to search verses: %w", err)
	}
	return capped(verses, p.Limit), nil
}

func (e *Engine) recordHistory(ctx context.Context, sess domain.Session, query string) {
	if sess.UserID == nil {
		return
	}
	if err := e.store.AddSearchHistory(ctx, *sess.UserID, query); err != nil {
		e.logger.Warn("Failed to record search history", "user_id", *sess.UserID, "query", query, "error", err)
	}
}

func capped(verses []domain.Verse, limit int) []domain.Verse {
	if verses == nil {
		return []domain.Verse{}
	}
	if len(verses) > limit {
		return verses[:limit]
	}
	return verses
}
