package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/textnorm"
)

// BasicSearch is substring containment: exact for Arabic, case folded for
// Tajik. Requested languages are OR-ed and the surah filter is AND-ed.
// Results come in document order.
func (db *DB) BasicSearch(ctx context.Context, p domain.SearchParams) ([]domain.Verse, error) {
	var (
		conds []string
		args  []interface{}
	)
	if p.Language.IncludesArabic() {
		conds = append(conds, db.contains("v.arabic_text"))
		args = append(args, p.Query)
	}
	if p.Language.IncludesTajik() {
		conds = append(conds, db.contains("v.tajik_search"))
		args = append(args, textnorm.FoldTajik(p.Query))
	}
	if len(conds) == 0 {
		return []domain.Verse{}, nil
	}

	where := "(" + strings.Join(conds, " OR ") + ")"
	if p.Surah != nil {
		where += " AND s.number = ?"
		args = append(args, *p.Surah)
	}
	args = append(args, p.Limit)

	verses := []domain.Verse{}
	query := db.Rebind(`SELECT ` + verseColumns + verseFrom + ` WHERE ` + where +
		` ORDER BY s.number, v.verse_number LIMIT ?`)
	if err := db.SelectContext(ctx, &verses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search verses: %w", err)
	}
	return verses, nil
}

// RankedSearch orders matches by relevance. It fails when the capability
// was not detected at open.
func (db *DB) RankedSearch(ctx context.Context, p domain.SearchParams) ([]domain.Verse, error) {
	if !db.rankedSearch {
		return nil, fmt.Errorf("ranked search is not available on this database")
	}
	if db.driver == constants.DriverPostgres {
		return db.rankedSearchPostgres(ctx, p)
	}

	match := ftsMatch(p)
	if match == "" {
		return []domain.Verse{}, nil
	}

	args := []interface{}{match}
	where := "f.verses_fts MATCH ?"
	if p.Surah != nil {
		where += " AND s.number = ?"
		args = append(args, *p.Surah)
	}
	args = append(args, p.Limit)

	verses := []domain.Verse{}
	query := `SELECT ` + verseColumns + `
		FROM verses_fts f
		JOIN verses v ON v.id = f.verse_id
		JOIN surahs s ON s.id = v.surah_id
		WHERE ` + where + `
		ORDER BY f.rank, s.number, v.verse_number
		LIMIT ?`
	if err := db.SelectContext(ctx, &verses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to run ranked search: %w", err)
	}
	return verses, nil
}

// rankedSearchPostgres delegates to search_verses(query, language, surah, limit)
// which returns (verse_id, rank).
func (db *DB) rankedSearchPostgres(ctx context.Context, p domain.SearchParams) ([]domain.Verse, error) {
	verses := []domain.Verse{}
	query := db.Rebind(`SELECT ` + verseColumns + `
		FROM search_verses(?, ?, ?, ?) r
		JOIN verses v ON v.id = r.verse_id
		JOIN surahs s ON s.id = v.surah_id
		ORDER BY r.rank DESC, s.number, v.verse_number`)
	if err := db.SelectContext(ctx, &verses, query, p.Query, string(p.Language), p.Surah, p.Limit); err != nil {
		return nil, fmt.Errorf("failed to run ranked search: %w", err)
	}
	return verses, nil
}

// ftsMatch builds an FTS5 expression requiring every query token in the
// filtered column. Tokens are quoted so user input cannot inject operators.
func ftsMatch(p domain.SearchParams) string {
	build := func(column, text string) string {
		words := textnorm.Words(text)
		if len(words) == 0 {
			return ""
		}
		terms := make([]string, len(words))
		for i, w := range words {
			terms[i] = column + ` : "` + strings.ReplaceAll(w, `"`, `""`) + `"`
		}
		return "(" + strings.Join(terms, " AND ") + ")"
	}

	var parts []string
	if p.Language.IncludesArabic() {
		if e := build("arabic", textnorm.StripTashkeel(p.Query)); e != "" {
			parts = append(parts, e)
		}
	}
	if p.Language.IncludesTajik() {
		if e := build("tajik", textnorm.FoldTajik(p.Query)); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, " OR ")
}
