package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/domain"
)

var verseRowColumns = []string{
	"id", "surah_id", "surah_number", "verse_number", "arabic_text", "tajik_text",
	"transliteration", "translation_alt", "tafsir", "page", "juz", "audio_url", "unique_key",
}

func setupMockPostgres(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	db := &DB{DB: sqlx.NewDb(conn, "postgres"), driver: constants.DriverPostgres}
	return db, mock
}

func TestPostgres_ProbeRankedSearch(t *testing.T) {
	db, mock := setupMockPostgres(t)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM pg_proc WHERE proname = 'search_verses'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	if !db.probeRankedSearch(context.Background()) {
		t.Error("Expected ranked search to be detected")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestPostgres_BasicSearchUsesStrpos(t *testing.T) {
	db, mock := setupMockPostgres(t)
	surah := 2

	mock.ExpectQuery(`WHERE \(strpos\(v\.arabic_text, \$1\) > 0 OR strpos\(v\.tajik_search, \$2\) > 0\) AND s\.number = \$3 ORDER BY s\.number, v\.verse_number LIMIT \$4`).
		WithArgs("Аллоҳ", "аллоҳ", 2, 100).
		WillReturnRows(sqlmock.NewRows(verseRowColumns).
			AddRow(9, 2, 2, 255, "ٱللَّهُ لَآ إِلَٰهَ", "Аллоҳ, ки ҳеҷ маъбуде ҷуз Ӯ нест", nil, nil, nil, 42, 3, nil, "2:255"))

	verses, err := db.BasicSearch(context.Background(), domain.SearchParams{
		Query:    "Аллоҳ",
		Language: domain.LanguageBoth,
		Surah:    &surah,
		Limit:    100,
	})
	if err != nil {
		t.Fatalf("BasicSearch failed: %v", err)
	}
	if len(verses) != 1 || verses[0].UniqueKey != "2:255" || verses[0].Juz == nil || *verses[0].Juz != 3 {
		t.Errorf("Unexpected verses: %+v", verses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestPostgres_RankedSearchCallsFunction(t *testing.T) {
	db, mock := setupMockPostgres(t)
	db.rankedSearch = true
	surah := 1

	mock.ExpectQuery(`FROM search_verses\(\$1, \$2, \$3, \$4\) r`).
		WithArgs("rahman", "tajik", 1, 10).
		WillReturnRows(sqlmock.NewRows(verseRowColumns).
			AddRow(1, 1, 1, 1, "بِسْمِ", "Ба номи", nil, nil, nil, nil, nil, nil, "1:1"))

	verses, err := db.RankedSearch(context.Background(), domain.SearchParams{
		Query:    "rahman",
		Language: domain.LanguageTajik,
		Surah:    &surah,
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("RankedSearch failed: %v", err)
	}
	if len(verses) != 1 || verses[0].UniqueKey != "1:1" {
		t.Errorf("Unexpected verses: %+v", verses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestPostgres_RankedSearchUnavailable(t *testing.T) {
	db, mock := setupMockPostgres(t)

	_, err := db.RankedSearch(context.Background(), domain.SearchParams{Query: "x", Language: domain.LanguageBoth, Limit: 10})
	if err == nil {
		t.Error("Expected an error when ranked search was not detected")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unexpected queries: %v", err)
	}
}

func TestPostgres_CreateBookmarkDuplicate(t *testing.T) {
	db, mock := setupMockPostgres(t)

	mock.ExpectQuery(`WHERE v\.id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(verseRowColumns).
			AddRow(42, 2, 2, 255, "ٱللَّهُ", "Аллоҳ", nil, nil, nil, nil, nil, nil, "2:255"))
	mock.ExpectQuery(`INSERT INTO bookmarks \(user_id, verse_id, created_at\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs(7, 42, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := db.CreateBookmark(context.Background(), 7, 42)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
