package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cesargomez89/tajikquran/internal/domain"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
	}
	return db, cleanup
}

func strPtr(s string) *string { return &s }

// seedTestData loads Al-Fatiha 1:1 and Al-Baqarah 2:1, 2:2 and 2:255.
func seedTestData(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	surahs := []domain.Surah{
		{Number: 1, NameArabic: "الفاتحة", NameTajik: "Фотиҳа", NameEnglish: "Al-Fatihah", RevelationType: domain.RevelationMeccan, VersesCount: 7},
		{Number: 2, NameArabic: "البقرة", NameTajik: "Бақара", NameEnglish: "Al-Baqarah", RevelationType: domain.RevelationMedinan, VersesCount: 286},
	}
	for i := range surahs {
		if err := db.UpsertSurah(ctx, &surahs[i]); err != nil {
			t.Fatalf("UpsertSurah failed: %v", err)
		}
	}

	verses := []domain.Verse{
		{SurahNumber: 1, VerseNumber: 1, ArabicText: "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", TajikText: "Ба номи Аллоҳи бахшояндаи меҳрубон"},
		{SurahNumber: 2, VerseNumber: 1, ArabicText: "الٓمٓ", TajikText: "Алиф. Лом. Мим."},
		{SurahNumber: 2, VerseNumber: 2, ArabicText: "ذَٰلِكَ الْكِتَابُ لَا رَيْبَ ۛ فِيهِ ۛ هُدًى لِّلْمُتَّقِينَ", TajikText: "Ин китоб, ки дар он ҳеҷ шакке нест, роҳнамои парҳезгорон аст."},
		{SurahNumber: 2, VerseNumber: 255, ArabicText: "ٱللَّهُ لَآ إِلَٰهَ إِلَّا هُوَ ٱلْحَىُّ ٱلْقَيُّومُ", TajikText: "АЛЛОҲ, ки ҳеҷ маъбуде ҷуз Ӯ нест, зинда ва пояндааст."},
	}
	if err := db.UpsertVerses(ctx, verses); err != nil {
		t.Fatalf("UpsertVerses failed: %v", err)
	}
}

func TestDB_Surahs(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)
	ctx := context.Background()

	list, err := db.ListSurahs(ctx)
	if err != nil {
		t.Fatalf("ListSurahs failed: %v", err)
	}
	if len(list) != 2 || list[0].Number != 1 || list[1].Number != 2 {
		t.Errorf("Expected surahs 1 and 2 in order, got %+v", list)
	}

	surah, err := db.GetSurahByNumber(ctx, 2)
	if err != nil {
		t.Fatalf("GetSurahByNumber failed: %v", err)
	}
	if surah.NameEnglish != "Al-Baqarah" || surah.RevelationType != domain.RevelationMedinan {
		t.Errorf("Unexpected surah: %+v", surah)
	}

	_, err = db.GetSurahByNumber(ctx, 3)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	bad := domain.Surah{Number: 115, RevelationType: domain.RevelationMeccan}
	if err := db.UpsertSurah(ctx, &bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for surah 115, got %v", err)
	}
}

func TestDB_Verses(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)
	ctx := context.Background()

	verses, err := db.ListVersesBySurah(ctx, 2)
	if err != nil {
		t.Fatalf("ListVersesBySurah failed: %v", err)
	}
	if len(verses) != 3 {
		t.Fatalf("Expected 3 verses, got %d", len(verses))
	}
	for i, want := range []string{"2:1", "2:2", "2:255"} {
		if verses[i].UniqueKey != want {
			t.Errorf("Expected verse %d to be %s, got %s", i, want, verses[i].UniqueKey)
		}
		if verses[i].SurahNumber != 2 {
			t.Errorf("Expected surah number 2, got %d", verses[i].SurahNumber)
		}
	}

	if _, err := db.ListVersesBySurah(ctx, 50); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unseeded surah, got %v", err)
	}

	v, err := db.GetVerseByKey(ctx, "2:255")
	if err != nil {
		t.Fatalf("GetVerseByKey failed: %v", err)
	}
	if v.VerseNumber != 255 {
		t.Errorf("Expected verse 255, got %d", v.VerseNumber)
	}

	byID, err := db.GetVerseByID(ctx, v.ID)
	if err != nil || byID.UniqueKey != "2:255" {
		t.Errorf("GetVerseByID = %+v, %v", byID, err)
	}

	if _, err := db.GetVerseByKey(ctx, "2:300"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDB_UpsertVerse_DerivesKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)
	ctx := context.Background()

	v := domain.Verse{SurahNumber: 2, VerseNumber: 3, ArabicText: "الَّذِينَ يُؤْمِنُونَ بِالْغَيْبِ", TajikText: "Касоне, ки ба ғайб имон меоваранд", UniqueKey: "9:9"}
	if err := db.UpsertVerse(ctx, &v); err != nil {
		t.Fatalf("UpsertVerse failed: %v", err)
	}
	if v.UniqueKey != "2:3" {
		t.Errorf("Expected derived key 2:3, got %s", v.UniqueKey)
	}
	if _, err := db.GetVerseByKey(ctx, "9:9"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("Expected caller supplied key to be ignored")
	}

	before, _ := db.Stats(ctx)
	v.TajikText = "Онон ки ба ғайб имон меоваранд"
	v.Tafsir = strPtr("tafsir")
	if err := db.UpsertVerse(ctx, &v); err != nil {
		t.Fatalf("Second UpsertVerse failed: %v", err)
	}
	after, _ := db.Stats(ctx)
	if before.Verses != after.Verses {
		t.Errorf("Expected upsert to keep %d verses, got %d", before.Verses, after.Verses)
	}

	got, _ := db.GetVerseByKey(ctx, "2:3")
	if got.TajikText != "Онон ки ба ғайб имон меоваранд" || got.Tafsir == nil {
		t.Errorf("Expected updated verse, got %+v", got)
	}

	orphan := domain.Verse{SurahNumber: 10, VerseNumber: 1, ArabicText: "x"}
	if err := db.UpsertVerse(ctx, &orphan); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing surah, got %v", err)
	}
}

func TestDB_BasicSearch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)
	ctx := context.Background()

	two := 2
	tests := []struct {
		name   string
		params domain.SearchParams
		want   []string
	}{
		{"arabic exact", domain.SearchParams{Query: "ٱللَّهِ", Language: domain.LanguageArabic, Limit: 100}, []string{"1:1"}},
		{"arabic no tajik match", domain.SearchParams{Query: "Аллоҳ", Language: domain.LanguageArabic, Limit: 100}, nil},
		{"tajik case insensitive", domain.SearchParams{Query: "аллоҳ", Language: domain.LanguageTajik, Limit: 100}, []string{"1:1", "2:255"}},
		{"tajik upper query", domain.SearchParams{Query: "КИТОБ", Language: domain.LanguageTajik, Limit: 100}, []string{"2:2"}},
		{"both", domain.SearchParams{Query: "ки", Language: domain.LanguageBoth, Limit: 100}, []string{"2:2", "2:255"}},
		{"surah filter", domain.SearchParams{Query: "аллоҳ", Language: domain.LanguageTajik, Surah: &two, Limit: 100}, []string{"2:255"}},
		{"limit", domain.SearchParams{Query: "аллоҳ", Language: domain.LanguageTajik, Limit: 1}, []string{"1:1"}},
		{"percent is literal", domain.SearchParams{Query: "%", Language: domain.LanguageBoth, Limit: 100}, nil},
		{"underscore is literal", domain.SearchParams{Query: "_", Language: domain.LanguageBoth, Limit: 100}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.BasicSearch(ctx, tt.params)
			if err != nil {
				t.Fatalf("BasicSearch failed: %v", err)
			}
			var keys []string
			for _, v := range got {
				keys = append(keys, v.UniqueKey)
			}
			if strings.Join(keys, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, keys)
			}
		})
	}
}

func TestDB_RankedSearch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	if !db.SupportsRankedSearch() {
		t.Skip("FTS5 not available")
	}
	seedTestData(t, db)
	ctx := context.Background()

	got, err := db.RankedSearch(ctx, domain.SearchParams{Query: "аллоҳ", Language: domain.LanguageTajik, Limit: 10})
	if err != nil {
		t.Fatalf("RankedSearch failed: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Expected ranked results")
	}
	for _, v := range got {
		if !strings.Contains(strings.ToLower(v.TajikText), "аллоҳ") {
			t.Errorf("Unexpected ranked result %s", v.UniqueKey)
		}
	}

	got, err = db.RankedSearch(ctx, domain.SearchParams{Query: `"OR`, Language: domain.LanguageBoth, Limit: 10})
	if err != nil {
		t.Fatalf("Expected quoted input to be safe, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no results, got %d", len(got))
	}
}

func TestDB_Bookmarks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)
	ctx := context.Background()

	verse, _ := db.GetVerseByKey(ctx, "2:255")

	b, err := db.CreateBookmark(ctx, 1, verse.ID)
	if err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}
	if b.ID == 0 {
		t.Error("Expected bookmark id to be set")
	}

	if _, err := db.CreateBookmark(ctx, 1, verse.ID); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists on duplicate, got %v", err)
	}

	stats, _ := db.Stats(ctx)
	if stats.Bookmarks != 1 {
		t.Errorf("Expected exactly 1 stored bookmark, got %d", stats.Bookmarks)
	}

	if _, err := db.CreateBookmark(ctx, 1, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown verse, got %v", err)
	}

	list, err := db.ListBookmarks(ctx, 1)
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}
	if len(list) != 1 || list[0].Verse.UniqueKey != "2:255" || list[0].Bookmark.ID != b.ID {
		t.Errorf("Unexpected bookmarks: %+v", list)
	}

	other, _ := db.ListBookmarks(ctx, 2)
	if len(other) != 0 {
		t.Errorf("Expected no bookmarks for user 2, got %d", len(other))
	}

	if err := db.DeleteBookmark(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBookmark failed: %v", err)
	}
	list, _ = db.ListBookmarks(ctx, 1)
	if len(list) != 0 {
		t.Errorf("Expected bookmark removed, got %d", len(list))
	}
	if err := db.DeleteBookmark(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDB_SearchHistory(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		if err := db.AddSearchHistory(ctx, 7, q); err != nil {
			t.Fatalf("AddSearchHistory failed: %v", err)
		}
	}
	_ = db.AddSearchHistory(ctx, 8, "other user")

	history, err := db.ListSearchHistory(ctx, 7, 2)
	if err != nil {
		t.Fatalf("ListSearchHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(history))
	}
	if history[0].Query != "third" || history[1].Query != "second" {
		t.Errorf("Expected newest first, got %q, %q", history[0].Query, history[1].Query)
	}
}

func TestDB_WordAnalysis(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)
	ctx := context.Background()

	verse, _ := db.GetVerseByKey(ctx, "1:1")
	words := []domain.WordAnalysis{
		{VerseID: verse.ID, WordPosition: 2, WordText: "ٱللَّهِ"},
		{VerseID: verse.ID, WordPosition: 1, WordText: "بِسْمِ", Translation: strPtr("ба номи")},
	}
	if err := db.SaveWordAnalysis(ctx, words); err != nil {
		t.Fatalf("SaveWordAnalysis failed: %v", err)
	}
	if err := db.SaveWordAnalysis(ctx, words); err != nil {
		t.Fatalf("Second SaveWordAnalysis failed: %v", err)
	}

	got, err := db.ListWordAnalysis(ctx, verse.ID)
	if err != nil {
		t.Fatalf("ListWordAnalysis failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 words, got %d", len(got))
	}
	if got[0].WordPosition != 1 || got[0].Translation == nil || *got[0].Translation != "ба номи" {
		t.Errorf("Unexpected first word: %+v", got[0])
	}
}

func TestSettingsRepo(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repo := NewSettingsRepo(db)

	_, found, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected no settings for new user")
	}

	s := domain.DefaultReaderSettings()
	s.Theme = "sepia"
	s.LastRead = &domain.ReadingPosition{Surah: 2, Verse: 255}
	if err := repo.Set(ctx, 1, s); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found, err := repo.Get(ctx, 1)
	if err != nil || !found {
		t.Fatalf("Get after Set = %v, found=%v", err, found)
	}
	if got.Theme != "sepia" || got.LastRead == nil || got.LastRead.Verse != 255 {
		t.Errorf("Unexpected settings: %+v", got)
	}

	s.Theme = "dark"
	_ = repo.Set(ctx, 1, s)
	got, _, _ = repo.Get(ctx, 1)
	if got.Theme != "dark" {
		t.Errorf("Expected overwrite, got %s", got.Theme)
	}

	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := repo.Get(ctx, 1); found {
		t.Error("Expected settings deleted")
	}
}

func TestDB_Cache(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := db.SetCache(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("SetCache failed: %v", err)
	}
	data, err := db.GetCache(ctx, "k")
	if err != nil || string(data) != "v" {
		t.Errorf("GetCache = %q, %v", data, err)
	}

	missing, err := db.GetCache(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Expected nil for missing key, got %q, %v", missing, err)
	}

	_ = db.SetCache(ctx, "short", []byte("x"), time.Millisecond)
	_ = db.SetCache(ctx, "short2", []byte("y"), time.Millisecond)
	_ = db.SetCache(ctx, "forever", []byte("z"), 0)
	time.Sleep(20 * time.Millisecond)

	if data, _ := db.GetCache(ctx, "short"); data != nil {
		t.Errorf("Expected expired entry to be gone, got %q", data)
	}

	purged, err := db.PurgeExpiredCache(ctx, time.Now())
	if err != nil {
		t.Fatalf("PurgeExpiredCache failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("Expected 1 purged entry, got %d", purged)
	}
	if data, _ := db.GetCache(ctx, "forever"); string(data) != "z" {
		t.Error("Expected entry without ttl to survive purge")
	}

	cleared, err := db.ClearCache(ctx)
	if err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if cleared != 2 {
		t.Errorf("Expected 2 cleared entries, got %d", cleared)
	}
	if data, _ := db.GetCache(ctx, "k"); data != nil {
		t.Error("Expected cache cleared")
	}
}

func TestRunInTx_RollsBack(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)
	ctx := context.Background()

	verse, _ := db.GetVerseByKey(ctx, "1:1")
	words := []domain.WordAnalysis{
		{VerseID: verse.ID, WordPosition: 1, WordText: "a"},
		{VerseID: 424242, WordPosition: 1, WordText: "fk violation"},
	}
	if err := db.SaveWordAnalysis(ctx, words); err == nil {
		t.Fatal("Expected foreign key failure")
	}

	got, _ := db.ListWordAnalysis(ctx, verse.ID)
	if len(got) != 0 {
		t.Errorf("Expected rollback to discard the first word, got %d", len(got))
	}
}
