package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/textnorm"
)

// fakeStore matches verses in memory the way the SQL store does.
type fakeStore struct {
	verses       []domain.Verse
	ranked       bool
	rankedErr    error
	basicErr     error
	historyErr   error
	history      []string
	basicCalls   int
	rankedCalls  int
	lookupCalls  int
	historyUsers []int64
}

func (f *fakeStore) SupportsRankedSearch() bool { return f.ranked }

func (f *fakeStore) RankedSearch(ctx context.Context, p domain.SearchParams) ([]domain.Verse, error) {
	f.rankedCalls++
	if f.rankedErr != nil {
		return nil, f.rankedErr
	}
	out := f.match(p)
	// reverse to prove ranked order is kept
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (f *fakeStore) BasicSearch(ctx context.Context, p domain.SearchParams) ([]domain.Verse, error) {
	f.basicCalls++
	if f.basicErr != nil {
		return nil, f.basicErr
	}
	out := f.match(p)
	if len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (f *fakeStore) match(p domain.SearchParams) []domain.Verse {
	var out []domain.Verse
	for _, v := range f.verses {
		if p.Surah != nil && v.SurahNumber != *p.Surah {
			continue
		}
		arabic := p.Language.IncludesArabic() && strings.Contains(v.ArabicText, p.Query)
		tajik := p.Language.IncludesTajik() && strings.Contains(textnorm.FoldTajik(v.TajikText), textnorm.FoldTajik(p.Query))
		if arabic || tajik {
			out = append(out, v)
		}
	}
	return out
}

func (f *fakeStore) GetVerseByKey(ctx context.Context, key string) (*domain.Verse, error) {
	f.lookupCalls++
	for _, v := range f.verses {
		if v.UniqueKey == key {
			v := v
			return &v, nil
		}
	}
	return nil, domain.NewNotFound("verse", key)
}

func (f *fakeStore) AddSearchHistory(ctx context.Context, userID int64, query string) error {
	if f.historyErr != nil {
		return f.historyErr
	}
	f.historyUsers = append(f.historyUsers, userID)
	f.history = append(f.history, query)
	return nil
}

func newVerse(surah, verse int, arabic, tajik string) domain.Verse {
	return domain.Verse{
		SurahNumber: surah,
		VerseNumber: verse,
		ArabicText:  arabic,
		TajikText:   tajik,
		UniqueKey:   fmt.Sprintf("%d:%d", surah, verse),
	}
}

func seededStore() *fakeStore {
	return &fakeStore{verses: []domain.Verse{
		newVerse(1, 1, "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", "Ба номи Аллоҳи бахшояндаи меҳрубон"),
		newVerse(2, 2, "ذَٰلِكَ الْكِتَابُ", "Ин китоб, ки дар он ҳеҷ шакке нест"),
		newVerse(2, 255, "ٱللَّهُ لَآ إِلَٰهَ إِلَّا هُوَ", "АЛЛОҲ, ки ҳеҷ маъбуде ҷуз Ӯ нест"),
	}}
}

func intPtr(i int) *int { return &i }

func TestSearch_EmptyQueryRejectedBeforeStorage(t *testing.T) {
	store := seededStore()
	engine := NewEngine(store, Options{}, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := engine.Search(context.Background(), domain.ForUser(1), Query{Text: q})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
	assert.Zero(t, store.basicCalls)
	assert.Zero(t, store.lookupCalls)
	assert.Empty(t, store.history)
}

func TestSearch_ValidationErrors(t *testing.T) {
	engine := NewEngine(seededStore(), Options{}, nil)

	tests := []struct {
		name string
		q    Query
	}{
		{"bad language", Query{Text: "x", Language: "english"}},
		{"surah zero", Query{Text: "x", Surah: intPtr(0)}},
		{"surah too big", Query{Text: "x", Surah: intPtr(115)}},
		{"too long", Query{Text: strings.Repeat("а", constants.MaxQueryLength+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Search(context.Background(), domain.Anonymous(), tt.q)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSearch_VerseKeyFastPath(t *testing.T) {
	store := seededStore()
	engine := NewEngine(store, Options{}, nil)

	got, err := engine.Search(context.Background(), domain.Anonymous(), Query{Text: "2:255"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2:255", got[0].UniqueKey)
	assert.Zero(t, store.basicCalls)

	got, err = engine.Search(context.Background(), domain.Anonymous(), Query{Text: "2:256"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = engine.Search(context.Background(), domain.Anonymous(), Query{Text: "2:255", Surah: intPtr(1)})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = engine.Search(context.Background(), domain.Anonymous(), Query{Text: "2:255", Surah: intPtr(2)})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearch_LanguageScope(t *testing.T) {
	engine := NewEngine(seededStore(), Options{}, nil)
	ctx := context.Background()

	got, err := engine.Search(ctx, domain.Anonymous(), Query{Text: "Аллоҳ", Language: "tajik"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, v := range got {
		assert.Contains(t, textnorm.FoldTajik(v.TajikText), "аллоҳ")
	}

	got, err = engine.Search(ctx, domain.Anonymous(), Query{Text: "Аллоҳ", Language: "arabic"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = engine.Search(ctx, domain.Anonymous(), Query{Text: "ٱللَّهِ", Language: "arabic"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1:1", got[0].UniqueKey)
}

func TestSearch_SurahFilter(t *testing.T) {
	engine := NewEngine(seededStore(), Options{}, nil)

	got, err := engine.Search(context.Background(), domain.Anonymous(), Query{Text: "нест", Surah: intPtr(2)})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, v := range got {
		assert.Equal(t, 2, v.SurahNumber)
	}
}

func TestSearch_ResultCap(t *testing.T) {
	store := &fakeStore{}
	for i := 1; i <= 30; i++ {
		store.verses = append(store.verses, newVerse(2, i, "نص", "матн"))
	}
	engine := NewEngine(store, Options{Limit: 10}, nil)
	assert.Equal(t, 10, engine.Limit())

	got, err := engine.Search(context.Background(), domain.Anonymous(), Query{Text: "матн"})
	require.NoError(t, err)
	assert.Len(t, got, 10)

	store.ranked = true
	ranked := NewEngine(store, Options{Mode: constants.SearchModeRanked, Limit: 5}, nil)
	got, err = ranked.Search(context.Background(), domain.Anonymous(), Query{Text: "матн"})
	require.NoError(t, err)
	assert.Len(t, got, 5)

	assert.Equal(t, constants.MaxSearchLimit, NewEngine(store, Options{Limit: 10000}, nil).Limit())
	assert.Equal(t, constants.DefaultSearchLimit, NewEngine(store, Options{}, nil).Limit())
}

func TestSearch_RankedCapability(t *testing.T) {
	ctx := context.Background()

	t.Run("used when enabled and supported", func(t *testing.T) {
		store := seededStore()
		store.ranked = true
		engine := NewEngine(store, Options{Mode: constants.SearchModeRanked}, nil)

		got, err := engine.Search(ctx, domain.Anonymous(), Query{Text: "аллоҳ"})
		require.NoError(t, err)
		assert.Equal(t, 1, store.rankedCalls)
		assert.Zero(t, store.basicCalls)
		require.Len(t, got, 2)
		assert.Equal(t, "2:255", got[0].UniqueKey)
	})

	t.Run("basic when capability missing", func(t *testing.T) {
		store := seededStore()
		engine := NewEngine(store, Options{Mode: constants.SearchModeRanked}, nil)

		_, err := engine.Search(ctx, domain.Anonymous(), Query{Text: "аллоҳ"})
		require.NoError(t, err)
		assert.Zero(t, store.rankedCalls)
		assert.Equal(t, 1, store.basicCalls)
	})

	t.Run("basic when mode is basic", func(t *testing.T) {
		store := seededStore()
		store.ranked = true
		engine := NewEngine(store, Options{Mode: constants.SearchModeBasic}, nil)

		_, err := engine.Search(ctx, domain.Anonymous(), Query{Text: "аллоҳ"})
		require.NoError(t, err)
		assert.Zero(t, store.rankedCalls)
	})

	t.Run("silent fallback on ranked failure", func(t *testing.T) {
		store := seededStore()
		store.ranked = true
		store.rankedErr = errors.New("no such function: search_verses")
		engine := NewEngine(store, Options{Mode: constants.SearchModeRanked}, nil)

		got, err := engine.Search(ctx, domain.Anonymous(), Query{Text: "аллоҳ"})
		require.NoError(t, err)
		assert.Equal(t, 1, store.basicCalls)
		require.Len(t, got, 2)
		assert.Equal(t, "1:1", got[0].UniqueKey)
	})
}

func TestSearch_StorageFailurePropagates(t *testing.T) {
	store := seededStore()
	store.basicErr = errors.New("database is locked")
	engine := NewEngine(store, Options{}, nil)

	got, err := engine.Search(context.Background(), domain.ForUser(3), Query{Text: "нест"})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.False(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, store.history)
}

func TestSearch_History(t *testing.T) {
	store := seededStore()
	engine := NewEngine(store, Options{}, nil)
	ctx := context.Background()

	_, err := engine.Search(ctx, domain.Anonymous(), Query{Text: "нест"})
	require.NoError(t, err)
	assert.Empty(t, store.history)

	_, err = engine.Search(ctx, domain.ForUser(42), Query{Text: "нест"})
	require.NoError(t, err)
	assert.Equal(t, []string{"нест"}, store.history)
	assert.Equal(t, []int64{42}, store.historyUsers)

	_, err = engine.Search(ctx, domain.ForUser(42), Query{Text: "2:255"})
	require.NoError(t, err)
	assert.Len(t, store.history, 2)
}

func TestSearch_HistoryFailureIsBestEffort(t *testing.T) {
	store := seededStore()
	store.historyErr = errors.New("disk full")
	engine := NewEngine(store, Options{}, nil)

	got, err := engine.Search(context.Background(), domain.ForUser(1), Query{Text: "нест"})
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
