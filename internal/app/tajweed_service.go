package app

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cesargomez89/tajikquran/internal/alquran"
	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/logger"
	"github.com/cesargomez89/tajikquran/internal/store"
	"github.com/cesargomez89/tajikquran/internal/tajweed"
)

const (
	SourceTajweed  = "tajweed"
	SourcePlain    = "plain"
	SourceStored   = "stored"
	SourceUpstream = "upstream"
)

// TajweedVerse is a verse's text with tajweed highlighting resolved.
type TajweedVerse struct {
	Key      string            `json:"key"`
	Source   string            `json:"source"`
	Text     string            `json:"text"`
	HTML     string            `json:"html"`
	Segments []tajweed.Segment `json:"segments"`
}

// TajweedService proxies upstream tajweed text and renders it.
type TajweedService struct {
	Provider alquran.Provider
	Repo     *store.DB
	Logger   *logger.Logger
}

func NewTajweedService(provider alquran.Provider, repo *store.DB, log *logger.Logger) *TajweedService {
	return &TajweedService{Provider: provider, Repo: repo, Logger: log}
}

// Ayah returns the upstream response for ref, a verse key or an absolute
// ayah number.
func (s *TajweedService) Ayah(ctx context.Context, ref string) (json.RawMessage, error) {
	if err := validateAyahRef(ref); err != nil {
		return nil, err
	}
	return s.Provider.AyahTajweed(ctx, ref)
}

func (s *TajweedService) Surah(ctx context.Context, number int) (json.RawMessage, error) {
	if err := domain.ValidateSurahNumber(number); err != nil {
		return nil, err
	}
	return s.Provider.SurahTajweed(ctx, number)
}

// Verse renders the tajweed text of a stored verse. Upstream failures fall
// back to the plain Arabic text.
func (s *TajweedService) Verse(ctx context.Context, key string) (*TajweedVerse, error) {
	k, err := domain.ParseVerseKey(key)
	if err != nil {
		return nil, err
	}
	v, err := s.Repo.GetVerseByKey(ctx, k.String())
	if err != nil {
		return nil, err
	}

	text, source := v.ArabicText, SourcePlain
	raw, err := s.Provider.AyahTajweed(ctx, v.UniqueKey)
	if err == nil {
		text, err = alquran.AyahText(raw)
		if err == nil {
			source = SourceTajweed
		} else {
			text = v.ArabicText
		}
	}
	if err != nil {
		s.Logger.WithVerse(v.UniqueKey).Warn("Tajweed text unavailable, using plain text", "error", err)
	}

	doc := tajweed.Parse(text)
	for _, d := range doc.Diagnostics {
		s.Logger.WithVerse(v.UniqueKey).Debug("Tajweed diagnostic", "detail", d)
	}
	return &TajweedVerse{
		Key:      v.UniqueKey,
		Source:   source,
		Text:     doc.PlainText(),
		HTML:     doc.HTML(),
		Segments: doc.Segments,
	}, nil
}

// VerseAudio is the resolved recitation of a verse.
type VerseAudio struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Audio prefers the verse's stored audio URL and asks upstream otherwise.
func (s *TajweedService) Audio(ctx context.Context, key string) (*VerseAudio, error) {
	k, err := domain.ParseVerseKey(key)
	if err != nil {
		return nil, err
	}
	v, err := s.Repo.GetVerseByKey(ctx, k.String())
	if err != nil {
		return nil, err
	}
	if v.AudioURL != nil && *v.AudioURL != "" {
		return &VerseAudio{Key: v.UniqueKey, URL: *v.AudioURL, Source: SourceStored}, nil
	}

	url, err := s.Provider.AyahAudio(ctx, v.UniqueKey)
	if err != nil {
		return nil, err
	}
	return &VerseAudio{Key: v.UniqueKey, URL: url, Source: SourceUpstream}, nil
}

func validateAyahRef(ref string) error {
	if domain.IsVerseKey(ref) {
		_, err := domain.ParseVerseKey(ref)
		return err
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || n > constants.MaxAyahNumber {
		return domain.NewValidation("ref", "must be a verse key (e.g., 2:255) or an ayah number between 1 and 6236")
	}
	return nil
}
