package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cesargomez89/tajikquran/internal/constants"
)

var verseKeyPattern = regexp.MustCompile(`^\d+:\d+$`)

// VerseKey addresses a verse as "{surah}:{verse}".
type VerseKey struct {
	Surah int
	Verse int
}

func (k VerseKey) String() string {
	return fmt.Sprintf("%d:%d", k.Surah, k.Verse)
}

// IsVerseKey reports whether s has the exact "digits:digits" shape.
func IsVerseKey(s string) bool {
	return verseKeyPattern.MatchString(s)
}

// ParseVerseKey parses "2:255". Surah must be 1..114 and verse at least 1.
func ParseVerseKey(s string) (VerseKey, error) {
	if !IsVerseKey(s) {
		return VerseKey{}, NewValidation("key", "verse key must have the form surah:verse (e.g., 2:255)")
	}
	surahPart, versePart, _ := strings.Cut(s, ":")
	surah, err := ParseSurahNumber(surahPart)
	if err != nil {
		return VerseKey{}, err
	}
	verse, err := strconv.Atoi(versePart)
	if err != nil || verse < 1 {
		return VerseKey{}, NewValidation("verse", "verse number must be a positive integer")
	}
	return VerseKey{Surah: surah, Verse: verse}, nil
}

// ParseSurahNumber parses a chapter number in 1..114.
func ParseSurahNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, NewValidation("surah", "surah number must be an integer")
	}
	if err := ValidateSurahNumber(n); err != nil {
		return 0, err
	}
	return n, nil
}

func ValidateSurahNumber(n int) error {
	if n < constants.MinSurahNumber || n > constants.MaxSurahNumber {
		return NewValidation("surah", fmt.Sprintf("surah number must be between %d and %d", constants.MinSurahNumber, constants.MaxSurahNumber))
	}
	return nil
}

// ParseID parses a positive database or user id.
func ParseID(field, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, NewValidation(field, "must be a positive integer")
	}
	return id, nil
}

type SearchLanguage string

const (
	LanguageArabic SearchLanguage = "arabic"
	LanguageTajik  SearchLanguage = "tajik"
	LanguageBoth   SearchLanguage = "both"
)

// ParseSearchLanguage accepts arabic, tajik or both; empty means both.
func ParseSearchLanguage(s string) (SearchLanguage, error) {
	switch SearchLanguage(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageBoth:
		return LanguageBoth, nil
	case LanguageArabic:
		return LanguageArabic, nil
	case LanguageTajik:
		return LanguageTajik, nil
	}
	return "", NewValidation("language", "must be one of: arabic, tajik, both")
}

// IncludesArabic reports whether Arabic text is searched.
func (l SearchLanguage) IncludesArabic() bool {
	return l == LanguageArabic || l == LanguageBoth
}

// IncludesTajik reports whether Tajik text is searched.
func (l SearchLanguage) IncludesTajik() bool {
	return l == LanguageTajik || l == LanguageBoth
}
