package domain

import (
	"time"
)

type RevelationType string

const (
	RevelationMeccan  RevelationType = "Meccan"
	RevelationMedinan RevelationType = "Medinan"
)

// Surah is a chapter of the Quran. Reference data, seeded once.
type Surah struct {
	ID             int64          `json:"id" db:"id"`
	Number         int            `json:"number" db:"number"`
	NameArabic     string         `json:"name_arabic" db:"name_arabic"`
	NameTajik      string         `json:"name_tajik" db:"name_tajik"`
	NameEnglish    string         `json:"name_english" db:"name_english"`
	RevelationType RevelationType `json:"revelation_type" db:"revelation_type"`
	VersesCount    int            `json:"verses_count" db:"verses_count"`
	Description    *string        `json:"description,omitempty" db:"description"`
}

// Verse is an ayah with its Arabic text and Tajik translation.
// UniqueKey is always "{surah number}:{verse number}".
type Verse struct {
	ID              int64   `json:"id" db:"id"`
	SurahID         int64   `json:"surah_id" db:"surah_id"`
	SurahNumber     int     `json:"surah_number" db:"surah_number"`
	VerseNumber     int     `json:"verse_number" db:"verse_number"`
	ArabicText      string  `json:"arabic_text" db:"arabic_text"`
	TajikText       string  `json:"tajik_text" db:"tajik_text"`
	Transliteration *string `json:"transliteration,omitempty" db:"transliteration"`
	TranslationAlt  *string `json:"translation_alt,omitempty" db:"translation_alt"`
	Tafsir          *string `json:"tafsir,omitempty" db:"tafsir"`
	Page            *int    `json:"page,omitempty" db:"page"`
	Juz             *int    `json:"juz,omitempty" db:"juz"`
	AudioURL        *string `json:"audio_url,omitempty" db:"audio_url"`
	UniqueKey       string  `json:"unique_key" db:"unique_key"`
}

// Key returns the parsed verse key.
func (v *Verse) Key() VerseKey {
	return VerseKey{Surah: v.SurahNumber, Verse: v.VerseNumber}
}

type Bookmark struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	VerseID   int64     `json:"verse_id" db:"verse_id"`
}

// BookmarkWithVerse is a bookmark joined with the verse it points at.
type BookmarkWithVerse struct {
	Bookmark Bookmark `json:"bookmark"`
	Verse    Verse    `json:"verse"`
}

// SearchHistory is an append-only record of a user's search query.
type SearchHistory struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Query     string    `json:"query" db:"query"`
}

// WordAnalysis is the breakdown of one word of a verse.
type WordAnalysis struct {
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	ID              int64     `json:"id" db:"id"`
	VerseID         int64     `json:"verse_id" db:"verse_id"`
	WordPosition    int       `json:"word_position" db:"word_position"`
	WordText        string    `json:"word_text" db:"word_text"`
	Transliteration *string   `json:"transliteration" db:"transliteration"`
	Translation     *string   `json:"translation" db:"translation"`
	Root            *string   `json:"root" db:"root"`
	PartOfSpeech    *string   `json:"part_of_speech" db:"part_of_speech"`
}

// Session carries the caller identity through service calls.
// A nil UserID means an anonymous caller.
type Session struct {
	UserID *int64
}

// Anonymous returns a session without a user.
func Anonymous() Session {
	return Session{}
}

// ForUser returns a session for the given user id.
func ForUser(id int64) Session {
	return Session{UserID: &id}
}
