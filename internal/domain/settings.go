package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CurrentSettingsVersion is stamped on every saved ReaderSettings.
const CurrentSettingsVersion = 1

// ReadingPosition is the last verse a user read.
type ReadingPosition struct {
	Surah int `json:"surah" validate:"min=1,max=114"`
	Verse int `json:"verse" validate:"min=1"`
}

// ReaderSettings is the per-user reading configuration, stored as a JSON column.
type ReaderSettings struct {
	LastRead        *ReadingPosition `json:"last_read,omitempty" validate:"omitempty"`
	Theme           string           `json:"theme" validate:"oneof=light dark sepia"`
	ArabicFont      string           `json:"arabic_font" validate:"max=64"`
	Version         int              `json:"version"`
	FontSize        int              `json:"font_size" validate:"min=12,max=48"`
	ShowTranslation bool             `json:"show_translation"`
	ShowTajweed     bool             `json:"show_tajweed"`
	ShowWordByWord  bool             `json:"show_word_by_word"`
}

// DefaultReaderSettings returns the settings used for users that never saved any.
func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		Version:         CurrentSettingsVersion,
		Theme:           "light",
		ArabicFont:      "Amiri",
		FontSize:        24,
		ShowTranslation: true,
		ShowTajweed:     false,
		ShowWordByWord:  false,
	}
}

// Upgrade fills fields missing from older stored versions with defaults.
func (s ReaderSettings) Upgrade() ReaderSettings {
	if s.Version >= CurrentSettingsVersion {
		return s
	}
	def := DefaultReaderSettings()
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	if s.ArabicFont == "" {
		s.ArabicFont = def.ArabicFont
	}
	if s.FontSize == 0 {
		s.FontSize = def.FontSize
	}
	s.Version = CurrentSettingsVersion
	return s
}

func (s ReaderSettings) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *ReaderSettings) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = ReaderSettings{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported settings column type %T", value)
	}
	if len(data) == 0 {
		*s = ReaderSettings{}
		return nil
	}
	return json.Unmarshal(data, s)
}
