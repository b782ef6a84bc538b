// Package importer seeds surahs and verses from JSON, CSV or XLSX files.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/logger"
	"github.com/cesargomez89/tajikquran/internal/store"
)

// Result summarizes an import run.
type Result struct {
	Surahs  int
	Verses  int
	Skipped int
	Errors  []string
}

func (r *Result) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// surahRecord is one element of a JSON import file.
type surahRecord struct {
	domain.Surah
	Verses []domain.Verse `json:"verses"`
}

type Importer struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func New(repo *store.DB, log *logger.Logger) *Importer {
	return &Importer{Repo: repo, Logger: log.WithComponent("importer")}
}

// ImportFile picks the format from the file extension.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return im.ImportJSON(ctx, f)
	case ".csv":
		return im.ImportCSV(ctx, f)
	case ".xlsx":
		return im.ImportXLSX(ctx, f)
	default:
		return nil, domain.NewValidation("file", fmt.Sprintf("unsupported file type %q (expected .json, .csv or .xlsx)", ext))
	}
}

// ImportJSON imports an array of surahs, each with its verses.
func (im *Importer) ImportJSON(ctx context.Context, r io.Reader) (*Result, error) {
	var records []surahRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, domain.NewValidation("file", fmt.Sprintf("invalid JSON: %v", err))
	}

	result := &Result{}
	for i := range records {
		rec := &records[i]
		if err := im.Repo.UpsertSurah(ctx, &rec.Surah); err != nil {
			result.addError("surah %d: %v", rec.Number, err)
			continue
		}
		result.Surahs++

		verses := make([]domain.Verse, 0, len(rec.Verses))
		for _, v := range rec.Verses {
			v.SurahNumber = rec.Number
			if ok := im.checkVerse(&v, result); ok {
				verses = append(verses, v)
			}
		}
		if err := im.upsert(ctx, verses, result); err != nil {
			return result, err
		}
	}

	im.Logger.Info("JSON import finished", "surahs", result.Surahs, "verses", result.Verses, "skipped", result.Skipped, "errors", len(result.Errors))
	return result, nil
}

// checkVerse reports whether v can be imported, counting skips and errors.
func (im *Importer) checkVerse(v *domain.Verse, result *Result) bool {
	key := domain.VerseKey{Surah: v.SurahNumber, Verse: v.VerseNumber}
	if v.VerseNumber < 1 {
		result.addError("verse %s: verse number must be positive", key)
		return false
	}
	if strings.TrimSpace(v.ArabicText) == "" || strings.TrimSpace(v.TajikText) == "" {
		im.Logger.Debug("Skipping verse without text", "verse_key", key.String())
		result.Skipped++
		return false
	}
	return true
}

// upsert writes one batch of verses in a single transaction. A batch
// failure is recorded, a cancelled context aborts the import.
func (im *Importer) upsert(ctx context.Context, verses []domain.Verse, result *Result) error {
	if len(verses) == 0 {
		return nil
	}
	if err := im.Repo.UpsertVerses(ctx, verses); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result.addError("verses %s..%s: %v", verses[0].Key(), verses[len(verses)-1].Key(), err)
		return nil
	}
	result.Verses += len(verses)
	return nil
}
