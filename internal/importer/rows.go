package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cesargomez89/tajikquran/internal/domain"
)

// Columns recognised in CSV and XLSX headers.
const (
	colSurah           = "surah_number"
	colVerse           = "verse_number"
	colArabic          = "arabic_text"
	colTajik           = "tajik_text"
	colTransliteration = "transliteration"
	colTranslationAlt  = "translation_alt"
	colTafsir          = "tafsir"
	colPage            = "page"
	colJuz             = "juz"
	colAudio           = "audio_url"
)

var requiredColumns = []string{colSurah, colVerse, colArabic, colTajik}

// ImportCSV imports verse rows. The first row is the header.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, domain.NewValidation("file", fmt.Sprintf("invalid CSV: %v", err))
	}
	return im.importRows(ctx, rows)
}

// ImportXLSX imports verse rows from the first sheet of a workbook.
func (im *Importer) ImportXLSX(ctx context.Context, r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.NewValidation("file", fmt.Sprintf("invalid XLSX: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.NewValidation("file", "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", sheets[0], err)
	}
	return im.importRows(ctx, rows)
}

func (im *Importer) importRows(ctx context.Context, rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, domain.NewValidation("file", "file is empty")
	}
	header, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	surahs, err := im.Repo.ListSurahs(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[int]bool, len(surahs))
	for _, s := range surahs {
		known[s.Number] = true
	}

	result := &Result{}
	verses := make([]domain.Verse, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlank(row) {
			continue
		}
		v, err := header.verse(row)
		if err != nil {
			result.addError("row %d: %v", rowNum, err)
			continue
		}
		if !known[v.SurahNumber] {
			result.addError("row %d: surah %d does not exist", rowNum, v.SurahNumber)
			continue
		}
		if im.checkVerse(&v, result) {
			verses = append(verses, v)
		}
	}

	if err := im.upsert(ctx, verses, result); err != nil {
		return result, err
	}

	im.Logger.Info("Row import finished", "verses", result.Verses, "skipped", result.Skipped, "errors", len(result.Errors))
	return result, nil
}

// header maps column names to their index in a row.
type header map[string]int

func parseHeader(row []string) (header, error) {
	h := make(header, len(row))
	for i, name := range row {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := h[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewValidation("header", "missing columns: "+strings.Join(missing, ", "))
	}
	return h, nil
}

func (h header) cell(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) optional(row []string, col string) *string {
	if v := h.cell(row, col); v != "" {
		return &v
	}
	return nil
}

func (h header) optionalInt(row []string, col string) (*int, error) {
	v := h.cell(row, col)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", col, v)
	}
	return &n, nil
}

func (h header) verse(row []string) (domain.Verse, error) {
	surah, err := strconv.Atoi(h.cell(row, colSurah))
	if err != nil {
		return domain.Verse{}, fmt.Errorf("%s must be an integer, got %q", colSurah, h.cell(row, colSurah))
	}
	verse, err := strconv.Atoi(h.cell(row, colVerse))
	if err != nil {
		return domain.Verse{}, fmt.Errorf("%s must be an integer, got %q", colVerse, h.cell(row, colVerse))
	}
	page, err := h.optionalInt(row, colPage)
	if err != nil {
		return domain.Verse{}, err
	}
	juz, err := h.optionalInt(row, colJuz)
	if err != nil {
		return domain.Verse{}, err
	}

	return domain.Verse{
		SurahNumber:     surah,
		VerseNumber:     verse,
		ArabicText:      h.cell(row, colArabic),
		TajikText:       h.cell(row, colTajik),
		Transliteration: h.optional(row, colTransliteration),
		TranslationAlt:  h.optional(row, colTranslationAlt),
		Tafsir:          h.optional(row, colTafsir),
		Page:            page,
		Juz:             juz,
		AudioURL:        h.optional(row, colAudio),
	}, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
