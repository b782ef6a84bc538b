package dto

import (
	"net/url"
	"strings"

	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/search"
)

// SearchRequest holds the query string of GET /api/search.
type SearchRequest struct {
	Query    string `json:"q"`
	Language string `json:"language" validate:"omitempty,oneof=arabic tajik both"`
	Surah    string `json:"surah" validate:"omitempty,number"`
	UserID   string `json:"userId"`
}

func NewSearchRequest(values url.Values) SearchRequest {
	return SearchRequest{
		Query:    values.Get("q"),
		Language: strings.ToLower(strings.TrimSpace(values.Get("language"))),
		Surah:    strings.TrimSpace(values.Get("surah")),
		UserID:   strings.TrimSpace(values.Get("userId")),
	}
}

func (r *SearchRequest) Validate() []ValidationError {
	return Validate(r)
}

// ToQuery converts a validated request. A surah that does not parse
// into 1..114 is a validation error, never a dropped filter.
func (r *SearchRequest) ToQuery() (search.Query, error) {
	q := search.Query{Text: r.Query, Language: r.Language}
	if r.Surah == "" {
		return q, nil
	}
	n, err := domain.ParseSurahNumber(r.Surah)
	if err != nil {
		return search.Query{}, err
	}
	q.Surah = &n
	return q, nil
}
