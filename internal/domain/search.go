package domain

// SearchParams is a validated search request as handed to storage.
type SearchParams struct {
	Query    string
	Language SearchLanguage
	Surah    *int
	Limit    int
}
