package httpapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cesargomez89/tajikquran/internal/app"
	"github.com/cesargomez89/tajikquran/internal/logger"
	"github.com/cesargomez89/tajikquran/internal/store"
)

// Services groups the application services the API exposes.
type Services struct {
	Quran     *app.QuranService
	Bookmarks *app.BookmarkService
	Search    *app.SearchService
	Words     *app.WordService
	Tajweed   *app.TajweedService
	Settings  *app.SettingsService
}

type Handler struct {
	Quran     *app.QuranService
	Bookmarks *app.BookmarkService
	Search    *app.SearchService
	Words     *app.WordService
	Tajweed   *app.TajweedService
	Settings  *app.SettingsService
	DB        *store.DB
	Logger    *logger.Logger
}

func NewHandler(svc Services, db *store.DB, log *logger.Logger) *Handler {
	return &Handler{
		Quran:     svc.Quran,
		Bookmarks: svc.Bookmarks,
		Search:    svc.Search,
		Words:     svc.Words,
		Tajweed:   svc.Tajweed,
		Settings:  svc.Settings,
		DB:        db,
		Logger:    log.WithComponent("http"),
	}
}

// Router builds the API router with its middleware stack.
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(allowedOrigins))

	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Get("/surahs", h.ListSurahs)
		r.Get("/surahs/{number}", h.GetSurah)
		r.Get("/surahs/{number}/verses", h.ListSurahVerses)

		r.Get("/verses/{key}", h.GetVerse)
		r.Get("/verses/{key}/tajweed", h.GetVerseTajweed)
		r.Get("/verses/{key}/audio", h.GetVerseAudio)

		r.Get("/search", h.SearchVerses)
		r.Get("/search-history", h.SearchHistory)

		r.Get("/bookmarks", h.ListBookmarks)
		r.Post("/bookmarks", h.CreateBookmark)
		r.Delete("/bookmarks/{id}", h.DeleteBookmark)

		r.Get("/word-analysis/{surah}/{verse}", h.WordAnalysis)

		r.Get("/tajweed/ayah/{ref}", h.TajweedAyah)
		r.Get("/tajweed/surah/{number}", h.TajweedSurah)

		r.Get("/users/{id}/settings", h.GetSettings)
		r.Put("/users/{id}/settings", h.PutSettings)
		r.Delete("/users/{id}/settings", h.DeleteSettings)
	})
}
