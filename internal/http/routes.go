package httpapp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/http/dto"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.DB.Stats(r.Context())
	if err != nil {
		h.Logger.Error("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "db": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"db":     h.DB.Driver(),
		"ranked": h.DB.SupportsRankedSearch(),
		"stats":  stats,
	})
}

func (h *Handler) ListSurahs(w http.ResponseWriter, r *http.Request) {
	surahs, err := h.Quran.ListSurahs(r.Context())
	if err != nil {
		h.writeError(w, r, "list surahs", err)
		return
	}
	writeJSON(w, http.StatusOK, surahs)
}

func (h *Handler) GetSurah(w http.ResponseWriter, r *http.Request) {
	number, err := domain.ParseSurahNumber(chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, r, "get surah", err)
		return
	}
	surah, err := h.Quran.GetSurah(r.Context(), number)
	if err != nil {
		h.writeError(w, r, "get surah", err)
		return
	}
	writeJSON(w, http.StatusOK, surah)
}

func (h *Handler) ListSurahVerses(w http.ResponseWriter, r *http.Request) {
	number, err := domain.ParseSurahNumber(chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, r, "list verses", err)
		return
	}
	verses, err := h.Quran.ListVerses(r.Context(), number)
	if err != nil {
		h.writeError(w, r, "list verses", err)
		return
	}
	writeJSON(w, http.StatusOK, verses)
}

func (h *Handler) GetVerse(w http.ResponseWriter, r *http.Request) {
	verse, err := h.Quran.GetVerse(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, r, "get verse", err)
		return
	}
	writeJSON(w, http.StatusOK, verse)
}

func (h *Handler) GetVerseTajweed(w http.ResponseWriter, r *http.Request) {
	tv, err := h.Tajweed.Verse(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, r, "verse tajweed", err)
		return
	}
	writeJSON(w, http.StatusOK, tv)
}

func (h *Handler) GetVerseAudio(w http.ResponseWriter, r *http.Request) {
	audio, err := h.Tajweed.Audio(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, r, "verse audio", err)
		return
	}
	writeJSON(w, http.StatusOK, audio)
}

func (h *Handler) SearchVerses(w http.ResponseWriter, r *http.Request) {
	req := dto.NewSearchRequest(r.URL.Query())
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	query, err := req.ToQuery()
	if err != nil {
		h.writeError(w, r, "search", err)
		return
	}

	// History is best-effort, so a bad userId only drops it.
	sess := domain.Anonymous()
	if req.UserID != "" {
		if id, err := domain.ParseID("userId", req.UserID); err == nil {
			sess = domain.ForUser(id)
		} else {
			h.Logger.Debug("Ignoring invalid userId on search", "user_id", req.UserID)
		}
	}

	verses, err := h.Search.Search(r.Context(), sess, query)
	if err != nil {
		h.writeError(w, r, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, verses)
}

func (h *Handler) SearchHistory(w http.ResponseWriter, r *http.Request) {
	sess, err := userSession(r.URL.Query().Get("userId"))
	if err != nil {
		h.writeError(w, r, "search history", err)
		return
	}
	history, err := h.Search.History(r.Context(), sess)
	if err != nil {
		h.writeError(w, r, "search history", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	sess, err := userSession(r.URL.Query().Get("userId"))
	if err != nil {
		h.writeError(w, r, "list bookmarks", err)
		return
	}
	bookmarks, err := h.Bookmarks.List(r.Context(), sess)
	if err != nil {
		h.writeError(w, r, "list bookmarks", err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

func (h *Handler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	bookmark, err := h.Bookmarks.Create(r.Context(), domain.ForUser(req.UserID), req.VerseID)
	if err != nil {
		h.writeError(w, r, "create bookmark", err)
		return
	}
	writeJSON(w, http.StatusCreated, bookmark)
}

func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID("id", chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "delete bookmark", err)
		return
	}
	if err := h.Bookmarks.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "delete bookmark", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) WordAnalysis(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseVerseKey(chi.URLParam(r, "surah") + ":" + chi.URLParam(r, "verse"))
	if err != nil {
		h.writeError(w, r, "word analysis", err)
		return
	}
	words, err := h.Words.Analyze(r.Context(), key.Surah, key.Verse)
	if err != nil {
		h.writeError(w, r, "word analysis", err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (h *Handler) TajweedAyah(w http.ResponseWriter, r *http.Request) {
	raw, err := h.Tajweed.Ayah(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		h.writeError(w, r, "tajweed ayah", err)
		return
	}
	writeRaw(w, raw)
}

func (h *Handler) TajweedSurah(w http.ResponseWriter, r *http.Request) {
	number, err := domain.ParseSurahNumber(chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, r, "tajweed surah", err)
		return
	}
	raw, err := h.Tajweed.Surah(r.Context(), number)
	if err != nil {
		h.writeError(w, r, "tajweed surah", err)
		return
	}
	writeRaw(w, raw)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	sess, err := userSession(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get settings", err)
		return
	}
	settings, err := h.Settings.Load(r.Context(), sess)
	if err != nil {
		h.writeError(w, r, "get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	sess, err := userSession(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "save settings", err)
		return
	}
	var settings domain.ReaderSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}
	saved, err := h.Settings.Save(r.Context(), sess, settings)
	if err != nil {
		h.writeError(w, r, "save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteSettings(w http.ResponseWriter, r *http.Request) {
	sess, err := userSession(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "reset settings", err)
		return
	}
	if err := h.Settings.Reset(r.Context(), sess); err != nil {
		h.writeError(w, r, "reset settings", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userSession parses a required user id.
func userSession(raw string) (domain.Session, error) {
	id, err := domain.ParseID("userId", raw)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.ForUser(id), nil
}
