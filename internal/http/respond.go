package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/http/dto"
)

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", constants.MimeTypeJSON)
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw passes an upstream JSON document through unchanged.
func writeRaw(w http.ResponseWriter, raw json.RawMessage) {
	w.Header().Set("Content-Type", constants.MimeTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func writeValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Message: dto.ToResponse(errs),
		Errors:  dto.ToMap(errs),
	})
}

// writeError maps domain errors to status codes. Anything unexpected is
// logged and answered with a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		field := verr.Field
		if field == "" {
			field = "request"
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: err.Error(),
			Errors:  map[string]string{field: verr.Message},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
	default:
		h.Logger.Error("Request failed",
			"op", op,
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		msg := "Internal server error"
		if errors.Is(err, domain.ErrUpstream) {
			msg = "Upstream service unavailable"
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: msg})
	}
}
