package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quiz-tool/quiz-tool/internal/authoring"
	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/storage"
	"github.com/quiz-tool/quiz-tool/internal/translate"
)

const maxJSONBody = 1 << 20

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondErr maps domain errors onto status codes. Anything unexpected is
// logged under op and reported as a generic failure.
func respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound):
		respondError(w, http.StatusNotFound, "quiz not found")
	case errors.Is(err, quiz.ErrNoQuestions):
		respondError(w, http.StatusUnprocessableEntity, "quiz has no questions")
	case errors.Is(err, quiz.ErrInvalid):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, i18n.ErrUnknownLanguage), errors.Is(err, translate.ErrUnsupportedLanguage):
		respondError(w, http.StatusBadRequest, "unsupported language")
	case errors.Is(err, authoring.ErrLastQuestion):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotImage):
		respondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, storage.ErrTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		log.Printf("%s: %v", op, err)
		var be *authoring.BatchError
		if errors.As(err, &be) {
			respondError(w, http.StatusInternalServerError, "save failed at "+be.Task+"; nothing was changed")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

// decodeBody decodes a JSON body into dst and, when raw is non-nil, also into
// raw so legacy suffixed keys ("title_fr") can be picked up.
func decodeBody(r *http.Request, dst any, raw *map[string]any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return err
	}
	if raw != nil {
		return json.Unmarshal(body, raw)
	}
	return nil
}
