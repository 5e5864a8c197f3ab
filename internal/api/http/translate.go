package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/translate"
)

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

// POST /api/translate
func TranslateHandler(tr translate.Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := decodeBody(r, &req, nil); err != nil {
			respondError(w, http.StatusBadRequest, "bad json")
			return
		}
		if strings.TrimSpace(req.Text) == "" || req.TargetLanguage == "" {
			respondError(w, http.StatusBadRequest, "Missing text or targetLanguage")
			return
		}
		lang := i18n.Language(strings.ToLower(strings.TrimSpace(req.TargetLanguage)))
		if !lang.Valid() {
			respondError(w, http.StatusBadRequest, "Unsupported language")
			return
		}
		out, err := tr.Translate(r.Context(), req.Text, lang)
		if err != nil {
			if errors.Is(err, translate.ErrUnsupportedLanguage) {
				respondError(w, http.StatusBadRequest, "Unsupported language")
				return
			}
			log.Printf("translate: %v", err)
			respondError(w, http.StatusInternalServerError, "Translation failed")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"translatedText": out})
	}
}
