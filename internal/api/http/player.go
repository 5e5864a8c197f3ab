package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/scoring"
)

// GET /api/play/{id}?lang=fr
// An unknown lang falls back to the canonical language rather than failing.
func PlayQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		lang := i18n.OrCanonical(r.URL.Query().Get("lang"))
		c, err := store.GetPlayable(r.Context(), id, lang)
		if err != nil {
			respondErr(w, "play quiz", err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

type scoreRequest struct {
	Answers map[string]json.RawMessage `json:"answers"`
	Lang    string                     `json:"lang"`
}

// answers keeps every entry with a numeric question id and a string value.
// Anything else is dropped, so that question scores as unanswered.
func (req scoreRequest) answers() scoring.Answers {
	out := make(scoring.Answers, len(req.Answers))
	for k, raw := range req.Answers {
		qid, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		var a string
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		out[qid] = quiz.Answer(a)
	}
	return out
}

// POST /api/play/{id}/score
// Scores against the stored answer key. Unknown question ids and malformed
// answers count as incorrect.
func ScoreHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		var req scoreRequest
		if err := decodeBody(r, &req, nil); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Lang == "" {
			req.Lang = r.URL.Query().Get("lang")
		}
		c, err := store.GetPlayable(r.Context(), id, i18n.OrCanonical(req.Lang))
		if err != nil {
			respondErr(w, "score quiz", err)
			return
		}
		res, err := scoring.Score(c.Questions, c.ResultTiers, req.answers())
		if err != nil {
			respondErr(w, "score quiz", quiz.ErrNoQuestions)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

// GET /api/ui/{lang}
func UIStringsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.OrCanonical(chi.URLParam(r, "lang"))
		respondJSON(w, http.StatusOK, struct {
			Language  i18n.Language   `json:"language"`
			Languages []i18n.Language `json:"languages"`
			Strings   i18n.UIStrings  `json:"strings"`
		}{lang, i18n.Supported(), i18n.UI(lang)})
	}
}
