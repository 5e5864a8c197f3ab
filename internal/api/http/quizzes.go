package http

import (
	"net/http"
	"strings"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/rbac"
)

// GET /api/quizzes?status=&limit=&offset=
func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := quiz.Status(strings.TrimSpace(r.URL.Query().Get("status")))
		if status != "" && status != quiz.StatusDraft && status != quiz.StatusPublished {
			respondError(w, http.StatusBadRequest, "status must be draft or published")
			return
		}
		list, err := store.ListQuizzes(r.Context(), quiz.ListOpts{
			Status: status,
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			respondErr(w, "list quizzes", err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func decodeQuizInput(r *http.Request) (quiz.QuizInput, error) {
	var in quiz.QuizInput
	var raw map[string]any
	if err := decodeBody(r, &in, &raw); err != nil {
		return in, err
	}
	if in.Translations == nil {
		in.Translations = i18n.Variants{}
	}
	in.Translations.Merge(i18n.FromSuffixed(raw, i18n.QuizFields))
	return in, nil
}

// POST /api/quizzes
func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeQuizInput(r)
		if err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if in.Status == quiz.StatusPublished && !rbac.Can(r.Context(), rbac.PermQuizPublish) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		q, err := store.CreateQuiz(r.Context(), in)
		if err != nil {
			respondErr(w, "create quiz", err)
			return
		}
		respondJSON(w, http.StatusCreated, q)
	}
}

type quizDetail struct {
	quiz.Content
	Versions []quiz.QuizSummary `json:"versions"`
}

// GET /api/quizzes/{id}
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		c, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			respondErr(w, "get quiz", err)
			return
		}
		versions, err := store.ListLanguageVersions(r.Context(), id)
		if err != nil {
			respondErr(w, "list language versions", err)
			return
		}
		respondJSON(w, http.StatusOK, quizDetail{Content: c, Versions: versions})
	}
}

// PUT /api/quizzes/{id}
func UpdateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		in, err := decodeQuizInput(r)
		if err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if in.Status == quiz.StatusPublished && !rbac.Can(r.Context(), rbac.PermQuizPublish) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		q, err := store.UpdateQuiz(r.Context(), id, in)
		if err != nil {
			respondErr(w, "update quiz", err)
			return
		}
		respondJSON(w, http.StatusOK, q)
	}
}

// DELETE /api/quizzes/{id}
func DeleteQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteQuiz(r.Context(), id); err != nil {
			respondErr(w, "delete quiz", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// DELETE /api/quizzes/{id}/questions
func DeleteQuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		n, err := store.DeleteQuestions(r.Context(), id)
		if err != nil {
			respondErr(w, "delete questions", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int64{"deleted": n})
	}
}

// DELETE /api/quizzes/{id}/result-tiers
func DeleteResultTiersHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		n, err := store.DeleteResultTiers(r.Context(), id)
		if err != nil {
			respondErr(w, "delete result tiers", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int64{"deleted": n})
	}
}

// POST /api/questions
func CreateQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in quiz.QuestionInput
		var raw map[string]any
		if err := decodeBody(r, &in, &raw); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if in.Translations == nil {
			in.Translations = i18n.Variants{}
		}
		in.Translations.Merge(i18n.FromSuffixed(raw, i18n.QuestionFields))
		q, err := store.CreateQuestion(r.Context(), in)
		if err != nil {
			respondErr(w, "create question", err)
			return
		}
		respondJSON(w, http.StatusCreated, q)
	}
}

// POST /api/result-tiers
func CreateResultTierHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in quiz.ResultTierInput
		var raw map[string]any
		if err := decodeBody(r, &in, &raw); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if in.Translations == nil {
			in.Translations = i18n.Variants{}
		}
		in.Translations.Merge(i18n.FromSuffixed(raw, i18n.TierFields))
		t, err := store.CreateResultTier(r.Context(), in)
		if err != nil {
			respondErr(w, "create result tier", err)
			return
		}
		respondJSON(w, http.StatusCreated, t)
	}
}
