package http

import (
	"net/http"

	"github.com/quiz-tool/quiz-tool/internal/authoring"
	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/rbac"
)

// GET /api/quizzes/{id}/content
// Returns the quiz as an editor form with one record per language.
func GetContentHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		c, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			respondErr(w, "get content", err)
			return
		}
		respondJSON(w, http.StatusOK, authoring.FormFromContent(c))
	}
}

func decodeForm(r *http.Request) (*authoring.Form, bool) {
	f := &authoring.Form{}
	if err := decodeBody(r, f, nil); err != nil {
		return nil, false
	}
	if f.Languages == nil || f.Languages[i18n.Canonical] == nil {
		return nil, false
	}
	if f.Status == "" {
		f.Status = quiz.StatusDraft
	}
	if f.TemplateType == "" {
		f.TemplateType = quiz.TemplateScamDetector
	}
	return f, true
}

// PUT /api/quizzes/{id}/content
// Replaces the quiz with the submitted form. Either everything is written
// or nothing is.
func SaveContentHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		f, ok := decodeForm(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "form with an en record is required")
			return
		}
		if f.Status == quiz.StatusPublished && !rbac.Can(r.Context(), rbac.PermQuizPublish) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		c, err := svc.Save(r.Context(), id, f)
		if err != nil {
			respondErr(w, "save content", err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

// POST /api/quizzes/content
func CreateFromFormHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := decodeForm(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "form with an en record is required")
			return
		}
		if f.Status == quiz.StatusPublished && !rbac.Can(r.Context(), rbac.PermQuizPublish) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		c, err := svc.Create(r.Context(), f)
		if err != nil {
			respondErr(w, "create from form", err)
			return
		}
		respondJSON(w, http.StatusCreated, c)
	}
}

type autofillRequest struct {
	Form     *authoring.Form `json:"form"`
	Language string          `json:"language"`
}

type autofillResponse struct {
	Form   *authoring.Form          `json:"form"`
	Report authoring.AutofillReport `json:"report"`
}

// POST /api/autofill
// Translates an unsaved form. Nothing is persisted.
func AutofillFormHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req autofillRequest
		if err := decodeBody(r, &req, nil); err != nil || req.Form == nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Form.Languages == nil || req.Form.Languages[i18n.Canonical] == nil {
			respondError(w, http.StatusBadRequest, "form with an en record is required")
			return
		}
		lang, err := i18n.ParseLanguage(req.Language)
		if err != nil {
			respondErr(w, "autofill", err)
			return
		}
		report, err := svc.Autofill(r.Context(), req.Form, lang)
		if err != nil {
			respondErr(w, "autofill", err)
			return
		}
		respondJSON(w, http.StatusOK, autofillResponse{Form: req.Form, Report: report})
	}
}

// POST /api/quizzes/{id}/autofill?language=fr
// Loads the stored quiz and returns it as a form with language filled in by
// machine translation. The editor reviews it and saves through the content
// endpoint.
func AutofillQuizHandler(store quiz.Store, svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		lang, err := i18n.ParseLanguage(r.URL.Query().Get("language"))
		if err != nil {
			respondErr(w, "autofill", err)
			return
		}
		c, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			respondErr(w, "autofill", err)
			return
		}
		f := authoring.FormFromContent(c)
		report, err := svc.Autofill(r.Context(), f, lang)
		if err != nil {
			respondErr(w, "autofill", err)
			return
		}
		respondJSON(w, http.StatusOK, autofillResponse{Form: f, Report: report})
	}
}
