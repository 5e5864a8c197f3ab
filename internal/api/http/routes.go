package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quiz-tool/quiz-tool/internal/authoring"
	auth "github.com/quiz-tool/quiz-tool/internal/auth/middleware"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/rbac"
	"github.com/quiz-tool/quiz-tool/internal/storage"
	syncx "github.com/quiz-tool/quiz-tool/internal/sync"
	"github.com/quiz-tool/quiz-tool/internal/translate"
)

// AdminDeps is everything the admin surface needs.
type AdminDeps struct {
	Store          quiz.Store
	Events         EventLister
	Authoring      *authoring.Service
	Translator     translate.Translator
	Blobs          storage.BlobStore
	Auth           *auth.AuthService
	UploadMaxBytes int64
}

// AuditActor copies the authenticated subject into the context the event
// log reads its actor from.
func AuditActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sub := auth.SubjectFromContext(r.Context()); sub != "" {
			r = r.WithContext(syncx.WithActor(r.Context(), sub))
		}
		next.ServeHTTP(w, r)
	})
}

// MountAdmin registers the protected /api routes of the admin tool on r.
// Login and uploads are mounted separately by the caller.
func MountAdmin(r chi.Router, d AdminDeps) {
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth), AuditActor)

		pr.Route("/api", func(ar chi.Router) {
			ar.With(rbac.Require(rbac.PermQuizView)).Get("/quizzes", ListQuizzesHandler(d.Store))
			ar.With(rbac.Require(rbac.PermQuizEdit)).Post("/quizzes", CreateQuizHandler(d.Store))
			ar.With(rbac.Require(rbac.PermQuizEdit)).Post("/quizzes/content", CreateFromFormHandler(d.Authoring))

			ar.Route("/quizzes/{id}", func(qr chi.Router) {
				qr.With(rbac.Require(rbac.PermQuizView)).Get("/", GetQuizHandler(d.Store))
				qr.With(rbac.Require(rbac.PermQuizEdit)).Put("/", UpdateQuizHandler(d.Store))
				qr.With(rbac.Require(rbac.PermQuizDelete)).Delete("/", DeleteQuizHandler(d.Store))

				qr.With(rbac.Require(rbac.PermQuizEdit)).Delete("/questions", DeleteQuestionsHandler(d.Store))
				qr.With(rbac.Require(rbac.PermQuizEdit)).Delete("/result-tiers", DeleteResultTiersHandler(d.Store))

				qr.With(rbac.Require(rbac.PermQuizView)).Get("/content", GetContentHandler(d.Store))
				qr.With(rbac.Require(rbac.PermQuizEdit)).Put("/content", SaveContentHandler(d.Authoring))
				qr.With(rbac.Require(rbac.PermTranslate)).Post("/autofill", AutofillQuizHandler(d.Store, d.Authoring))

				qr.With(rbac.Require(rbac.PermQuizHistory)).Get("/history", HistoryHandler(d.Events))
			})

			ar.With(rbac.Require(rbac.PermQuizEdit)).Post("/questions", CreateQuestionHandler(d.Store))
			ar.With(rbac.Require(rbac.PermQuizEdit)).Post("/result-tiers", CreateResultTierHandler(d.Store))

			ar.With(rbac.Require(rbac.PermTranslate)).Post("/translate", TranslateHandler(d.Translator))
			ar.With(rbac.Require(rbac.PermTranslate)).Post("/autofill", AutofillFormHandler(d.Authoring))

			ar.With(rbac.Require(rbac.PermAssetUpload)).Post("/upload", UploadHandler(d.Blobs, d.UploadMaxBytes))
		})
	})
}

// MountPlayer registers the public, read-only player API.
func MountPlayer(r chi.Router, store quiz.Store) {
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/play/{id}", PlayQuizHandler(store))
		ar.Post("/play/{id}/score", ScoreHandler(store))
		ar.Get("/ui/{lang}", UIStringsHandler())
	})
}
