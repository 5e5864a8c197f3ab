package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/quiz-tool/quiz-tool/internal/api/http"
	auth "github.com/quiz-tool/quiz-tool/internal/auth/middleware"
	"github.com/quiz-tool/quiz-tool/internal/authoring"
	"github.com/quiz-tool/quiz-tool/internal/config"
	"github.com/quiz-tool/quiz-tool/internal/db"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/rbac"
	"github.com/quiz-tool/quiz-tool/internal/storage"
	"github.com/quiz-tool/quiz-tool/internal/translate"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver)

	// --- Collaborators ---
	bs, err := storage.NewFSStore(cfg.BlobBasePath, cfg.UploadURLPrefix)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	tr := translate.NewLibreTranslate(cfg.TranslateAPIURL,
		translate.WithAPIKey(cfg.TranslateAPIKey),
		translate.WithTimeout(cfg.TranslateTimeout))
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	if cfg.UploadSweepSchedule != "off" {
		sw := &storage.Sweeper{Blobs: bs, Refs: store, Grace: cfg.UploadSweepGrace}
		c, err := sw.Schedule(cfg.UploadSweepSchedule)
		if err != nil {
			log.Fatalf("upload sweep schedule %q: %v", cfg.UploadSweepSchedule, err)
		}
		defer c.Stop()
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: cfg.Mode == config.ModeOffline,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, accounts(cfg)))
	}

	api.MountAdmin(r, api.AdminDeps{
		Store:          store,
		Events:         store.Events(),
		Authoring:      authoring.NewService(store, tr, authoring.WithConcurrency(cfg.TranslateConcurrency)),
		Translator:     tr,
		Blobs:          bs,
		Auth:           authSvc,
		UploadMaxBytes: cfg.UploadMaxBytes,
	})
	r.Route("/uploads", func(ur chi.Router) {
		api.MountUploads(ur, bs)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("admin listening on %s (mode=%s, db=%s)", cfg.AdminHTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.AdminHTTPAddr, r))
}

// accounts returns the operators that can log in. An account without a
// password hash is skipped.
func accounts(cfg config.Config) []auth.Account {
	var out []auth.Account
	for _, a := range []auth.Account{
		{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: rbac.RoleAdmin},
		{Username: cfg.EditorUser, PassHash: cfg.EditorPassHash, Role: rbac.RoleEditor},
	} {
		if a.Username == "" || a.PassHash == "" {
			log.Printf("login disabled for %q (%s): no password hash configured", a.Username, a.Role)
			continue
		}
		out = append(out, a)
	}
	return out
}
