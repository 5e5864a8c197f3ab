package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/quiz-tool/quiz-tool/internal/api/http"
	"github.com/quiz-tool/quiz-tool/internal/config"
	"github.com/quiz-tool/quiz-tool/internal/db"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver)

	bs, err := storage.NewFSStore(cfg.BlobBasePath, cfg.UploadURLPrefix)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	// The player is embeddable, so it never sends credentials.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	api.MountPlayer(r, store)
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

	log.Printf("player listening on %s (mode=%s, db=%s)", cfg.PlayerHTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.PlayerHTTPAddr, r))
}
