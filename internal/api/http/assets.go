package http

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quiz-tool/quiz-tool/internal/storage"
)

// POST /api/upload (multipart, field "file")
func UploadHandler(bs storage.BlobStore, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
		f, _, err := r.FormFile("file")
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				respondErr(w, "upload", storage.ErrTooLarge)
				return
			}
			respondError(w, http.StatusBadRequest, "file required")
			return
		}
		defer f.Close()

		up, err := storage.SaveImage(bs, f, maxBytes)
		if err != nil {
			respondErr(w, "upload", err)
			return
		}
		respondJSON(w, http.StatusCreated, up)
	}
}

// MountUploads serves stored blobs under whatever prefix r is mounted at.
func MountUploads(r chi.Router, bs storage.BlobStore) {
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if key == "" {
			http.NotFound(w, r)
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			respondErr(w, "get upload", err)
			return
		}
		defer rc.Close()

		br := bufio.NewReaderSize(rc, 512)
		head, _ := br.Peek(512)
		w.Header().Set("Content-Type", storage.ContentType(head))
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = io.Copy(w, br)
	})
}
