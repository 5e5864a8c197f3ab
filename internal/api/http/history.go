package http

import (
	"context"
	"net/http"
	"strconv"

	syncx "github.com/quiz-tool/quiz-tool/internal/sync"
)

type EventLister interface {
	List(ctx context.Context, key string, limit int) ([]syncx.Event, error)
}

// GET /api/quizzes/{id}/history?limit=
func HistoryHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "bad quiz id", http.StatusBadRequest)
			return
		}
		list, err := events.List(r.Context(), strconv.FormatInt(id, 10), parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			respondErr(w, "history", err)
			return
		}
		if list == nil {
			list = []syncx.Event{}
		}
		respondJSON(w, http.StatusOK, list)
	}
}
