package http

import (
	"context"
	"net/http"
	"strconv"

	syncx "github.com/synergy-credit/scorenorm/internal/sync"
)

type EventLister interface {
	List(ctx context.Context, after int64, limit int) ([]syncx.Event, error)
}

// GET /api/events?after=0&limit=100
func ListEventsHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		list, err := events.List(r.Context(), after, limit)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
