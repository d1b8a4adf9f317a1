package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"visadesk/internal/notify"
	"visadesk/pkg/platform/httputil"
)

const defaultLimit = 20

// Feed is the read side of the in-memory notification feed.
type Feed interface {
	Recent(limit int) []notify.Event
}

type Handler struct {
	feed Feed
}

func New(feed Feed) *Handler {
	return &Handler{feed: feed}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.HandleList)
}

// HandleList handles GET /notifications?limit=N, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", defaultLimit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"notifications": h.feed.Recent(limit)})
}
