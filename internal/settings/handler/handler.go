package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"visadesk/internal/settings/models"
	"visadesk/pkg/platform/httputil"
	"visadesk/pkg/requestcontext"
)

type Service interface {
	Get(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, in models.Settings) (models.Settings, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/settings", h.HandleGet)
	r.Put("/settings", h.HandleUpdate)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, err := h.service.Get(ctx)
	if err != nil {
		h.fail(ctx, w, "get settings failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

// HandleUpdate handles PUT /settings. The body is the full document; any
// section left out is validated as empty.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.Settings](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	v, err := h.service.Update(ctx, *req)
	if err != nil {
		h.fail(ctx, w, "update settings failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
