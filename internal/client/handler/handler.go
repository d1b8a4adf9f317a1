package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"visadesk/internal/client/models"
	"visadesk/pkg/platform/httputil"
	"visadesk/pkg/requestcontext"
)

// Service is the client operations the HTTP layer needs.
type Service interface {
	List(ctx context.Context, f models.Filter) ([]models.Client, error)
	Get(ctx context.Context, id int) (models.Client, error)
	Create(ctx context.Context, in models.Client) (models.Client, error)
	Update(ctx context.Context, id int, p models.Patch) (models.Client, error)
	Delete(ctx context.Context, id int) (models.Client, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts /clients. The per-client application list lives with the
// application handler.
func (h *Handler) Register(r chi.Router) {
	r.Get("/clients", h.HandleList)
	r.Post("/clients", h.HandleCreate)
	r.Get("/clients/{id}", h.HandleGet)
	r.Patch("/clients/{id}", h.HandleUpdate)
	r.Delete("/clients/{id}", h.HandleDelete)
}

// HandleList handles GET /clients?search=&status=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	f, err := models.ParseFilter(q.Get("search"), q.Get("status"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	clients, err := h.service.List(ctx, f)
	if err != nil {
		h.fail(ctx, w, "list clients failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get client failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.Client](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.Create(ctx, *req)
	if err != nil {
		h.fail(ctx, w, "create client failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patch, ok := httputil.DecodeAndPrepare[models.Patch](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.Update(ctx, id, *patch)
	if err != nil {
		h.fail(ctx, w, "update client failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.Delete(ctx, id)
	if err != nil {
		h.fail(ctx, w, "delete client failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
