package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"visadesk/internal/application/models"
	"visadesk/pkg/platform/httputil"
	"visadesk/pkg/requestcontext"
)

// Service is the application operations the HTTP layer needs.
type Service interface {
	List(ctx context.Context, f models.Filter) ([]models.Application, error)
	ListByClient(ctx context.Context, clientID int) ([]models.Application, error)
	Get(ctx context.Context, id int) (models.Application, error)
	Documents(ctx context.Context, id int) ([]models.Document, error)
	Create(ctx context.Context, in models.NewInput) (models.Application, error)
	Update(ctx context.Context, id int, p models.Patch) (models.Application, error)
	Delete(ctx context.Context, id int) (models.Application, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/applications", h.HandleList)
	r.Post("/applications", h.HandleCreate)
	r.Get("/applications/{id}", h.HandleGet)
	r.Patch("/applications/{id}", h.HandleUpdate)
	r.Delete("/applications/{id}", h.HandleDelete)
	r.Get("/applications/{id}/documents", h.HandleDocuments)
	r.Get("/clients/{id}/applications", h.HandleListByClient)
}

// HandleList handles GET /applications?search=&status=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	f, err := models.ParseFilter(q.Get("search"), q.Get("status"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	apps, err := h.service.List(ctx, f)
	if err != nil {
		h.fail(ctx, w, "list applications failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

func (h *Handler) HandleListByClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	apps, err := h.service.ListByClient(ctx, clientID)
	if err != nil {
		h.fail(ctx, w, "list client applications failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	a, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get application failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) HandleDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	docs, err := h.service.Documents(ctx, id)
	if err != nil {
		h.fail(ctx, w, "list application documents failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.NewInput](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	a, err := h.service.Create(ctx, *req)
	if err != nil {
		h.fail(ctx, w, "create application failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
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
	a, err := h.service.Update(ctx, id, *patch)
	if err != nil {
		h.fail(ctx, w, "update application failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	a, err := h.service.Delete(ctx, id)
	if err != nil {
		h.fail(ctx, w, "delete application failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
