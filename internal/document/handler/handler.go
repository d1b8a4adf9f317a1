package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"visadesk/internal/document/models"
	"visadesk/pkg/platform/httputil"
	"visadesk/pkg/requestcontext"
)

type Service interface {
	List(ctx context.Context, f models.Filter) ([]models.Document, error)
	Get(ctx context.Context, id int) (models.Document, error)
	Create(ctx context.Context, in models.Document) (models.Document, error)
	Update(ctx context.Context, id int, p models.Patch) (models.Document, error)
	Verify(ctx context.Context, id int) (models.Document, error)
	Delete(ctx context.Context, id int) (models.Document, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/documents", h.HandleList)
	r.Post("/documents", h.HandleCreate)
	r.Get("/documents/{id}", h.HandleGet)
	r.Patch("/documents/{id}", h.HandleUpdate)
	r.Delete("/documents/{id}", h.HandleDelete)
	r.Post("/documents/{id}/verify", h.HandleVerify)
}

// documentResponse adds the display label and status the library shows.
type documentResponse struct {
	models.Document
	TypeLabel     string `json:"typeLabel"`
	DisplayStatus string `json:"displayStatus"`
}

func present(d models.Document, now time.Time) documentResponse {
	return documentResponse{Document: d, TypeLabel: d.Type.Label(), DisplayStatus: d.DisplayStatus(now)}
}

// HandleList handles GET /documents?search=&status=&applicationId=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := requestcontext.Now(ctx)
	q := r.URL.Query()
	f, err := models.ParseFilter(q.Get("search"), q.Get("status"), now)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if f.ApplicationID, err = httputil.QueryInt(r, "applicationId", 0); err != nil {
		httputil.WriteError(w, err)
		return
	}
	docs, err := h.service.List(ctx, f)
	if err != nil {
		h.fail(ctx, w, "list documents failed", err)
		return
	}
	out := make([]documentResponse, len(docs))
	for i, d := range docs {
		out[i] = present(d, now)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"documents": out})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, "get document failed", http.StatusOK, h.service.Get)
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, "verify document failed", http.StatusOK, h.service.Verify)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, "delete document failed", http.StatusOK, h.service.Delete)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.Document](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	d, err := h.service.Create(ctx, *req)
	if err != nil {
		h.fail(ctx, w, "create document failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, present(d, requestcontext.Now(ctx)))
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
	d, err := h.service.Update(ctx, id, *patch)
	if err != nil {
		h.fail(ctx, w, "update document failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, present(d, requestcontext.Now(ctx)))
}

func (h *Handler) withID(w http.ResponseWriter, r *http.Request, msg string, status int, op func(context.Context, int) (models.Document, error)) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := op(ctx, id)
	if err != nil {
		h.fail(ctx, w, msg, err)
		return
	}
	httputil.WriteJSON(w, status, present(d, requestcontext.Now(ctx)))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
