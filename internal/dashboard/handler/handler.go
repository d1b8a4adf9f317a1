package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"visadesk/internal/dashboard/models"
	"visadesk/pkg/platform/httputil"
	"visadesk/pkg/requestcontext"
)

type Service interface {
	Summary(ctx context.Context) (models.Summary, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard", h.HandleSummary)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := h.service.Summary(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "dashboard summary failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
