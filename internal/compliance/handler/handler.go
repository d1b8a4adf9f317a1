package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"visadesk/internal/compliance"
	"visadesk/pkg/platform/httputil"
	"visadesk/pkg/requestcontext"
)

type Handler struct {
	service *compliance.Service
	logger  *slog.Logger
}

func New(service *compliance.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/compliance", h.HandleReport)
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report := h.service.Report(requestcontext.Now(r.Context()))
	httputil.WriteJSON(w, http.StatusOK, report)
}
