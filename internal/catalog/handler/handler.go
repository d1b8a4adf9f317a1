package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"visadesk/internal/catalog"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/platform/httputil"
	"visadesk/pkg/requestcontext"
)

// Handler serves the read-only reference data.
type Handler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func New(c *catalog.Catalog, logger *slog.Logger) *Handler {
	return &Handler{catalog: c, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/catalog/visas", h.HandleListVisas)
	// Subclass codes such as 820/801 contain a slash.
	r.Get("/catalog/visas/*", h.HandleGetVisa)
	r.Get("/catalog/steps", h.HandleListSteps)
	r.Get("/catalog/documents", h.HandleListDocuments)
	r.Get("/catalog/fields", h.HandleListFields)
}

func (h *Handler) HandleListVisas(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"visas": h.catalog.Visas()})
}

func (h *Handler) HandleGetVisa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil || code == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "visa code is required"))
		return
	}
	visa, ok := h.catalog.Visa(code)
	if !ok {
		h.logger.InfoContext(ctx, "visa lookup missed",
			"request_id", requestcontext.RequestID(ctx),
			"visa_code", code,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "visa subclass not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, visaResponse{
		VisaType: visa,
		Fields:   h.catalog.Fields(code),
	})
}

func (h *Handler) HandleListSteps(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"steps": h.catalog.Steps()})
}

func (h *Handler) HandleListDocuments(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"documents": h.catalog.Documents()})
}

func (h *Handler) HandleListFields(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"fields": h.catalog.AllFields()})
}

type visaResponse struct {
	catalog.VisaType
	Fields []catalog.Field `json:"fields"`
}
