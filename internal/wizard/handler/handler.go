package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appmodels "visadesk/internal/application/models"
	"visadesk/internal/catalog"
	"visadesk/internal/wizard"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/platform/httputil"
	"visadesk/pkg/requestcontext"
)

// Service is the wizard session API.
type Service interface {
	Catalog() *catalog.Catalog
	Start(ctx context.Context, clientID int) (*wizard.State, error)
	Get(ctx context.Context, id uuid.UUID) (*wizard.State, error)
	SelectVisa(ctx context.Context, id uuid.UUID, code string) (*wizard.State, error)
	SetFields(ctx context.Context, id uuid.UUID, values map[string]string) (*wizard.State, error)
	Advance(ctx context.Context, id uuid.UUID) (*wizard.State, error)
	Retreat(ctx context.Context, id uuid.UUID) (*wizard.State, error)
	Complete(ctx context.Context, id uuid.UUID) (appmodels.Application, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the wizard session routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/wizards", h.HandleStart)
	r.Get("/wizards/{id}", h.HandleGet)
	r.Post("/wizards/{id}/visa", h.HandleSelectVisa)
	r.Patch("/wizards/{id}/fields", h.HandleSetFields)
	r.Post("/wizards/{id}/advance", h.HandleAdvance)
	r.Post("/wizards/{id}/retreat", h.HandleRetreat)
	r.Post("/wizards/{id}/complete", h.HandleComplete)
	r.Delete("/wizards/{id}", h.HandleCancel)
}

// refusalResponse is written when a transition is refused. View carries the
// state after the refusal so field errors can be shown inline.
type refusalResponse struct {
	httputil.ErrorResponse
	View *wizard.View `json:"view,omitempty"`
}

// HandleStart handles POST /wizards. The body is optional.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := &StartRequest{}
	if r.ContentLength != 0 {
		var ok bool
		if req, ok = httputil.DecodeAndPrepare[StartRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx)); !ok {
			return
		}
	}
	state, err := h.service.Start(ctx, req.ClientID)
	if err != nil {
		h.fail(ctx, w, "start wizard failed", err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, wizard.Render(h.service.Catalog(), state))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "get wizard failed", h.service.Get)
}

func (h *Handler) HandleSelectVisa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SelectVisaRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.transition(w, r, "select visa refused", func(ctx context.Context, id uuid.UUID) (*wizard.State, error) {
		return h.service.SelectVisa(ctx, id, req.Code)
	})
}

func (h *Handler) HandleSetFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SetFieldsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.transition(w, r, "set fields refused", func(ctx context.Context, id uuid.UUID) (*wizard.State, error) {
		return h.service.SetFields(ctx, id, req.Fields)
	})
}

func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "advance refused", h.service.Advance)
}

func (h *Handler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "retreat refused", h.service.Retreat)
}

// HandleComplete lodges the application. A refusal re-reads the draft so the
// response carries the current view.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	app, err := h.service.Complete(ctx, id)
	if err != nil {
		var state *wizard.State
		if dErrors.HasCode(err, dErrors.CodeValidation) || dErrors.HasCode(err, dErrors.CodeInvalidState) ||
			dErrors.HasCode(err, dErrors.CodeInternal) {
			state, _ = h.service.Get(ctx, id)
		}
		h.fail(ctx, w, "complete wizard failed", err, state)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, app)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.service.Cancel(ctx, id); err != nil {
		h.fail(ctx, w, "cancel wizard failed", err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, msg string, op func(context.Context, uuid.UUID) (*wizard.State, error)) {
	ctx := r.Context()
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	state, err := op(ctx, id)
	if err != nil {
		h.fail(ctx, w, msg, err, state)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, wizard.Render(h.service.Catalog(), state))
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid wizard session id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, state *wizard.State) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err.Error())
	} else {
		h.logger.InfoContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err.Error())
	}
	if state == nil {
		httputil.WriteError(w, err)
		return
	}
	resp := refusalResponse{ErrorResponse: httputil.ErrorResponse{Error: string(code)}}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.MessageOf(err)
	}
	view := wizard.Render(h.service.Catalog(), state)
	resp.View = &view
	httputil.WriteJSON(w, httputil.StatusFor(code), resp)
}
