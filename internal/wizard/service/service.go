// Package service runs wizard sessions: it loads a draft, applies one state
// machine transition, persists the result and hands completed submissions to
// the application service.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	appmodels "visadesk/internal/application/models"
	"visadesk/internal/catalog"
	clientmodels "visadesk/internal/client/models"
	"visadesk/internal/notify"
	"visadesk/internal/wizard"
	"visadesk/internal/wizard/metrics"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/platform/sentinel"
	"visadesk/pkg/requestcontext"
)

// DraftStore persists in-progress sessions.
type DraftStore interface {
	Save(ctx context.Context, state *wizard.State) error
	Load(ctx context.Context, id uuid.UUID) (*wizard.State, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ApplicationCreator lodges the completed submission.
type ApplicationCreator interface {
	Create(ctx context.Context, in appmodels.NewInput) (appmodels.Application, error)
}

const actionAdvance = "advance"

// ClientDirectory resolves the client a session is opened for.
type ClientDirectory interface {
	Get(ctx context.Context, id int) (clientmodels.Client, error)
}

type Service struct {
	machine  *wizard.Machine
	drafts   DraftStore
	creator  ApplicationCreator
	clients  ClientDirectory
	locks    *sessionLocks
	logger   *slog.Logger
	metrics  *metrics.Metrics
	notifier notify.Notifier
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithClientDirectory makes Start refuse unknown clients. Without it any
// non-negative client id is accepted.
func WithClientDirectory(c ClientDirectory) Option {
	return func(s *Service) {
		s.clients = c
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(machine *wizard.Machine, drafts DraftStore, creator ApplicationCreator, opts ...Option) (*Service, error) {
	if machine == nil {
		return nil, errors.New("wizard machine is required")
	}
	if drafts == nil {
		return nil, errors.New("draft store is required")
	}
	if creator == nil {
		return nil, errors.New("application creator is required")
	}
	s := &Service{
		machine: machine,
		drafts:  drafts,
		creator: creator,
		locks:   newSessionLocks(),
		tracer:  otel.Tracer("visadesk/wizard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Catalog is the catalog the sessions are rendered against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.machine.Catalog()
}

// Start opens a new session at the first step.
func (s *Service) Start(ctx context.Context, clientID int) (*wizard.State, error) {
	ctx, span := s.tracer.Start(ctx, "wizard.start", trace.WithAttributes(attribute.Int("wizard.client_id", clientID)))
	defer span.End()

	if clientID < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "client id must not be negative")
	}
	if err := s.checkClient(ctx, clientID); err != nil {
		return nil, s.fail(span, err)
	}
	state := s.machine.Start(clientID, requestcontext.Now(ctx))
	span.SetAttributes(attribute.String("wizard.session_id", state.ID.String()))
	if err := s.save(ctx, state); err != nil {
		return nil, s.fail(span, err)
	}
	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}
	s.logEvent(ctx, "wizard_started", "session_id", state.ID, "client_id", clientID)
	return state, nil
}

// Get returns the current draft.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*wizard.State, error) {
	ctx, span := s.tracer.Start(ctx, "wizard.get", trace.WithAttributes(attribute.String("wizard.session_id", id.String())))
	defer span.End()
	state, err := s.load(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return state, nil
}

func (s *Service) SelectVisa(ctx context.Context, id uuid.UUID, code string) (*wizard.State, error) {
	return s.mutate(ctx, id, "select_visa", func(state *wizard.State) error {
		return s.machine.SelectVisa(state, code)
	})
}

func (s *Service) SetField(ctx context.Context, id uuid.UUID, name, value string) (*wizard.State, error) {
	return s.mutate(ctx, id, "set_field", func(state *wizard.State) error {
		return s.machine.SetField(state, name, value)
	})
}

// SetFields applies a batch of field values atomically.
func (s *Service) SetFields(ctx context.Context, id uuid.UUID, values map[string]string) (*wizard.State, error) {
	return s.mutate(ctx, id, "set_fields", func(state *wizard.State) error {
		return s.machine.SetFields(state, values)
	})
}

// Advance moves to the next step. A refused advance still persists the draft
// so the error map survives, and returns the refused state with the error.
func (s *Service) Advance(ctx context.Context, id uuid.UUID) (*wizard.State, error) {
	return s.mutate(ctx, id, actionAdvance, func(state *wizard.State) error {
		return s.machine.Advance(state)
	})
}

func (s *Service) Retreat(ctx context.Context, id uuid.UUID) (*wizard.State, error) {
	return s.mutate(ctx, id, "retreat", func(state *wizard.State) error {
		return s.machine.Retreat(state)
	})
}

// Complete validates every step, lodges the application and discards the
// draft. When lodging fails the draft is kept so the user can retry.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (appmodels.Application, error) {
	ctx, span := s.tracer.Start(ctx, "wizard.complete", trace.WithAttributes(attribute.String("wizard.session_id", id.String())))
	defer span.End()

	unlock := s.locks.Lock(id)
	defer unlock()

	state, err := s.load(ctx, id)
	if err != nil {
		return appmodels.Application{}, s.fail(span, err)
	}
	step := s.stepName(state)

	sub, err := s.machine.Complete(state)
	if err != nil {
		outcome := metrics.OutcomeError
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			outcome = metrics.OutcomeRefused
			s.observeFieldErrors(state.Errors)
			state.UpdatedAt = requestcontext.Now(ctx)
			if saveErr := s.save(ctx, state); saveErr != nil {
				return appmodels.Application{}, s.fail(span, saveErr)
			}
		}
		s.observeTransition(step, "complete", outcome)
		return appmodels.Application{}, s.fail(span, err)
	}
	span.SetAttributes(attribute.String("wizard.visa_subclass", sub.VisaSubclass))

	app, err := s.creator.Create(ctx, toNewInput(sub))
	if err != nil {
		s.observeTransition(step, "complete", metrics.OutcomeError)
		if s.metrics != nil {
			s.metrics.ObserveCompletion(sub.VisaSubclass, metrics.OutcomeError)
		}
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "wizard submission failed",
				"session_id", id,
				"visa_subclass", sub.VisaSubclass,
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		s.emit(ctx, notify.Error("Submission failed",
			"The application could not be lodged. Your draft has been kept so you can try again.",
			sessionSubject(id)))
		return appmodels.Application{}, s.fail(span, err)
	}

	if err := s.drafts.Delete(ctx, id); err != nil && !errors.Is(err, sentinel.ErrNotFound) && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to discard completed draft",
			"session_id", id,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
	s.observeTransition(step, "complete", metrics.OutcomeOK)
	if s.metrics != nil {
		s.metrics.ObserveCompletion(sub.VisaSubclass, metrics.OutcomeOK)
	}
	s.logEvent(ctx, "wizard_completed",
		"session_id", id,
		"application_id", app.ID,
		"reference_number", app.ReferenceNumber,
	)
	s.emit(ctx, notify.Success("Application submitted",
		fmt.Sprintf("%s lodged for subclass %s", app.ReferenceNumber, app.VisaSubclass),
		fmt.Sprintf("application:%d", app.ID)))
	return app, nil
}

// Cancel discards the session.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "wizard.cancel", trace.WithAttributes(attribute.String("wizard.session_id", id.String())))
	defer span.End()

	unlock := s.locks.Lock(id)
	defer unlock()

	state, err := s.load(ctx, id)
	if err != nil {
		return s.fail(span, err)
	}
	s.machine.Cancel(state)
	if err := s.drafts.Delete(ctx, id); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to discard draft"))
	}
	s.observeTransition(s.stepName(state), "cancel", metrics.OutcomeOK)
	s.logEvent(ctx, "wizard_cancelled", "session_id", id)
	return nil
}

// mutate runs one transition under the session lock. The draft is saved
// after success and after a refused advance; other refusals leave the
// stored draft untouched. On refusal the refused state is returned with the
// error so callers can render it.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, action string, fn func(*wizard.State) error) (*wizard.State, error) {
	ctx, span := s.tracer.Start(ctx, "wizard."+action, trace.WithAttributes(attribute.String("wizard.session_id", id.String())))
	defer span.End()

	unlock := s.locks.Lock(id)
	defer unlock()

	state, err := s.load(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	step := s.stepName(state)

	opErr := fn(state)
	switch {
	case opErr == nil:
		s.observeTransition(step, action, metrics.OutcomeOK)
	case dErrors.HasCode(opErr, dErrors.CodeValidation) || dErrors.HasCode(opErr, dErrors.CodeInvalidState):
		s.observeTransition(step, action, metrics.OutcomeRefused)
	default:
		s.observeTransition(step, action, metrics.OutcomeError)
		return nil, s.fail(span, opErr)
	}

	// Only a gate refusal writes new field errors; other refusals leave the
	// stored draft as it was.
	gateRefusal := action == actionAdvance && dErrors.HasCode(opErr, dErrors.CodeValidation) && state.HasErrors()
	if opErr == nil || gateRefusal {
		if gateRefusal {
			s.observeFieldErrors(state.Errors)
		}
		state.UpdatedAt = requestcontext.Now(ctx)
		if err := s.save(ctx, state); err != nil {
			return nil, s.fail(span, err)
		}
	}
	span.SetAttributes(attribute.Int("wizard.step_index", state.StepIndex))
	if opErr != nil {
		span.SetStatus(codes.Error, opErr.Error())
		return state, opErr
	}
	return state, nil
}

// checkClient rejects sessions for clients that do not exist, since the client
// cannot be changed once the session is open. Zero means no client yet.
func (s *Service) checkClient(ctx context.Context, clientID int) error {
	if clientID == 0 || s.clients == nil {
		return nil
	}
	if _, err := s.clients.Get(ctx, clientID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("client %d does not exist", clientID))
		}
		return err
	}
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*wizard.State, error) {
	state, err := s.drafts.Load(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "wizard session not found or expired")
		case errors.Is(err, sentinel.ErrUnavailable):
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "draft store unavailable")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load draft")
		}
	}
	return state, nil
}

func (s *Service) save(ctx context.Context, state *wizard.State) error {
	if err := s.drafts.Save(ctx, state); err != nil {
		if s.metrics != nil {
			s.metrics.ObserveDraftSave(metrics.OutcomeError)
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "draft store unavailable")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	if s.metrics != nil {
		s.metrics.ObserveDraftSave(metrics.OutcomeOK)
	}
	return nil
}

func (s *Service) stepName(state *wizard.State) string {
	step, ok := s.machine.Catalog().Step(state.StepIndex)
	if !ok {
		return "unknown"
	}
	return string(step.ID)
}

func toNewInput(sub *wizard.Submission) appmodels.NewInput {
	docs := make([]appmodels.Document, len(sub.Documents))
	for i, d := range sub.Documents {
		docs[i] = appmodels.Document{Name: d.Name, Required: d.Required, Status: string(d.Status)}
	}
	return appmodels.NewInput{
		ClientID:         sub.ClientID,
		ClientName:       sub.ApplicantName(),
		VisaType:         sub.VisaType,
		VisaSubclass:     sub.VisaSubclass,
		ApplicantDetails: sub.ApplicantDetails,
		Documents:        docs,
	}
}

func sessionSubject(id uuid.UUID) string {
	return "wizard:" + id.String()
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *Service) observeTransition(step, action, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(step, action, outcome)
	}
}

func (s *Service) observeFieldErrors(errs map[string]string) {
	if s.metrics != nil {
		s.metrics.ObserveFieldErrors(errs)
	}
}

func (s *Service) logEvent(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	s.logger.InfoContext(ctx, event, attributes...)
}

func (s *Service) emit(ctx context.Context, e notify.Event) {
	if s.notifier != nil {
		s.notifier.Emit(ctx, e)
	}
}
