package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"visadesk/internal/application/metrics"
	"visadesk/internal/application/models"
	clientmodels "visadesk/internal/client/models"
	"visadesk/internal/notify"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/platform/sentinel"
	"visadesk/pkg/requestcontext"
)

// Store persists applications. Both storage.Collection and the PostgreSQL
// store satisfy it.
type Store interface {
	Filter(ctx context.Context, pred func(models.Application) bool) ([]models.Application, error)
	Get(ctx context.Context, id int) (models.Application, error)
	Create(ctx context.Context, a models.Application) (models.Application, error)
	Update(ctx context.Context, id int, mutate func(models.Application) (models.Application, error)) (models.Application, error)
	Delete(ctx context.Context, id int) (models.Application, error)
}

// ClientDirectory resolves the client an application is lodged for.
type ClientDirectory interface {
	Get(ctx context.Context, id int) (clientmodels.Client, error)
}

// Service manages lodged applications.
type Service struct {
	store        Store
	clients      ClientDirectory
	logger       *slog.Logger
	metrics      *metrics.Metrics
	notifier     notify.Notifier
	defaultAgent string
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

// WithClientDirectory enables client lookups on create. Without it the
// caller-supplied client name is used as is.
func WithClientDirectory(c ClientDirectory) Option {
	return func(s *Service) {
		s.clients = c
	}
}

// WithDefaultAgent names the agent assigned when the request is anonymous.
func WithDefaultAgent(name string) Option {
	return func(s *Service) {
		s.defaultAgent = name
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, f models.Filter) ([]models.Application, error) {
	apps, err := s.store.Filter(ctx, f.Matches)
	if err != nil {
		return nil, translate(err, "failed to list applications")
	}
	return apps, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID int) ([]models.Application, error) {
	return s.List(ctx, models.Filter{ClientID: clientID})
}

func (s *Service) Get(ctx context.Context, id int) (models.Application, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Application{}, translate(err, "failed to get application")
	}
	return a, nil
}

// Documents returns the checklist attached to an application.
func (s *Service) Documents(ctx context.Context, id int) ([]models.Document, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.Documents, nil
}

// Create lodges a new application. The assigned agent falls back to the
// authenticated agent, then to the configured default.
func (s *Service) Create(ctx context.Context, in models.NewInput) (models.Application, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveCreate(start)
		}
	}()

	if in.ClientID != 0 && s.clients != nil {
		c, err := s.clients.Get(ctx, in.ClientID)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				return models.Application{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("client %d does not exist", in.ClientID))
			}
			return models.Application{}, err
		}
		if in.ClientName == "" {
			in.ClientName = c.FullName()
		}
	}
	if in.AssignedAgent == "" {
		in.AssignedAgent = requestcontext.Agent(ctx)
	}
	if in.AssignedAgent == "" {
		in.AssignedAgent = s.defaultAgent
	}

	a, err := models.NewApplication(in, requestcontext.Now(ctx))
	if err != nil {
		return models.Application{}, translate(err, "failed to create application")
	}
	created, err := s.store.Create(ctx, a)
	if err != nil {
		return models.Application{}, translate(err, "failed to create application")
	}
	if s.metrics != nil {
		s.metrics.IncrementCreated(created.VisaSubclass)
	}
	s.logEvent(ctx, "application_created",
		"application_id", created.ID,
		"reference_number", created.ReferenceNumber,
		"visa_subclass", created.VisaSubclass,
		"assigned_agent", created.AssignedAgent,
	)
	return created, nil
}

// Update merges the patch into the stored application.
func (s *Service) Update(ctx context.Context, id int, p models.Patch) (models.Application, error) {
	now := requestcontext.Now(ctx)
	var previous models.Status
	updated, err := s.store.Update(ctx, id, func(a models.Application) (models.Application, error) {
		previous = a.Status
		return a.Apply(p, now)
	})
	if err != nil {
		return models.Application{}, translate(err, "failed to update application")
	}
	if updated.Status != previous {
		if s.metrics != nil {
			s.metrics.IncrementStatusChanged(string(updated.Status))
		}
		s.logEvent(ctx, "application_status_changed",
			"application_id", id,
			"from", previous,
			"to", updated.Status,
		)
		s.emit(ctx, notify.Info("Application updated",
			fmt.Sprintf("%s is now %s", updated.ReferenceNumber, updated.Status),
			applicationSubject(id)))
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) (models.Application, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return models.Application{}, translate(err, "failed to delete application")
	}
	s.logEvent(ctx, "application_deleted", "application_id", id, "reference_number", deleted.ReferenceNumber)
	return deleted, nil
}

func translate(err error, msg string) error {
	switch {
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		return dErrors.Wrap(err, dErrors.CodeValidation, dErrors.MessageOf(err))
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "application already exists")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func applicationSubject(id int) string {
	return fmt.Sprintf("application:%d", id)
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
