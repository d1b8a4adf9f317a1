package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"visadesk/internal/client/models"
	"visadesk/internal/notify"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/platform/sentinel"
	"visadesk/pkg/requestcontext"
)

// Store persists clients. storage.Collection satisfies it.
type Store interface {
	Filter(ctx context.Context, pred func(models.Client) bool) ([]models.Client, error)
	Get(ctx context.Context, id int) (models.Client, error)
	Create(ctx context.Context, c models.Client) (models.Client, error)
	Update(ctx context.Context, id int, mutate func(models.Client) (models.Client, error)) (models.Client, error)
	Delete(ctx context.Context, id int) (models.Client, error)
}

// Service manages client records.
type Service struct {
	store    Store
	logger   *slog.Logger
	notifier notify.Notifier
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns clients matching f, ordered by id.
func (s *Service) List(ctx context.Context, f models.Filter) ([]models.Client, error) {
	clients, err := s.store.Filter(ctx, f.Matches)
	if err != nil {
		return nil, translate(err, "failed to list clients")
	}
	return clients, nil
}

func (s *Service) Get(ctx context.Context, id int) (models.Client, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Client{}, translate(err, "failed to get client")
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, in models.Client) (models.Client, error) {
	c, err := models.NewClient(in, requestcontext.Now(ctx))
	if err != nil {
		return models.Client{}, translate(err, "failed to create client")
	}
	created, err := s.store.Create(ctx, c)
	if err != nil {
		return models.Client{}, translate(err, "failed to create client")
	}
	s.logEvent(ctx, "client_created", "client_id", created.ID)
	s.emit(ctx, notify.Success("Client created", created.FullName()+" was added", clientSubject(created.ID)))
	return created, nil
}

// Update merges the patch into the stored client.
func (s *Service) Update(ctx context.Context, id int, p models.Patch) (models.Client, error) {
	now := requestcontext.Now(ctx)
	updated, err := s.store.Update(ctx, id, func(c models.Client) (models.Client, error) {
		return c.Apply(p, now)
	})
	if err != nil {
		return models.Client{}, translate(err, "failed to update client")
	}
	s.logEvent(ctx, "client_updated", "client_id", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) (models.Client, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return models.Client{}, translate(err, "failed to delete client")
	}
	s.logEvent(ctx, "client_deleted", "client_id", id)
	s.emit(ctx, notify.Info("Client removed", deleted.FullName()+" was removed", clientSubject(id)))
	return deleted, nil
}

func translate(err error, msg string) error {
	switch {
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		return dErrors.Wrap(err, dErrors.CodeValidation, dErrors.MessageOf(err))
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "client not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func clientSubject(id int) string {
	return fmt.Sprintf("client:%d", id)
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
