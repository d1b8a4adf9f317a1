package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	appmodels "visadesk/internal/application/models"
	"visadesk/internal/document/models"
	"visadesk/internal/notify"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/platform/sentinel"
	"visadesk/pkg/requestcontext"
)

// Store persists documents. storage.Collection satisfies it.
type Store interface {
	Filter(ctx context.Context, pred func(models.Document) bool) ([]models.Document, error)
	Get(ctx context.Context, id int) (models.Document, error)
	Create(ctx context.Context, d models.Document) (models.Document, error)
	Update(ctx context.Context, id int, mutate func(models.Document) (models.Document, error)) (models.Document, error)
	Delete(ctx context.Context, id int) (models.Document, error)
}

// ApplicationDirectory resolves the application a document is filed under.
type ApplicationDirectory interface {
	Get(ctx context.Context, id int) (appmodels.Application, error)
}

// Service manages the document library.
type Service struct {
	store        Store
	applications ApplicationDirectory
	logger       *slog.Logger
	notifier     notify.Notifier
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

// WithApplicationDirectory fills the application reference and client name
// on create.
func WithApplicationDirectory(a ApplicationDirectory) Option {
	return func(s *Service) {
		s.applications = a
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, f models.Filter) ([]models.Document, error) {
	if f.Now.IsZero() {
		f.Now = requestcontext.Now(ctx)
	}
	docs, err := s.store.Filter(ctx, f.Matches)
	if err != nil {
		return nil, translate(err, "failed to list documents")
	}
	return docs, nil
}

func (s *Service) ListByApplication(ctx context.Context, applicationID int) ([]models.Document, error) {
	return s.List(ctx, models.Filter{ApplicationID: applicationID})
}

func (s *Service) Get(ctx context.Context, id int) (models.Document, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Document{}, translate(err, "failed to get document")
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, in models.Document) (models.Document, error) {
	if in.ApplicationID != 0 && s.applications != nil {
		app, err := s.applications.Get(ctx, in.ApplicationID)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				return models.Document{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("application %d does not exist", in.ApplicationID))
			}
			return models.Document{}, err
		}
		in.ApplicationRef = app.ReferenceNumber
		if in.ClientName == "" {
			in.ClientName = app.ClientName
		}
	}
	d, err := models.NewDocument(in, requestcontext.Now(ctx))
	if err != nil {
		return models.Document{}, translate(err, "failed to create document")
	}
	created, err := s.store.Create(ctx, d)
	if err != nil {
		return models.Document{}, translate(err, "failed to create document")
	}
	s.logEvent(ctx, "document_uploaded", "document_id", created.ID, "type", created.Type)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int, p models.Patch) (models.Document, error) {
	updated, err := s.store.Update(ctx, id, func(d models.Document) (models.Document, error) {
		return d.Apply(p)
	})
	if err != nil {
		return models.Document{}, translate(err, "failed to update document")
	}
	return updated, nil
}

// Verify marks a document verified and notifies.
func (s *Service) Verify(ctx context.Context, id int) (models.Document, error) {
	verified, err := s.store.Update(ctx, id, func(d models.Document) (models.Document, error) {
		return d.Verify()
	})
	if err != nil {
		return models.Document{}, translate(err, "failed to verify document")
	}
	s.logEvent(ctx, "document_verified", "document_id", id, "agent", requestcontext.Agent(ctx))
	s.emit(ctx, notify.Success("Document verified",
		fmt.Sprintf("%s for %s", verified.Type.Label(), verified.ClientName),
		fmt.Sprintf("document:%d", id)))
	return verified, nil
}

func (s *Service) Delete(ctx context.Context, id int) (models.Document, error) {
	d, err := s.store.Delete(ctx, id)
	if err != nil {
		return models.Document{}, translate(err, "failed to delete document")
	}
	s.logEvent(ctx, "document_deleted", "document_id", id)
	return d, nil
}

func translate(err error, msg string) error {
	switch {
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		return dErrors.Wrap(err, dErrors.CodeValidation, dErrors.MessageOf(err))
	case dErrors.HasCode(err, dErrors.CodeInvalidState):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "document not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
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
