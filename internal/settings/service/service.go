package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"visadesk/internal/notify"
	"visadesk/internal/settings/models"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/platform/sentinel"
	"visadesk/pkg/requestcontext"
)

// Store holds the one settings record.
type Store interface {
	Get(ctx context.Context) (models.Settings, error)
	Put(ctx context.Context, s models.Settings) error
}

// Gate is the notify.Filter backed by the saved notification preferences.
// The publisher consults it on every Emit, so reads are lock free.
type Gate struct {
	prefs atomic.Pointer[models.Notifications]
}

func NewGate(initial models.Notifications) *Gate {
	g := &Gate{}
	g.Set(initial)
	return g
}

func (g *Gate) Set(n models.Notifications) {
	g.prefs.Store(&n)
}

func (g *Gate) Allow(_ context.Context, e notify.Event) bool {
	return g.prefs.Load().Allows(e)
}

type Service struct {
	store    Store
	logger   *slog.Logger
	notifier notify.Notifier
	gate     *Gate
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

// WithGate keeps g in step with every saved update.
func WithGate(g *Gate) Option {
	return func(s *Service) {
		s.gate = g
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get(ctx context.Context) (models.Settings, error) {
	v, err := s.store.Get(ctx)
	if err != nil {
		return models.Settings{}, translate(err, "failed to load settings")
	}
	return v, nil
}

// Update replaces the settings wholesale.
func (s *Service) Update(ctx context.Context, in models.Settings) (models.Settings, error) {
	v, err := models.Prepare(in)
	if err != nil {
		return models.Settings{}, translate(err, "failed to save settings")
	}
	v.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Put(ctx, v); err != nil {
		return models.Settings{}, translate(err, "failed to save settings")
	}
	if s.gate != nil {
		s.gate.Set(v.Notifications)
	}
	s.logEvent(ctx, "settings_updated",
		"deadline_reminders", v.Notifications.DeadlineReminders,
		"client_updates", v.Notifications.ClientUpdates,
		"session_timeout", v.Security.SessionTimeout,
	)
	s.emit(ctx, notify.Success("Settings saved", "Settings saved successfully!", notify.SubjectSettings))
	return v, nil
}

func translate(err error, msg string) error {
	switch {
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		return dErrors.Wrap(err, dErrors.CodeValidation, dErrors.MessageOf(err))
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
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
