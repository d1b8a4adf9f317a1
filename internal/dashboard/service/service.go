// Package service assembles the practice dashboard from the client,
// application and document services plus the compliance calendar.
package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	appmodels "visadesk/internal/application/models"
	clientmodels "visadesk/internal/client/models"
	"visadesk/internal/compliance"
	"visadesk/internal/dashboard/models"
	docmodels "visadesk/internal/document/models"
	"visadesk/internal/notify"
	"visadesk/pkg/requestcontext"
)

type ClientLister interface {
	List(ctx context.Context, f clientmodels.Filter) ([]clientmodels.Client, error)
}

type ApplicationLister interface {
	List(ctx context.Context, f appmodels.Filter) ([]appmodels.Application, error)
}

type DocumentLister interface {
	List(ctx context.Context, f docmodels.Filter) ([]docmodels.Document, error)
}

type DeadlineSource interface {
	Deadlines(now time.Time) []compliance.Deadline
}

// TaskHorizon is how far ahead deadlines become upcoming tasks.
const TaskHorizon = compliance.ExpiryWindow

type Service struct {
	clients   ClientLister
	apps      ApplicationLister
	documents DocumentLister
	deadlines DeadlineSource
	logger    *slog.Logger
	notifier  notify.Notifier

	remindMu sync.Mutex
	reminded map[string]time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDocuments adds expiring documents to the upcoming tasks.
func WithDocuments(d DocumentLister) Option {
	return func(s *Service) {
		s.documents = d
	}
}

// WithDeadlines adds compliance deadlines to the upcoming tasks.
func WithDeadlines(d DeadlineSource) Option {
	return func(s *Service) {
		s.deadlines = d
	}
}

// WithNotifier enables deadline reminders.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func New(clients ClientLister, apps ApplicationLister, opts ...Option) *Service {
	s := &Service{clients: clients, apps: apps, reminded: map[string]time.Time{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary loads every source concurrently; the first failure cancels the rest.
func (s *Service) Summary(ctx context.Context) (models.Summary, error) {
	now := requestcontext.Now(ctx)

	var (
		clients []clientmodels.Client
		apps    []appmodels.Application
		docs    []docmodels.Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clients, err = s.clients.List(gctx, clientmodels.Filter{})
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = s.apps.List(gctx, appmodels.Filter{})
		return err
	})
	if s.documents != nil {
		g.Go(func() error {
			var err error
			docs, err = s.documents.List(gctx, docmodels.Filter{Now: now})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logEvent(ctx, "dashboard_load_failed", "error", err)
		return models.Summary{}, err
	}

	return models.Summary{
		Stats:              models.ComputeStats(clients, apps, now),
		RecentClients:      recentClients(clients),
		RecentApplications: recentApplications(apps),
		UpcomingTasks:      s.upcoming(docs, now),
		GeneratedAt:        now,
	}, nil
}

func recentClients(all []clientmodels.Client) []clientmodels.Client {
	out := slices.Clone(all)
	slices.SortStableFunc(out, func(a, b clientmodels.Client) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out[:min(len(out), models.RecentLimit)]
}

func recentApplications(all []appmodels.Application) []appmodels.Application {
	out := slices.Clone(all)
	slices.SortStableFunc(out, func(a, b appmodels.Application) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out[:min(len(out), models.RecentLimit)]
}

// upcoming lists deadlines due between now and the horizon, soonest first.
func (s *Service) upcoming(docs []docmodels.Document, now time.Time) []models.Task {
	horizon := now.Add(TaskHorizon)
	due := func(t time.Time) bool { return !t.Before(now) && !t.After(horizon) }

	tasks := []models.Task{}
	for _, d := range docs {
		if d.ExpiryDate == nil || !due(*d.ExpiryDate) {
			continue
		}
		t := models.Task{
			Title:   d.Type.Label() + " expires - " + d.ClientName,
			Type:    models.TaskDocument,
			DueDate: *d.ExpiryDate,
		}
		if d.Type == docmodels.TypeHealthExam {
			t.Title = "Health examination due - " + d.ClientName
			t.Type = models.TaskHealth
		}
		tasks = append(tasks, t)
	}
	if s.deadlines != nil {
		for _, d := range s.deadlines.Deadlines(now) {
			if !due(d.Due) {
				continue
			}
			tasks = append(tasks, models.Task{Title: d.Title, Type: models.TaskCompliance, DueDate: d.Due})
		}
	}

	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		return cmp.Compare(a.DueDate.UnixNano(), b.DueDate.UnixNano())
	})
	for i := range tasks {
		tasks[i].ID = i + 1
		tasks[i].Priority = models.PriorityFor(compliance.DaysUntil(tasks[i].DueDate, now))
	}
	return tasks
}

// Remind emits a warning for every high priority task not reminded about yet
// and returns how many went out. Tasks whose due date has passed are
// forgotten.
func (s *Service) Remind(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}
	now := requestcontext.Now(ctx)
	var docs []docmodels.Document
	if s.documents != nil {
		var err error
		if docs, err = s.documents.List(ctx, docmodels.Filter{Now: now}); err != nil {
			s.logEvent(ctx, "deadline_reminders_failed", "error", err)
			return 0, err
		}
	}

	s.remindMu.Lock()
	defer s.remindMu.Unlock()
	for key, due := range s.reminded {
		if due.Before(now) {
			delete(s.reminded, key)
		}
	}
	sent := 0
	for _, t := range s.upcoming(docs, now) {
		if t.Priority != models.PriorityHigh {
			continue
		}
		subject := deadlineSubject(t)
		key := subject + "|" + t.Title
		if _, ok := s.reminded[key]; ok {
			continue
		}
		s.reminded[key] = t.DueDate
		days := compliance.DaysUntil(t.DueDate, now)
		s.notifier.Emit(ctx, notify.Warning("Deadline approaching", fmt.Sprintf("%s (due in %d days)", t.Title, days), subject))
		sent++
	}
	return sent, nil
}

// StartReminders runs Remind every interval until ctx is cancelled. A failed
// round is logged and retried on the next tick.
func (s *Service) StartReminders(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.Remind(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func deadlineSubject(t models.Task) string {
	return fmt.Sprintf("%s:%s:%s", notify.SubjectDeadline, t.Type, t.DueDate.Format(time.DateOnly))
}

func (s *Service) logEvent(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	s.logger.ErrorContext(ctx, event, attributes...)
}
