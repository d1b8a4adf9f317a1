package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"visadesk/internal/client/models"
	"visadesk/internal/notify"
	"visadesk/internal/storage"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/requestcontext"
)

type recordingNotifier struct {
	events []notify.Event
}

func (r *recordingNotifier) Emit(_ context.Context, e notify.Event) {
	r.events = append(r.events, e)
}

type ServiceSuite struct {
	suite.Suite
	store    *storage.Collection[models.Client]
	notifier *recordingNotifier
	service  *Service
	ctx      context.Context
	now      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.store = storage.NewCollection[models.Client]()
	s.store.Seed(
		models.Client{ID: 1, FirstName: "Sarah", LastName: "Chen", Email: "sarah.chen@example.com", Nationality: "Chinese", Status: models.StatusActive},
		models.Client{ID: 2, FirstName: "Raj", LastName: "Patel", Email: "raj@example.com", Nationality: "Indian", Status: models.StatusPending},
		models.Client{ID: 3, FirstName: "Maria", LastName: "Garcia", Email: "maria@example.com", Nationality: "Spanish", Status: models.StatusCompleted},
	)
	s.notifier = &recordingNotifier{}
	s.service = New(s.store, WithNotifier(s.notifier))
}

func (s *ServiceSuite) TestList() {
	s.Run("search covers name, email and nationality", func() {
		byName, err := s.service.List(s.ctx, models.Filter{Search: "sarah ch"})
		s.Require().NoError(err)
		s.Require().Len(byName, 1)
		s.Equal(1, byName[0].ID)

		byNationality, err := s.service.List(s.ctx, models.Filter{Search: "INDIAN"})
		s.Require().NoError(err)
		s.Require().Len(byNationality, 1)
		s.Equal(2, byNationality[0].ID)
	})

	s.Run("status filter", func() {
		f, err := models.ParseFilter("", "completed")
		s.Require().NoError(err)
		got, err := s.service.List(s.ctx, f)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal("Garcia", got[0].LastName)
	})

	s.Run("unknown status filter", func() {
		_, err := models.ParseFilter("", "archived")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestCreate() {
	s.Run("assigns next id and stamps timestamps", func() {
		c, err := s.service.Create(s.ctx, models.Client{FirstName: " Ana ", LastName: "Silva"})
		s.Require().NoError(err)
		s.Equal(4, c.ID)
		s.Equal("Ana", c.FirstName)
		s.Equal(models.StatusPending, c.Status)
		s.Equal(s.now, c.CreatedAt)
		s.Require().Len(s.notifier.events, 1)
		s.Equal(notify.LevelSuccess, s.notifier.events[0].Level)
	})

	s.Run("missing name is a validation error", func() {
		_, err := s.service.Create(s.ctx, models.Client{FirstName: "Solo"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestUpdate() {
	s.Run("merges patch", func() {
		phone := "+61 400 000 000"
		status := models.StatusActive
		c, err := s.service.Update(s.ctx, 2, models.Patch{Phone: &phone, Status: &status})
		s.Require().NoError(err)
		s.Equal(phone, c.Phone)
		s.Equal(models.StatusActive, c.Status)
		s.Equal("Raj", c.FirstName)
		s.Equal(s.now, c.UpdatedAt)
	})

	s.Run("invalid status rejected and stored record unchanged", func() {
		bad := models.Status("Archived")
		_, err := s.service.Update(s.ctx, 1, models.Patch{Status: &bad})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		got, err := s.service.Get(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(models.StatusActive, got.Status)
	})

	s.Run("unknown id", func() {
		_, err := s.service.Update(s.ctx, 99, models.Patch{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDelete() {
	deleted, err := s.service.Delete(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal("Maria", deleted.FirstName)

	_, err = s.service.Get(s.ctx, 3)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.Delete(s.ctx, 3)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCancelledContext() {
	slow := storage.NewCollection[models.Client](storage.WithLatency(storage.Latency{Get: time.Second}))
	svc := New(slow)
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := svc.Get(ctx, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}
