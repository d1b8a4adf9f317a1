package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"visadesk/internal/notify"
	"visadesk/internal/settings/models"
	"visadesk/internal/settings/store"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/platform/sentinel"
	"visadesk/pkg/requestcontext"
)

type recordingNotifier struct {
	events []notify.Event
}

func (r *recordingNotifier) Emit(_ context.Context, e notify.Event) {
	r.events = append(r.events, e)
}

type failingStore struct{}

func (failingStore) Get(context.Context) (models.Settings, error) {
	return models.Settings{}, fmt.Errorf("load settings: %w", sentinel.ErrUnavailable)
}

func (failingStore) Put(context.Context, models.Settings) error {
	return errors.New("disk full")
}

type ServiceSuite struct {
	suite.Suite
	store    *store.InMemory
	gate     *Gate
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
	s.store = store.NewInMemory(models.Default())
	s.gate = NewGate(models.Default().Notifications)
	s.notifier = &recordingNotifier{}
	s.service = New(s.store, WithNotifier(s.notifier), WithGate(s.gate))
}

func (s *ServiceSuite) TestGetReturnsDefaults() {
	got, err := s.service.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal("VisaFlow Immigration Services", got.Firm.Name)
	s.Equal(30, got.Security.SessionTimeout)
}

func (s *ServiceSuite) TestUpdate() {
	s.Run("saves, stamps and announces", func() {
		in := models.Default()
		in.Profile.Phone = "+61 2 9000 0000"
		got, err := s.service.Update(s.ctx, in)
		s.Require().NoError(err)
		s.Equal(s.now, got.UpdatedAt)

		stored, err := s.store.Get(s.ctx)
		s.Require().NoError(err)
		s.Equal(got, stored)

		s.Require().Len(s.notifier.events, 1)
		s.Equal(notify.LevelSuccess, s.notifier.events[0].Level)
		s.Equal("Settings saved successfully!", s.notifier.events[0].Message)
		s.Equal(notify.SubjectSettings, s.notifier.events[0].Subject)
	})

	s.Run("refreshes the gate", func() {
		deadline := notify.Warning("Deadline approaching", "Lodge 482", "deadline:lodgement:2025-03-20")
		s.True(s.gate.Allow(s.ctx, deadline))

		in := models.Default()
		in.Notifications.DeadlineReminders = false
		_, err := s.service.Update(s.ctx, in)
		s.Require().NoError(err)
		s.False(s.gate.Allow(s.ctx, deadline))
	})

	s.Run("invalid settings are not saved", func() {
		before, err := s.store.Get(s.ctx)
		s.Require().NoError(err)
		events := len(s.notifier.events)

		in := models.Default()
		in.Security.SessionTimeout = 5
		_, err = s.service.Update(s.ctx, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		after, err := s.store.Get(s.ctx)
		s.Require().NoError(err)
		s.Equal(before, after)
		s.Len(s.notifier.events, events)
	})
}

func (s *ServiceSuite) TestStoreFailures() {
	svc := New(failingStore{})

	_, err := svc.Get(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

	_, err = svc.Update(s.ctx, models.Default())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
