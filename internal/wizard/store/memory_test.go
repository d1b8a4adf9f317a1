package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"visadesk/internal/catalog"
	"visadesk/internal/wizard"
	"visadesk/pkg/platform/sentinel"
)

type MemoryDraftSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	store   *InMemory
	catalog *catalog.Catalog
}

func (s *MemoryDraftSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.store = NewInMemory(time.Hour, WithClock(func() time.Time { return s.now }))
	s.catalog = catalog.Default()
}

func TestMemoryDraftSuite(t *testing.T) {
	suite.Run(t, new(MemoryDraftSuite))
}

func (s *MemoryDraftSuite) TestSaveLoadDelete() {
	state := wizard.NewState(s.catalog, 2, s.now)
	state.ApplicantDetails["givenNames"] = "Priya"
	s.Require().NoError(s.store.Save(s.ctx, state))

	s.Run("load returns a copy", func() {
		loaded, err := s.store.Load(s.ctx, state.ID)
		s.Require().NoError(err)
		s.Equal(state.ApplicantDetails, loaded.ApplicantDetails)
		loaded.ApplicantDetails["givenNames"] = "changed"

		again, err := s.store.Load(s.ctx, state.ID)
		s.Require().NoError(err)
		s.Equal("Priya", again.ApplicantDetails["givenNames"])
	})

	s.Run("saved state is detached from caller", func() {
		state.StepIndex = 3
		loaded, err := s.store.Load(s.ctx, state.ID)
		s.Require().NoError(err)
		s.Equal(0, loaded.StepIndex)
	})

	s.Run("delete", func() {
		s.Require().NoError(s.store.Delete(s.ctx, state.ID))
		_, err := s.store.Load(s.ctx, state.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.ErrorIs(s.store.Delete(s.ctx, state.ID), sentinel.ErrNotFound)
	})
}

func (s *MemoryDraftSuite) TestUnknownDraft() {
	_, err := s.store.Load(s.ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryDraftSuite) TestExpiry() {
	state := wizard.NewState(s.catalog, 0, s.now)
	s.Require().NoError(s.store.Save(s.ctx, state))

	s.now = s.now.Add(59 * time.Minute)
	_, err := s.store.Load(s.ctx, state.ID)
	s.Require().NoError(err)

	s.Run("saving slides the expiry", func() {
		s.Require().NoError(s.store.Save(s.ctx, state))
		s.now = s.now.Add(59 * time.Minute)
		_, err := s.store.Load(s.ctx, state.ID)
		s.Require().NoError(err)
	})

	s.Run("expired drafts are gone", func() {
		s.now = s.now.Add(time.Minute)
		_, err := s.store.Load(s.ctx, state.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryDraftSuite) TestSweep() {
	old := wizard.NewState(s.catalog, 0, s.now)
	s.Require().NoError(s.store.Save(s.ctx, old))
	s.now = s.now.Add(30 * time.Minute)
	fresh := wizard.NewState(s.catalog, 0, s.now)
	s.Require().NoError(s.store.Save(s.ctx, fresh))

	s.now = s.now.Add(45 * time.Minute)
	removed, err := s.store.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, err = s.store.Load(s.ctx, fresh.ID)
	s.NoError(err)
}

func (s *MemoryDraftSuite) TestStartCleanupStopsOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- s.store.StartCleanup(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("cleanup loop did not stop")
	}
}
