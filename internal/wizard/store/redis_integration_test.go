//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"visadesk/internal/catalog"
	"visadesk/internal/wizard"
	"visadesk/internal/wizard/store"
	"visadesk/pkg/platform/sentinel"
	"visadesk/pkg/testutil/containers"
)

type RedisDraftSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
}

func TestRedisDraftSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisDraftSuite))
}

func (s *RedisDraftSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client, time.Hour)
}

func (s *RedisDraftSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisDraftSuite) TestRoundTrip() {
	ctx := context.Background()
	c := catalog.Default()
	m := wizard.NewMachine(c)
	state := m.Start(7, time.Now().UTC())
	s.Require().NoError(m.SelectVisa(state, "482"))
	s.Require().NoError(m.Advance(state))
	s.Require().NoError(m.SetField(state, "givenNames", "Priya"))
	_ = m.Advance(state)

	s.Require().NoError(s.store.Save(ctx, state))

	loaded, err := s.store.Load(ctx, state.ID)
	s.Require().NoError(err)
	s.Equal(state.ID, loaded.ID)
	s.Equal(7, loaded.ClientID)
	s.Equal(1, loaded.StepIndex)
	s.Equal("482", loaded.SelectedVisa)
	s.Equal(state.ApplicantDetails, loaded.ApplicantDetails)
	s.Equal(state.Errors, loaded.Errors)
	s.Equal(state.Documents, loaded.Documents)

	ttl, err := s.redis.Client.TTL(ctx, "visadesk:wizard:draft:"+state.ID.String()).Result()
	s.Require().NoError(err)
	s.InDelta(time.Hour.Seconds(), ttl.Seconds(), 5)
}

func (s *RedisDraftSuite) TestMissingAndDelete() {
	ctx := context.Background()
	_, err := s.store.Load(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)

	state := wizard.NewState(catalog.Default(), 0, time.Now())
	s.Require().NoError(s.store.Save(ctx, state))
	s.Require().NoError(s.store.Delete(ctx, state.ID))
	s.ErrorIs(s.store.Delete(ctx, state.ID), sentinel.ErrNotFound)
}

func (s *RedisDraftSuite) TestExpiry() {
	ctx := context.Background()
	short := store.NewRedis(s.redis.Client, time.Second)
	state := wizard.NewState(catalog.Default(), 0, time.Now())
	s.Require().NoError(short.Save(ctx, state))

	s.Eventually(func() bool {
		_, err := short.Load(ctx, state.ID)
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}
