//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"visadesk/internal/settings/models"
	"visadesk/internal/settings/store"
	"visadesk/pkg/testutil/containers"
)

type RedisSettingsSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
}

func TestRedisSettingsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSettingsSuite))
}

func (s *RedisSettingsSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client, models.Default())
}

func (s *RedisSettingsSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSettingsSuite) TestFallbackBeforeFirstSave() {
	got, err := s.store.Get(context.Background())
	s.Require().NoError(err)
	s.Equal(models.Default(), got)
}

func (s *RedisSettingsSuite) TestRoundTrip() {
	ctx := context.Background()
	v := models.Default()
	v.Notifications.DeadlineReminders = false
	v.Security.TwoFactorAuth = true
	v.UpdatedAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	s.Require().NoError(s.store.Put(ctx, v))

	got, err := s.store.Get(ctx)
	s.Require().NoError(err)
	s.False(got.Notifications.DeadlineReminders)
	s.True(got.Security.TwoFactorAuth)
	s.True(v.UpdatedAt.Equal(got.UpdatedAt))
}
