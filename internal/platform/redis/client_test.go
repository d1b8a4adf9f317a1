package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visadesk/internal/platform/config"
)

func TestOptions(t *testing.T) {
	t.Run("empty url disables redis", func(t *testing.T) {
		opts, ok, err := Options(config.RedisConfig{})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, opts)

		c, err := New(context.Background(), config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("applies pool and timeouts", func(t *testing.T) {
		opts, ok, err := Options(config.RedisConfig{
			URL:          "redis://cache:6380/2",
			PoolSize:     7,
			MinIdleConns: 1,
			DialTimeout:  time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 7, opts.PoolSize)
		assert.Equal(t, 1, opts.MinIdleConns)
		assert.Equal(t, time.Second, opts.DialTimeout)
		assert.Equal(t, 2*time.Second, opts.ReadTimeout)
		assert.Equal(t, 3*time.Second, opts.WriteTimeout)
	})

	t.Run("rejects malformed url", func(t *testing.T) {
		_, _, err := Options(config.RedisConfig{URL: "http://nope"})
		assert.ErrorContains(t, err, "VISADESK_REDIS_URL")
	})
}
