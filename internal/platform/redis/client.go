// Package redis opens the optional draft-store connection.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"visadesk/internal/platform/config"
)

// Client is a pinged go-redis client.
type Client struct {
	*redis.Client
}

// Options turns the env config into go-redis options. ok is false when no URL
// is configured.
func Options(cfg config.RedisConfig) (opts *redis.Options, ok bool, err error) {
	if cfg.URL == "" {
		return nil, false, nil
	}
	opts, err = redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, false, fmt.Errorf("VISADESK_REDIS_URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, true, nil
}

// New dials Redis and verifies the connection. A nil client with a nil error
// means drafts stay in process memory.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, ok, err := Options(cfg)
	if err != nil || !ok {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", opts.Addr, err)
	}
	return &Client{Client: rdb}, nil
}

// Health is registered as the /health "redis" check.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
