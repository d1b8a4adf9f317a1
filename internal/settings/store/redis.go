package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"visadesk/internal/settings/models"
	"visadesk/pkg/platform/sentinel"
)

const settingsKey = "visadesk:settings"

// Redis stores the settings as one JSON value without expiry. Until the
// first Put, Get returns the fallback.
type Redis struct {
	client   *redis.Client
	fallback models.Settings
}

func NewRedis(client *redis.Client, fallback models.Settings) *Redis {
	return &Redis{client: client, fallback: fallback}
}

func (s *Redis) Get(ctx context.Context) (models.Settings, error) {
	payload, err := s.client.Get(ctx, settingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return s.fallback, nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w: %w", sentinel.ErrUnavailable, err)
	}
	var v models.Settings
	if err := json.Unmarshal(payload, &v); err != nil {
		return models.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return v, nil
}

func (s *Redis) Put(ctx context.Context, v models.Settings) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.client.Set(ctx, settingsKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("save settings: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
