package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"visadesk/internal/wizard"
	"visadesk/pkg/platform/sentinel"
)

const draftKeyPrefix = "visadesk:wizard:draft:"

// Redis stores drafts as JSON with a sliding TTL so sessions survive process
// restarts and can be shared between instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func draftKey(id uuid.UUID) string {
	return draftKeyPrefix + id.String()
}

func (s *Redis) Save(ctx context.Context, state *wizard.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(state.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *Redis) Load(ctx context.Context, id uuid.UUID) (*wizard.State, error) {
	payload, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("draft %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w: %w", sentinel.ErrUnavailable, err)
	}
	var state wizard.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	if state.ApplicantDetails == nil {
		state.ApplicantDetails = map[string]string{}
	}
	if state.Errors == nil {
		state.Errors = map[string]string{}
	}
	return &state, nil
}

func (s *Redis) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.client.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete draft: %w: %w", sentinel.ErrUnavailable, err)
	}
	if n == 0 {
		return fmt.Errorf("draft %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

// Sweep is a no-op; Redis expires drafts itself.
func (s *Redis) Sweep(context.Context) (int, error) {
	return 0, nil
}
