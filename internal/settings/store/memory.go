// Package store keeps the single settings record, in process memory or in
// Redis when drafts are shared there too.
package store

import (
	"context"
	"sync"

	"visadesk/internal/settings/models"
)

type InMemory struct {
	mu      sync.RWMutex
	current models.Settings
}

func NewInMemory(initial models.Settings) *InMemory {
	return &InMemory{current: initial}
}

func (s *InMemory) Get(_ context.Context) (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

func (s *InMemory) Put(_ context.Context, v models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = v
	return nil
}
