// Package store persists in-progress wizard drafts.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"visadesk/internal/wizard"
	"visadesk/pkg/platform/sentinel"
)

type memoryEntry struct {
	state     *wizard.State
	expiresAt time.Time
}

// InMemory keeps drafts in process memory. Drafts expire ttl after their last
// save; expired drafts are dropped lazily on access and by Sweep.
type InMemory struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]memoryEntry
	ttl    time.Duration
	now    func() time.Time
}

type MemoryOption func(*InMemory)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemory) {
		s.now = now
	}
}

func NewInMemory(ttl time.Duration, opts ...MemoryOption) *InMemory {
	s := &InMemory{
		drafts: make(map[uuid.UUID]memoryEntry),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Save(_ context.Context, state *wizard.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[state.ID] = memoryEntry{state: state.Clone(), expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *InMemory) Load(_ context.Context, id uuid.UUID) (*wizard.State, error) {
	s.mu.RLock()
	entry, ok := s.drafts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, sentinel.ErrNotFound)
	}
	if !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.drafts, id)
		s.mu.Unlock()
		return nil, fmt.Errorf("draft %s: %w", id, sentinel.ErrNotFound)
	}
	return entry.state.Clone(), nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return fmt.Errorf("draft %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.drafts, id)
	return nil
}

// Sweep removes expired drafts and reports how many were dropped.
func (s *InMemory) Sweep(_ context.Context) (int, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.drafts {
		if !now.Before(entry.expiresAt) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed, nil
}

// StartCleanup sweeps expired drafts every interval until ctx is cancelled.
func (s *InMemory) StartCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
