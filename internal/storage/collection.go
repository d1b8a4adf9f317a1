package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"visadesk/pkg/platform/sentinel"
)

// Record is implemented by the value types a Collection holds. Clone must
// return a deep copy so callers never alias stored state.
type Record[T any] interface {
	Key() int
	WithKey(id int) T
	Clone() T
}

// Collection is an in-memory, goroutine-safe table of records keyed by a
// positive integer id.
type Collection[T Record[T]] struct {
	mu      sync.RWMutex
	items   map[int]T
	highest int
	latency Latency
	sleep   func(ctx context.Context, d time.Duration) error
}

// Option configures a Collection.
type Option func(*options)

type options struct {
	latency Latency
}

// WithLatency applies fixed per-operation delays.
func WithLatency(l Latency) Option {
	return func(o *options) {
		o.latency = l
	}
}

// NewCollection builds an empty collection.
func NewCollection[T Record[T]](opts ...Option) *Collection[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		items:   make(map[int]T),
		latency: o.latency,
		sleep:   wait,
	}
}

// Seed inserts records keeping their ids. Used for fixtures; it skips latency.
func (c *Collection[T]) Seed(records ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range records {
		id := r.Key()
		c.items[id] = r.Clone()
		if id > c.highest {
			c.highest = id
		}
	}
}

// List returns every record ordered by id.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.Filter(ctx, nil)
}

// Filter returns records matching pred ordered by id. A nil pred matches all.
func (c *Collection[T]) Filter(ctx context.Context, pred func(T) bool) ([]T, error) {
	if err := c.sleep(ctx, c.latency.List); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.items))
	for _, r := range c.items {
		if pred == nil || pred(r) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

// Get returns the record with id or sentinel.ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	if err := c.sleep(ctx, c.latency.Get); err != nil {
		return zero, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.items[id]
	if !ok {
		return zero, fmt.Errorf("record %d: %w", id, sentinel.ErrNotFound)
	}
	return r.Clone(), nil
}

// Create assigns the next id and stores the record. Ids are never reused,
// even after the highest record has been deleted.
func (c *Collection[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	if err := c.sleep(ctx, c.latency.Create); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.highest++
	stored := record.WithKey(c.highest).Clone()
	c.items[c.highest] = stored
	return stored.Clone(), nil
}

// Update applies mutate to a copy of the stored record and saves the result.
// The id cannot be changed by mutate.
func (c *Collection[T]) Update(ctx context.Context, id int, mutate func(T) (T, error)) (T, error) {
	var zero T
	if err := c.sleep(ctx, c.latency.Update); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.items[id]
	if !ok {
		return zero, fmt.Errorf("record %d: %w", id, sentinel.ErrNotFound)
	}
	next, err := mutate(current.Clone())
	if err != nil {
		return zero, err
	}
	next = next.WithKey(id)
	c.items[id] = next.Clone()
	return next, nil
}

// Delete removes and returns the record with id.
func (c *Collection[T]) Delete(ctx context.Context, id int) (T, error) {
	var zero T
	if err := c.sleep(ctx, c.latency.Delete); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.items[id]
	if !ok {
		return zero, fmt.Errorf("record %d: %w", id, sentinel.ErrNotFound)
	}
	delete(c.items, id)
	return r, nil
}

// Len reports the number of stored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
