package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Feed keeps the most recent events in a bounded ring, newest last.
type Feed struct {
	mu       sync.RWMutex
	events   []Event
	head     int
	count    int
	capacity int
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 100
	}
	return &Feed{events: make([]Event, capacity), capacity: capacity}
}

func (f *Feed) Name() string { return "feed" }

func (f *Feed) Deliver(_ context.Context, e Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[f.head] = e
	f.head = (f.head + 1) % f.capacity
	if f.count < f.capacity {
		f.count++
	}
	return nil
}

// Recent returns up to limit events, newest first. limit <= 0 returns all.
func (f *Feed) Recent(limit int) []Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := f.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (f.head - i + f.capacity) % f.capacity
		out = append(out, f.events[idx])
	}
	return out
}

// LogSink writes each event to the structured log.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(ctx context.Context, e Event) error {
	level := slog.LevelInfo
	switch e.Level {
	case LevelWarning:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "notification",
		"notification_id", e.ID,
		"level", e.Level,
		"title", e.Title,
		"message", e.Message,
		"subject", e.Subject,
		"agent", e.Agent,
		"request_id", e.RequestID,
	)
	return nil
}
