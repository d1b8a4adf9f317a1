package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"visadesk/pkg/requestcontext"
)

// Publisher enqueues events on a bounded channel. Emit never blocks: when the
// buffer is full the event is dropped and counted.
type Publisher struct {
	ch      chan Event
	logger  *slog.Logger
	metrics *Metrics
	filter  Filter
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
}

type PublisherOption func(*Publisher)

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithPublisherMetrics(m *Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithFilter mutes events the filter refuses before they are queued.
func WithFilter(f Filter) PublisherOption {
	return func(p *Publisher) {
		p.filter = f
	}
}

func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) {
		p.now = now
	}
}

func NewPublisher(buffer int, opts ...PublisherOption) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	p := &Publisher{
		ch:  make(chan Event, buffer),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps id, time, agent and request id from ctx and enqueues e.
func (p *Publisher) Emit(ctx context.Context, e Event) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.At.IsZero() {
		e.At = p.now()
	}
	if !e.Level.IsValid() {
		e.Level = LevelInfo
	}
	if e.Agent == "" {
		e.Agent = requestcontext.Agent(ctx)
	}
	if e.RequestID == "" {
		e.RequestID = requestcontext.RequestID(ctx)
	}

	if p.filter != nil && !p.filter.Allow(ctx, e) {
		if p.metrics != nil {
			p.metrics.Muted.WithLabelValues(SubjectKind(e.Subject)).Inc()
		}
		if p.logger != nil {
			p.logger.DebugContext(ctx, "notification muted", "title", e.Title, "subject", e.Subject)
		}
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.drop(ctx, e, "publisher closed")
		return
	}
	select {
	case p.ch <- e:
		if p.metrics != nil {
			p.metrics.Emitted.WithLabelValues(string(e.Level)).Inc()
		}
	default:
		p.drop(ctx, e, "buffer full")
	}
}

func (p *Publisher) drop(ctx context.Context, e Event, reason string) {
	if p.metrics != nil {
		p.metrics.Dropped.Inc()
	}
	if p.logger != nil {
		p.logger.WarnContext(ctx, "notification dropped",
			"reason", reason,
			"title", e.Title,
			"request_id", e.RequestID,
		)
	}
}

// Inbox is the channel a Worker drains.
func (p *Publisher) Inbox() <-chan Event {
	return p.ch
}

// Close stops accepting events and closes the inbox so the worker can drain
// and exit.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.ch)
}
