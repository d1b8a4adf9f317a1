package notify

import (
	"context"
	"log/slog"
)

// Worker drains the publisher inbox into every sink. A failing sink is logged
// and counted; it never stops delivery to the others.
type Worker struct {
	inbox   <-chan Event
	sinks   []Sink
	logger  *slog.Logger
	metrics *Metrics
}

func NewWorker(inbox <-chan Event, logger *slog.Logger, metrics *Metrics, sinks ...Sink) *Worker {
	return &Worker{inbox: inbox, sinks: sinks, logger: logger, metrics: metrics}
}

// Run delivers until the inbox is closed or ctx is cancelled. On cancellation
// it flushes whatever is already buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return ctx.Err()
		case e, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.deliver(ctx, e)
		}
	}
}

func (w *Worker) flush() {
	// Sinks get a fresh context; the run context is already done.
	ctx := context.Background()
	for {
		select {
		case e, ok := <-w.inbox:
			if !ok {
				return
			}
			w.deliver(ctx, e)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, e Event) {
	for _, sink := range w.sinks {
		if err := sink.Deliver(ctx, e); err != nil {
			if w.metrics != nil {
				w.metrics.Failed.WithLabelValues(sink.Name()).Inc()
			}
			if w.logger != nil {
				w.logger.ErrorContext(ctx, "notification delivery failed",
					"sink", sink.Name(),
					"notification_id", e.ID,
					"error", err,
				)
			}
			continue
		}
		if w.metrics != nil {
			w.metrics.Delivered.WithLabelValues(sink.Name()).Inc()
		}
	}
}
