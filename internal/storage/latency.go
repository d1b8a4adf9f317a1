package storage

import (
	"context"
	"time"
)

// Latency is the fixed delay applied to each collection operation.
type Latency struct {
	List   time.Duration
	Get    time.Duration
	Create time.Duration
	Update time.Duration
	Delete time.Duration
}

// Scale returns l with every delay multiplied by f. Scale(0) disables latency.
func (l Latency) Scale(f float64) Latency {
	scale := func(d time.Duration) time.Duration { return time.Duration(float64(d) * f) }
	return Latency{
		List:   scale(l.List),
		Get:    scale(l.Get),
		Create: scale(l.Create),
		Update: scale(l.Update),
		Delete: scale(l.Delete),
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
