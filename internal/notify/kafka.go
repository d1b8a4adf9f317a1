package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"visadesk/pkg/platform/circuit"
)

// Producer is the subset of *kgo.Client the Kafka sink uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSink publishes events as JSON records keyed by subject. Repeated
// produce failures open a circuit breaker; while open, events go to the
// fallback sink and the broker is retried at most once per retry interval.
type KafkaSink struct {
	producer      Producer
	topic         string
	breaker       *circuit.Breaker
	fallback      Sink
	logger        *slog.Logger
	metrics       *Metrics
	retryInterval time.Duration
	now           func() time.Time

	mu        sync.Mutex
	lastRetry time.Time
}

type KafkaOption func(*KafkaSink)

func WithFallback(s Sink) KafkaOption {
	return func(k *KafkaSink) {
		k.fallback = s
	}
}

func WithKafkaLogger(logger *slog.Logger) KafkaOption {
	return func(k *KafkaSink) {
		k.logger = logger
	}
}

func WithKafkaMetrics(m *Metrics) KafkaOption {
	return func(k *KafkaSink) {
		k.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) KafkaOption {
	return func(k *KafkaSink) {
		k.breaker = b
	}
}

func WithRetryInterval(d time.Duration) KafkaOption {
	return func(k *KafkaSink) {
		k.retryInterval = d
	}
}

func WithKafkaClock(now func() time.Time) KafkaOption {
	return func(k *KafkaSink) {
		k.now = now
	}
}

func NewKafkaSink(producer Producer, topic string, opts ...KafkaOption) *KafkaSink {
	k := &KafkaSink{
		producer:      producer,
		topic:         topic,
		breaker:       circuit.New("kafka-sink"),
		retryInterval: 30 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// NewKafkaClient builds a franz-go client producing to topic.
func NewKafkaClient(brokers []string, topic string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
		kgo.ProducerLinger(10*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

func (k *KafkaSink) Name() string { return "kafka" }

func (k *KafkaSink) Deliver(ctx context.Context, e Event) error {
	if k.breaker.IsOpen() && !k.shouldRetry() {
		return k.deliverFallback(ctx, e)
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(e.Subject),
		Value: payload,
	}
	if err := k.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		useFallback, change := k.breaker.RecordFailure()
		if change.Opened {
			k.mu.Lock()
			k.lastRetry = k.now()
			k.mu.Unlock()
			k.setBreakerGauge(1)
			if k.logger != nil {
				k.logger.WarnContext(ctx, "kafka notification sink circuit opened", "error", err)
			}
		}
		if useFallback {
			return k.deliverFallback(ctx, e)
		}
		return fmt.Errorf("produce notification: %w", err)
	}

	if _, change := k.breaker.RecordSuccess(); change.Closed {
		k.setBreakerGauge(0)
		if k.logger != nil {
			k.logger.InfoContext(ctx, "kafka notification sink circuit closed")
		}
	}
	return nil
}

func (k *KafkaSink) shouldRetry() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := k.now()
	if now.Sub(k.lastRetry) < k.retryInterval {
		return false
	}
	k.lastRetry = now
	return true
}

func (k *KafkaSink) deliverFallback(ctx context.Context, e Event) error {
	if k.fallback == nil {
		return nil
	}
	return k.fallback.Deliver(ctx, e)
}

func (k *KafkaSink) setBreakerGauge(v float64) {
	if k.metrics != nil {
		k.metrics.BreakerState.Set(v)
	}
}
