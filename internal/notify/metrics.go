package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the notification channel.
type Metrics struct {
	Emitted      *prometheus.CounterVec
	Dropped      prometheus.Counter
	Muted        *prometheus.CounterVec
	Delivered    *prometheus.CounterVec
	Failed       *prometheus.CounterVec
	BreakerState prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Emitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_notifications_emitted_total",
			Help: "Notifications accepted by the publisher, by level",
		}, []string{"level"}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "visadesk_notifications_dropped_total",
			Help: "Notifications dropped because the publisher buffer was full",
		}),
		Muted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_notifications_muted_total",
			Help: "Notifications suppressed by the agent's preferences, by subject kind",
		}, []string{"kind"}),
		Delivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_notifications_delivered_total",
			Help: "Notifications delivered, by sink",
		}, []string{"sink"}),
		Failed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_notifications_failed_total",
			Help: "Notification deliveries that failed, by sink",
		}, []string{"sink"}),
		BreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "visadesk_notifications_kafka_breaker_open",
			Help: "Kafka sink circuit breaker state (0=closed, 1=open)",
		}),
	}
}
