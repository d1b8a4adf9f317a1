package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks application lodgement and status movement.
type Metrics struct {
	Created        *prometheus.CounterVec
	StatusChanged  *prometheus.CounterVec
	CreateDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_applications_created_total",
			Help: "Applications lodged, by visa subclass",
		}, []string{"subclass"}),
		StatusChanged: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_application_status_changes_total",
			Help: "Application status transitions, by new status",
		}, []string{"status"}),
		CreateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "visadesk_application_create_duration_seconds",
			Help:    "Duration of application create operations including persistence",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
	}
}

func (m *Metrics) IncrementCreated(subclass string) {
	m.Created.WithLabelValues(subclass).Inc()
}

func (m *Metrics) IncrementStatusChanged(status string) {
	m.StatusChanged.WithLabelValues(status).Inc()
}

// ObserveCreate records a create that started at start.
func (m *Metrics) ObserveCreate(start time.Time) {
	m.CreateDuration.Observe(time.Since(start).Seconds())
}
