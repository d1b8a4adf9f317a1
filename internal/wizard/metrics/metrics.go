package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for transitions.
const (
	OutcomeOK      = "ok"
	OutcomeRefused = "refused"
	OutcomeError   = "error"
)

// Metrics tracks wizard sessions: how users move between steps, which fields
// block them and how often drafts turn into lodged applications.
type Metrics struct {
	SessionsStarted    prometheus.Counter
	Transitions        *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	Completions        *prometheus.CounterVec
	DraftSaves         *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "visadesk_wizard_sessions_started_total",
			Help: "Wizard sessions started",
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_wizard_transitions_total",
			Help: "Wizard operations by step, action and outcome",
		}, []string{"step", "action", "outcome"}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_wizard_validation_failures_total",
			Help: "Field errors raised by step gates, by field",
		}, []string{"field"}),
		Completions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_wizard_completions_total",
			Help: "Wizard completions by visa subclass and outcome",
		}, []string{"subclass", "outcome"}),
		DraftSaves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visadesk_wizard_draft_saves_total",
			Help: "Draft persistence attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveTransition(step, action, outcome string) {
	m.Transitions.WithLabelValues(step, action, outcome).Inc()
}

// ObserveFieldErrors counts each field named in errs.
func (m *Metrics) ObserveFieldErrors(errs map[string]string) {
	for field := range errs {
		m.ValidationFailures.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) ObserveCompletion(subclass, outcome string) {
	m.Completions.WithLabelValues(subclass, outcome).Inc()
}

func (m *Metrics) ObserveDraftSave(outcome string) {
	m.DraftSaves.WithLabelValues(outcome).Inc()
}
