package order

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the workflow instrumentation. Supplied via DI from main;
// a nil Metrics disables recording, which keeps unit tests quiet.
type Metrics struct {
	// Outcomes counts operation invocations by operation and outcome.
	Outcomes *prometheus.CounterVec
	// StepDurations observes per-step latency of the place-order chain.
	StepDurations *prometheus.HistogramVec
}

func (m *Metrics) outcome(operation, outcome string) {
	if m == nil || m.Outcomes == nil {
		return
	}
	m.Outcomes.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) stepDuration(step string, seconds float64) {
	if m == nil || m.StepDurations == nil {
		return
	}
	m.StepDurations.WithLabelValues(step).Observe(seconds)
}
