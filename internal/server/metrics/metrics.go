// Package metrics exposes Prometheus counters and the HTTP endpoint that
// serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application counters.
type Metrics struct {
	GateDecisions *prometheus.CounterVec
	Guesses       *prometheus.CounterVec
	Calls         *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mysterycard_gate_decisions_total",
				Help: "Access gate decisions by resulting state",
			},
			[]string{"state"},
		),
		Guesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mysterycard_guesses_total",
				Help: "Evaluated guesses by outcome",
			},
			[]string{"outcome"},
		),
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mysterycard_grpc_calls_total",
				Help: "Completed gRPC calls by method and status code",
			},
			[]string{"method", "code"},
		),
	}

	reg.MustRegister(m.GateDecisions, m.Guesses, m.Calls)

	return m
}

func (m *Metrics) ObserveGate(state string) {
	m.GateDecisions.WithLabelValues(state).Inc()
}

func (m *Metrics) ObserveGuess(allCorrect bool) {
	outcome := "miss"
	if allCorrect {
		outcome = "solved"
	}
	m.Guesses.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCall(method, code string) {
	m.Calls.WithLabelValues(method, code).Inc()
}
