// Package metrics holds the Prometheus counters folio records while it
// mutates state. Each Metrics owns its registry, so tests and commands
// never share counters through the global default registerer.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "folio"

// Operation results.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics groups the counters recorded by the application facade.
type Metrics struct {
	Registry *prometheus.Registry

	Operations    *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
	Persists      prometheus.Counter
	PersistErrors prometheus.Counter
	DroppedEdits  prometheus.Counter
	Seeded        prometheus.Counter
}

// New builds the counters and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Facade operations by name and result.",
		}, []string{"op", "result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contract_transitions_total",
			Help:      "Contract status transitions by source and target status.",
		}, []string{"from", "to"}),
		Persists: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_total",
			Help:      "Snapshots written to the store.",
		}),
		PersistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Snapshot writes that failed.",
		}),
		DroppedEdits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_field_edits_total",
			Help:      "Field edits ignored because the contract was locked or revoked.",
		}),
		Seeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seeded_blueprints_total",
			Help:      "Default blueprints written by initialization.",
		}),
	}
	m.Registry.MustRegister(
		m.Operations,
		m.Transitions,
		m.Persists,
		m.PersistErrors,
		m.DroppedEdits,
		m.Seeded,
	)
	return m
}

// Operation records the outcome of a facade operation.
func (m *Metrics) Operation(op, result string) {
	m.Operations.WithLabelValues(op, result).Inc()
}

// Transition records a status change.
func (m *Metrics) Transition(from, to string) {
	m.Transitions.WithLabelValues(from, to).Inc()
}

// Persist records a store write and whether it failed.
func (m *Metrics) Persist(err error) {
	if err != nil {
		m.PersistErrors.Inc()
		return
	}
	m.Persists.Inc()
}

// WriteTextfile writes the registry in the Prometheus text format to path,
// for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
