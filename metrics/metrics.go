// Package metrics exports machine activity as Prometheus metrics.
//
//	c := metrics.NewCollector("player", table)
//	c.MustRegister(prometheus.DefaultRegisterer)
//	m, _ := hookfsm.New(table, hookfsm.WithObserver(c))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/librescoot/hookfsm"
)

// Collector implements hookfsm.Observer on top of Prometheus vectors
type Collector struct {
	states []hookfsm.StateID

	transitions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	cancelled   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	current     *prometheus.GaugeVec
}

var _ hookfsm.Observer = (*Collector)(nil)

// NewCollector creates the metric vectors under namespace. The table's
// states are pre-populated on the current-state gauge.
func NewCollector(namespace string, table *hookfsm.Table) *Collector {
	c := &Collector{
		states: table.States(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Completed state transitions.",
		}, []string{"from", "to"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_rejected_total",
			Help:      "Transitions refused because the table does not declare them.",
		}, []string{"from", "to"}),
		cancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_cancelled_total",
			Help:      "Transitions cancelled by a before hook.",
		}, []string{"from", "to"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listener_failures_total",
			Help:      "Hooks and data handlers that returned an error or panicked.",
		}, []string{"kind", "state"}),
		current: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_state",
			Help:      "1 for the state the machine is in, 0 for every other state.",
		}, []string{"state"}),
	}

	for _, s := range c.states {
		c.current.WithLabelValues(string(s)).Set(0)
	}

	return c
}

// Register adds all vectors to reg
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range c.collectors() {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is Register that panics on error
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.collectors()...)
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.transitions, c.rejected, c.cancelled, c.failures, c.current}
}

func (c *Collector) TransitionCompleted(from, to hookfsm.StateID) {
	c.transitions.WithLabelValues(label(from), string(to)).Inc()
	for _, s := range c.states {
		v := 0.0
		if s == to {
			v = 1
		}
		c.current.WithLabelValues(string(s)).Set(v)
	}
}

func (c *Collector) TransitionRejected(from, to hookfsm.StateID) {
	c.rejected.WithLabelValues(label(from), string(to)).Inc()
}

func (c *Collector) TransitionCancelled(from, to hookfsm.StateID) {
	c.cancelled.WithLabelValues(label(from), string(to)).Inc()
}

func (c *Collector) ListenerFailed(kind string, state hookfsm.StateID, err error) {
	c.failures.WithLabelValues(kind, string(state)).Inc()
}

// label names the empty previous state of the initialization transition
func label(s hookfsm.StateID) string {
	if s == "" {
		return "none"
	}
	return string(s)
}
