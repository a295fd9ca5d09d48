package hookfsm

import (
	"fmt"
	"log/slog"
)

// HookFunc is a lifecycle callback. A returned error is logged and reported
// to the Observer; it never stops the transition or sibling hooks.
type HookFunc func(ev *StateChangeEvent) error

type hookKey struct {
	state StateID
	kind  HookKind
}

// Machine is the runtime FSM instance.
//
// A Machine is single-threaded: every call runs to completion on the
// caller's goroutine and it must not be used from several goroutines at
// once. Hooks and data handlers may call back into the machine; only a
// state change from a before hook is rejected.
type Machine struct {
	table    *Table
	initial  StateID
	current  StateID
	started  bool
	inFlight *StateChangeEvent
	busy     error // raised by a nested change while inFlight was set

	hooks *EventListener[hookKey, *StateChangeEvent, struct{}]
	data  *EventListener[dataKey, *DataEvent, StateID]

	logger   *slog.Logger
	observer Observer
}

// MachineOption is a functional option for configuring a Machine
type MachineOption func(*Machine)

// WithInitialState overrides the table's initial state for this machine
func WithInitialState(id StateID) MachineOption {
	return func(m *Machine) {
		m.initial = id
	}
}

// WithLogger sets the logger for the machine
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithObserver sets the observer notified about transition outcomes and
// listener failures
func WithObserver(o Observer) MachineOption {
	return func(m *Machine) {
		m.observer = o
	}
}

// New creates a machine over a compiled table. The machine enters its
// initial state lazily, on the first read or transition.
func New(table *Table, opts ...MachineOption) (*Machine, error) {
	if table == nil {
		return nil, fmt.Errorf("nil transition table")
	}

	m := &Machine{
		table:    table,
		initial:  table.Initial(),
		logger:   Logger,
		observer: NopObserver{},
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.observer == nil {
		m.observer = NopObserver{}
	}
	if m.logger == nil {
		m.logger = Logger
	}

	if !table.HasState(m.initial) {
		return nil, fmt.Errorf("initial state %q: %w", m.initial, ErrUnknownState)
	}

	m.hooks = NewEventListener[hookKey, *StateChangeEvent, struct{}](func(key hookKey, err error) {
		m.logger.Warn("hook failed", "kind", key.kind, "state", key.state, "error", err)
		m.observer.ListenerFailed(key.kind.String(), key.state, err)
	})
	m.data = NewEventListener[dataKey, *DataEvent, StateID](func(key dataKey, err error) {
		m.logger.Warn("data handler failed", "state", key.state, "topic", key.topic, "error", err)
		m.observer.ListenerFailed("data", key.state, err)
	})

	return m, nil
}

// Table returns the transition table the machine runs on
func (m *Machine) Table() *Table {
	return m.table
}

// State returns the current state, entering the initial state first if the
// machine has not started yet
func (m *Machine) State() StateID {
	_ = m.ensureStarted()
	return m.current
}

// IsInState checks if the given state is the current state
func (m *Machine) IsInState(id StateID) bool {
	return m.State() == id
}

// CanTransition reports whether the table allows moving from the current
// state to target. It tells an illegal request apart from a same-state no-op,
// which ChangeState answers identically.
func (m *Machine) CanTransition(target StateID) bool {
	return m.table.Allowed(m.State(), target)
}

// Can reports whether the named transition exists from the current state
func (m *Machine) Can(name string) bool {
	_, ok := m.table.Named(m.State(), name)
	return ok
}

// ChangeState moves the machine to target.
//
// Moving to the current state is a no-op that fires nothing. A transition
// the table does not declare is rejected: it is logged, reported to the
// Observer and the unchanged state is returned with a nil error. A before
// hook may cancel the transition, with the same result. Changing state while
// another transition is in its before phase returns a *BusyError, both to
// the nested caller and to the caller of the outer transition.
func (m *Machine) ChangeState(target StateID, data any) (StateID, error) {
	if err := m.ensureStarted(); err != nil {
		return m.current, err
	}
	return m.changeState(target, data)
}

// Trigger performs the transition registered under name from the current
// state. Without such a transition it returns ErrUnknownTransition and
// changes nothing.
func (m *Machine) Trigger(name string, data any) (StateID, error) {
	if err := m.ensureStarted(); err != nil {
		return "", err
	}

	to, ok := m.table.Named(m.current, name)
	if !ok {
		return "", fmt.Errorf("%w %q from state %q", ErrUnknownTransition, name, m.current)
	}

	return m.changeState(to, data)
}

// BeforeEnter registers fn to run before target is entered.
// Use WildcardState to observe every state.
func (m *Machine) BeforeEnter(state StateID, fn HookFunc) *Registration {
	return m.addHook(state, BeforeEnter, fn)
}

// AfterEnter registers fn to run after state has been entered
func (m *Machine) AfterEnter(state StateID, fn HookFunc) *Registration {
	return m.addHook(state, AfterEnter, fn)
}

// BeforeLeave registers fn to run before state is left
func (m *Machine) BeforeLeave(state StateID, fn HookFunc) *Registration {
	return m.addHook(state, BeforeLeave, fn)
}

// AfterLeave registers fn to run after state has been left
func (m *Machine) AfterLeave(state StateID, fn HookFunc) *Registration {
	return m.addHook(state, AfterLeave, fn)
}

func (m *Machine) addHook(state StateID, kind HookKind, fn HookFunc) *Registration {
	m.checkListenerState(state)
	return m.hooks.AddListener(hookKey{state: state, kind: kind}, func(ev *StateChangeEvent) (struct{}, error) {
		return struct{}{}, fn(ev)
	})
}

func (m *Machine) checkListenerState(state StateID) {
	if state != WildcardState && !m.table.HasState(state) {
		m.logger.Warn("listener registered for undeclared state, it will never fire", "state", state)
	}
}

// ensureStarted enters the initial state exactly once. It is a no-op while
// the initialization transition itself is running.
func (m *Machine) ensureStarted() error {
	if m.started || m.inFlight != nil {
		return nil
	}
	_, err := m.transition(m.initial, nil, true)
	return err
}

func (m *Machine) changeState(target StateID, data any) (StateID, error) {
	if target == "" {
		return m.current, ErrNoTargetState
	}
	if !m.table.HasState(target) {
		return m.current, fmt.Errorf("%w %q", ErrUnknownState, target)
	}
	if target == m.current {
		return m.current, nil
	}
	return m.transition(target, data, false)
}

func (m *Machine) transition(target StateID, data any, bootstrap bool) (StateID, error) {
	ev := &StateChangeEvent{
		Data:      data,
		machine:   m,
		previous:  m.current,
		target:    target,
		bootstrap: bootstrap,
	}

	if in := m.inFlight; in != nil {
		err := &BusyError{
			InFlightFrom: in.previous,
			InFlightTo:   in.target,
			AttemptFrom:  m.current,
			AttemptTo:    target,
		}
		if m.busy == nil {
			m.busy = err
		}
		return m.current, err
	}

	if !bootstrap && !m.table.Allowed(m.current, target) {
		m.logger.Warn("no transition exists", "from", m.current, "to", target)
		m.observer.TransitionRejected(m.current, target)
		return m.current, nil
	}

	m.logger.Debug("changing state", "from", ev.previous, "to", target)

	busy := m.runBeforeHooks(ev)
	if busy != nil && !bootstrap {
		m.logger.Debug("transition abandoned, state changed from a before hook", "from", ev.previous, "to", target)
		return m.current, busy
	}

	if ev.cancelled {
		m.logger.Debug("transition cancelled", "from", ev.previous, "to", target)
		m.observer.TransitionCancelled(ev.previous, target)
		return m.current, nil
	}

	m.current = target
	m.started = true
	ev.done = true
	m.observer.TransitionCompleted(ev.previous, target)

	if ev.previous != "" {
		m.fireHooks(ev.previous, AfterLeave, ev)
	}
	m.fireHooks(target, AfterEnter, ev)

	return m.current, busy
}

// runBeforeHooks fires the cancelable phase with ev marked in flight and
// returns the busy error raised by any nested change attempt.
func (m *Machine) runBeforeHooks(ev *StateChangeEvent) error {
	m.inFlight = ev
	defer func() {
		m.inFlight = nil
		m.busy = nil
	}()

	if ev.previous != "" {
		m.fireHooks(ev.previous, BeforeLeave, ev)
	}
	m.fireHooks(ev.target, BeforeEnter, ev)

	return m.busy
}

func (m *Machine) fireHooks(state StateID, kind HookKind, ev *StateChangeEvent) {
	m.hooks.Fire(hookKey{state: state, kind: kind}, ev)
	m.hooks.Fire(hookKey{state: WildcardState, kind: kind}, ev)
}
