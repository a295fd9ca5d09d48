package hookfsm

import (
	"fmt"
)

// Definition holds the FSM structure before compiling it into a Table
type Definition struct {
	states      []StateID
	transitions []Transition
	initial     StateID
}

// NewDefinition creates a new FSM definition builder
func NewDefinition() *Definition {
	return &Definition{
		states:      make([]StateID, 0),
		transitions: make([]Transition, 0),
	}
}

// State declares states in order. The first declared state is the default
// initial state.
func (d *Definition) State(ids ...StateID) *Definition {
	d.states = append(d.states, ids...)
	return d
}

// Transition adds an unnamed legal transition
func (d *Definition) Transition(from, to StateID) *Definition {
	return d.NamedTransition("", from, to)
}

// NamedTransition adds a legal transition that can also be invoked by name
// from the source state
func (d *Definition) NamedTransition(name string, from, to StateID) *Definition {
	d.transitions = append(d.transitions, Transition{Name: name, From: from, To: to})
	return d
}

// Initial overrides the initial state
func (d *Definition) Initial(id StateID) *Definition {
	d.initial = id
	return d
}

// Validate checks the definition for errors
func (d *Definition) Validate() error {
	if len(d.states) == 0 {
		return fmt.Errorf("no states defined")
	}

	declared := make(map[StateID]bool, len(d.states))
	for _, id := range d.states {
		switch {
		case id == "":
			return fmt.Errorf("empty state id")
		case id == WildcardState:
			return fmt.Errorf("state id %q is reserved", WildcardState)
		case declared[id]:
			return fmt.Errorf("state %q declared twice", id)
		}
		declared[id] = true
	}

	if d.initial != "" && !declared[d.initial] {
		return fmt.Errorf("initial state %q not defined", d.initial)
	}

	named := make(map[namedKey]StateID)
	for _, t := range d.transitions {
		if !declared[t.From] {
			return fmt.Errorf("transition from undefined state %q", t.From)
		}
		if !declared[t.To] {
			return fmt.Errorf("transition to undefined state %q", t.To)
		}
		if t.Name == "" {
			continue
		}
		key := namedKey{from: t.From, name: t.Name}
		if to, ok := named[key]; ok && to != t.To {
			return fmt.Errorf("transition %q from %q leads to both %q and %q", t.Name, t.From, to, t.To)
		}
		named[key] = t.To
	}

	return nil
}

// Compile validates the definition and freezes it into a Table that any
// number of machines can share
func (d *Definition) Compile() (*Table, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}

	t := &Table{
		states:      append([]StateID(nil), d.states...),
		index:       make(map[StateID]int, len(d.states)),
		transitions: append([]Transition(nil), d.transitions...),
		allowed:     make(map[transitionKey]bool, len(d.transitions)),
		named:       make(map[namedKey]StateID),
		initial:     d.initial,
	}

	for i, id := range t.states {
		t.index[id] = i
	}
	if t.initial == "" {
		t.initial = t.states[0]
	}

	for _, tr := range t.transitions {
		t.allowed[transitionKey{from: tr.From, to: tr.To}] = true
		if tr.Name != "" {
			t.named[namedKey{from: tr.From, name: tr.Name}] = tr.To
		}
	}

	return t, nil
}

// Build compiles the definition and creates a Machine from it
func (d *Definition) Build(opts ...MachineOption) (*Machine, error) {
	t, err := d.Compile()
	if err != nil {
		return nil, err
	}
	return New(t, opts...)
}
