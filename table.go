package hookfsm

// Table is the immutable, compiled form of a Definition: the declared
// states, the set of legal transitions and the named-transition lookup.
type Table struct {
	states      []StateID
	index       map[StateID]int
	transitions []Transition
	allowed     map[transitionKey]bool
	named       map[namedKey]StateID
	initial     StateID
}

// States returns the declared states in declaration order
func (t *Table) States() []StateID {
	return append([]StateID(nil), t.states...)
}

// Transitions returns the declared transitions in declaration order
func (t *Table) Transitions() []Transition {
	return append([]Transition(nil), t.transitions...)
}

// Initial returns the state a machine starts in unless overridden
func (t *Table) Initial() StateID {
	return t.initial
}

// HasState reports whether id is a declared state
func (t *Table) HasState(id StateID) bool {
	_, ok := t.index[id]
	return ok
}

// Allowed reports whether from -> to is a legal transition
func (t *Table) Allowed(from, to StateID) bool {
	return t.allowed[transitionKey{from: from, to: to}]
}

// Named resolves a named transition from the given state
func (t *Table) Named(from StateID, name string) (StateID, bool) {
	to, ok := t.named[namedKey{from: from, name: name}]
	return to, ok
}

// NamesFrom lists the transition names callable from the given state
func (t *Table) NamesFrom(from StateID) []string {
	var names []string
	seen := make(map[string]bool)
	for _, tr := range t.transitions {
		if tr.From == from && tr.Name != "" && !seen[tr.Name] {
			seen[tr.Name] = true
			names = append(names, tr.Name)
		}
	}
	return names
}
