package hookfsm

// StateChangeEvent describes a single transition attempt. It is handed to
// every lifecycle hook of that attempt and discarded afterwards.
type StateChangeEvent struct {
	Data any // Caller-supplied payload

	machine   *Machine
	previous  StateID
	target    StateID
	cancelled bool
	bootstrap bool
	done      bool
}

// Previous is the state being left. Empty only for the implicit
// initialization transition.
func (e *StateChangeEvent) Previous() StateID { return e.previous }

// Target is the state being entered
func (e *StateChangeEvent) Target() StateID { return e.target }

// Machine returns the machine performing the transition
func (e *StateChangeEvent) Machine() *Machine { return e.machine }

// Cancel aborts the transition when called from a before hook. It has no
// effect on the initialization transition or once the state has changed.
func (e *StateChangeEvent) Cancel() {
	if e.bootstrap || e.done {
		return
	}
	e.cancelled = true
}

// Cancelled reports whether a hook cancelled the transition
func (e *StateChangeEvent) Cancelled() bool { return e.cancelled }

// DataEvent carries a payload routed to the data handlers of a state
type DataEvent struct {
	Data  any
	Topic string // Empty for untyped sends

	machine  *Machine
	state    StateID
	consumed bool
}

// State is the state the payload was dispatched on
func (e *DataEvent) State() StateID { return e.state }

// Machine returns the machine routing the payload
func (e *DataEvent) Machine() *Machine { return e.machine }

// Consume stops the payload from reaching any further handler
func (e *DataEvent) Consume() { e.consumed = true }

// Consumed reports whether a handler consumed the payload
func (e *DataEvent) Consumed() bool { return e.consumed }
