package hookfsm

// Transition declares a legal move between two states. A non-empty Name
// additionally makes it callable through Machine.Trigger.
type Transition struct {
	Name string  `yaml:"name,omitempty"`
	From StateID `yaml:"from"`
	To   StateID `yaml:"to"`
}

type transitionKey struct {
	from StateID
	to   StateID
}

type namedKey struct {
	from StateID
	name string
}
